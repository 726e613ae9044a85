package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

// ScheduleChangedMailData 是周表变更后发给员工的工时汇总邮件内容
type ScheduleChangedMailData struct {
	EmployeeName string            `json:"employeeName"`
	WeekLabel    string            `json:"weekLabel"`
	TotalHours   string            `json:"totalHours"`
	Days         map[string]string `json:"days"` // 星期名 -> "09:00 - 17:00" 或 "休"
}
