package domain

// PendingDay 是某一天还未同步的编辑，Start 和 End 同时为 nil 表示清空当天的排班
type PendingDay struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
}

// IsClear 表示这是一次清空操作
func (d PendingDay) IsClear() bool {
	return d.Start == nil && d.End == nil
}

// PendingChange 是某个员工某一周还未同步的变更，按 (EmployeeID, WeekStart) 聚合，
// 同一天的多次编辑 last-write-wins
type PendingChange struct {
	EmployeeID string                `json:"employeeID"`
	WeekStart  string                `json:"weekStart"` // YYYY-MM-DD，周一
	Days       map[string]PendingDay `json:"days"`
}

// ScheduleUpdateRequest 是批量同步请求体，Changes 按入队顺序排列
type ScheduleUpdateRequest struct {
	Changes []PendingChange `json:"changes"`
}
