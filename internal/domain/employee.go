package domain

import (
	"time"
)

// Weekdays 是周表的七个固定键，顺序即表格列的顺序
var Weekdays = []string{
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
	"sunday",
}

// IsWeekday 判断 day 是不是合法的周表键
func IsWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// DaySchedule 是某一天的班次，start 和 end 均为 "HH:MM"，两者都为空表示当天没有排班
type DaySchedule struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// IsEmpty 表示当天没有排班
func (d DaySchedule) IsEmpty() bool {
	return d.Start == "" && d.End == ""
}

// WeekSchedule 是 weekday -> DaySchedule 的映射，七个键必须恒存在
type WeekSchedule map[string]DaySchedule

// NewWeekSchedule 创建一个七个键都为空班次的周表
func NewWeekSchedule() WeekSchedule {
	ws := make(WeekSchedule, len(Weekdays))
	for _, day := range Weekdays {
		ws[day] = DaySchedule{}
	}
	return ws
}

// Normalize 补齐缺失的 weekday 键，丢弃非法键
func (ws WeekSchedule) Normalize() {
	for day := range ws {
		if !IsWeekday(day) {
			delete(ws, day)
		}
	}
	for _, day := range Weekdays {
		if _, exists := ws[day]; !exists {
			ws[day] = DaySchedule{}
		}
	}
}

type Employee struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Projects   string       `json:"projects,omitempty"` // 空格分隔的项目标签串
	Schedule   WeekSchedule `json:"schedule"`
	TotalHours string       `json:"totalHours,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
	Version    int32        `json:"-"`
}
