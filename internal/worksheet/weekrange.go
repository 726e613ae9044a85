package worksheet

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WeekRange 是一周的起止日期（自然日，无时区含义）
type WeekRange struct {
	Start time.Time
	End   time.Time
}

// ParseWeekRange 把形如 "D-D 月份名 YYYY" 的周范围标签解析回起止日期。
// 格式不匹配或者月份名不在翻译表里时返回 ok=false，调用方应当视为"什么都不做"。
// 结束日小于起始日表示这一周跨月，结束日期落在下个月。
func ParseWeekRange(label string, lang string) (WeekRange, bool) {
	fields := strings.Fields(label)
	if len(fields) != 3 {
		return WeekRange{}, false
	}

	dayParts := strings.SplitN(fields[0], "-", 2)
	if len(dayParts) != 2 {
		return WeekRange{}, false
	}

	startDay, err := strconv.Atoi(dayParts[0])
	if err != nil {
		return WeekRange{}, false
	}
	endDay, err := strconv.Atoi(dayParts[1])
	if err != nil {
		return WeekRange{}, false
	}
	if startDay < 1 || startDay > 31 || endDay < 1 || endDay > 31 {
		return WeekRange{}, false
	}

	month := monthFromLabel(lang, fields[1])
	if month == 0 {
		return WeekRange{}, false
	}

	year, err := strconv.Atoi(fields[2])
	if err != nil {
		return WeekRange{}, false
	}

	start := time.Date(year, time.Month(month), startDay, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.Month(month), endDay, 0, 0, 0, 0, time.UTC)
	if endDay < startDay {
		// 跨月的一周
		end = end.AddDate(0, 1, 0)
	}

	return WeekRange{Start: start, End: end}, true
}

// FormatWeekRange 是 ParseWeekRange 的结构逆操作，月份与年份取自起始日期
func FormatWeekRange(start time.Time, end time.Time, lang string) string {
	return fmt.Sprintf("%d-%d %s %d", start.Day(), end.Day(), MonthLabel(lang, int(start.Month())), start.Year())
}

// WeekStartOf 返回 t 所在周的周一（零点）
func WeekStartOf(t time.Time) time.Time {
	offset := int(t.Weekday()-time.Monday+7) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -offset)
}

// WeekLabelOf 返回 t 所在周的周范围标签
func WeekLabelOf(t time.Time, lang string) string {
	start := WeekStartOf(t)
	return FormatWeekRange(start, start.AddDate(0, 0, 6), lang)
}
