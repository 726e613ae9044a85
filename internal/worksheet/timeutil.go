package worksheet

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sysu-ecnc-dev/staff-worksheet/internal/domain"
)

// 24 小时制 HH:MM，小时 00~23，分钟 00~59
var timeOfDayRegexp = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// IsValidTimeOfDay 校验 "HH:MM" 格式的时刻字符串
func IsValidTimeOfDay(s string) bool {
	return timeOfDayRegexp.MatchString(s)
}

// minutesOfDay 把 "HH:MM" 转成当天第几分钟，调用前必须先校验格式
func minutesOfDay(s string) int {
	hour, _ := strconv.Atoi(s[:2])
	minute, _ := strconv.Atoi(s[3:])
	return hour*60 + minute
}

// CalculateWorkHours 计算一周的总工时并格式化成字符串。
// 只累加 start 和 end 都存在的日子；end 早于 start 时按跨夜班计算，
// 即 (24:00 - start) + (end - 00:00)。
// 格式化保留一位小数，小数位为 0 时省略（"8" 而不是 "8.0"，"7.5" 保留）。
func CalculateWorkHours(week domain.WeekSchedule) string {
	totalMinutes := 0

	for _, day := range domain.Weekdays {
		ds := week[day]
		if ds.Start == "" || ds.End == "" {
			continue
		}
		if !IsValidTimeOfDay(ds.Start) || !IsValidTimeOfDay(ds.End) {
			continue
		}

		start := minutesOfDay(ds.Start)
		end := minutesOfDay(ds.End)

		if end >= start {
			totalMinutes += end - start
		} else {
			// 跨夜班
			totalMinutes += (24*60 - start) + end
		}
	}

	return FormatHours(float64(totalMinutes) / 60)
}

// FormatHours 按工作表的显示规则格式化小时数
func FormatHours(hours float64) string {
	s := fmt.Sprintf("%.1f", hours)
	return strings.TrimSuffix(s, ".0")
}
