package worksheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sysu-ecnc-dev/staff-worksheet/internal/domain"
)

func TestIsValidTimeOfDay(t *testing.T) {
	valid := []string{"00:00", "09:30", "23:59", "12:05"}
	for _, s := range valid {
		assert.True(t, IsValidTimeOfDay(s), s)
	}

	invalid := []string{"24:00", "9:30", "12:60", "ab:cd", "12:5", "", "12:30:00", "-1:00"}
	for _, s := range invalid {
		assert.False(t, IsValidTimeOfDay(s), s)
	}
}

func weekWith(days map[string]domain.DaySchedule) domain.WeekSchedule {
	ws := domain.NewWeekSchedule()
	for day, ds := range days {
		ws[day] = ds
	}
	return ws
}

func TestCalculateWorkHours(t *testing.T) {
	tests := []struct {
		name string
		week domain.WeekSchedule
		want string
	}{
		{
			name: "空周表",
			week: domain.NewWeekSchedule(),
			want: "0",
		},
		{
			name: "普通班次相加",
			week: weekWith(map[string]domain.DaySchedule{
				"monday":  {Start: "09:00", End: "17:00"},
				"tuesday": {Start: "10:00", End: "18:00"},
			}),
			want: "16",
		},
		{
			name: "跨夜班",
			week: weekWith(map[string]domain.DaySchedule{
				"monday": {Start: "22:00", End: "06:00"},
			}),
			want: "8",
		},
		{
			name: "半小时保留一位小数",
			week: weekWith(map[string]domain.DaySchedule{
				"monday": {Start: "09:00", End: "16:30"},
			}),
			want: "7.5",
		},
		{
			name: "缺一个时刻的日子跳过",
			week: weekWith(map[string]domain.DaySchedule{
				"monday":  {Start: "09:00", End: ""},
				"tuesday": {Start: "", End: "17:00"},
				"friday":  {Start: "09:00", End: "17:00"},
			}),
			want: "8",
		},
		{
			name: "起止相同计零",
			week: weekWith(map[string]domain.DaySchedule{
				"monday": {Start: "09:00", End: "09:00"},
			}),
			want: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateWorkHours(tt.week))
		})
	}
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "8", FormatHours(8.0))
	assert.Equal(t, "7.5", FormatHours(7.5))
	assert.Equal(t, "0", FormatHours(0))
	assert.Equal(t, "40.5", FormatHours(40.5))
}
