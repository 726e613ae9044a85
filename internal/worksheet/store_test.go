package worksheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/staff-worksheet/internal/domain"
)

func TestStoreReplaceNormalizesWeeks(t *testing.T) {
	s := NewStore()
	s.Replace([]*domain.Employee{
		{ID: "e1", Name: "张伟"},
		{ID: "e2", Name: "李静", Schedule: domain.WeekSchedule{
			"monday":   {Start: "09:00", End: "17:00"},
			"没有这一天": {Start: "00:00", End: "01:00"},
		}},
	})

	require.Len(t, s.Employees(), 2)

	// 七个 weekday 键恒存在，非法键被丢掉
	for _, e := range s.Employees() {
		assert.Len(t, e.Schedule, 7)
		for _, day := range domain.Weekdays {
			assert.Contains(t, e.Schedule, day)
		}
	}
	assert.Equal(t, "09:00", s.Get("e2").Schedule["monday"].Start)
}

func TestStoreAddRemove(t *testing.T) {
	s := NewStore()
	s.Add(&domain.Employee{ID: "e1", Name: "张伟"})
	s.Add(&domain.Employee{ID: "e2", Name: "李静"})

	assert.Len(t, s.Employees(), 2)
	assert.True(t, s.Remove("e1"))
	assert.False(t, s.Remove("e1"))
	assert.Len(t, s.Employees(), 1)
	assert.Nil(t, s.Get("e1"))
}

func TestStoreUpdateCell(t *testing.T) {
	s := NewStore()
	s.Add(&domain.Employee{ID: "e1", Name: "张伟"})

	assert.True(t, s.UpdateCell("e1", "monday", domain.DaySchedule{Start: "09:00", End: "17:00"}))
	assert.Equal(t, "17:00", s.Get("e1").Schedule["monday"].End)

	assert.False(t, s.UpdateCell("不存在", "monday", domain.DaySchedule{}))
	assert.False(t, s.UpdateCell("e1", "someday", domain.DaySchedule{}))

	assert.True(t, s.ClearCell("e1", "monday"))
	assert.True(t, s.Get("e1").Schedule["monday"].IsEmpty())
}

func TestStoreProjectTags(t *testing.T) {
	s := NewStore()
	s.Add(&domain.Employee{ID: "e1", Projects: "dashboard api"})
	s.Add(&domain.Employee{ID: "e2", Projects: "api infra"})
	s.Add(&domain.Employee{ID: "e3"})

	assert.Equal(t, []string{"api", "dashboard", "infra"}, s.ProjectTags())
}
