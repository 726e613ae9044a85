package worksheet

import (
	"sort"
	"strings"

	"github.com/sysu-ecnc-dev/staff-worksheet/internal/domain"
)

// Store 是当前会话的内存员工集，保持拉取时的顺序。
// 所有修改都发生在 TUI 的事件循环里，不做并发保护。
type Store struct {
	employees []*domain.Employee
}

func NewStore() *Store {
	return &Store{
		employees: make([]*domain.Employee, 0),
	}
}

// Replace 用整周拉取的结果重建员工集，补齐每个员工缺失的 weekday 键
func (s *Store) Replace(employees []*domain.Employee) {
	s.employees = make([]*domain.Employee, 0, len(employees))
	for _, e := range employees {
		if e.Schedule == nil {
			e.Schedule = domain.NewWeekSchedule()
		} else {
			e.Schedule.Normalize()
		}
		s.employees = append(s.employees, e)
	}
}

// Employees 返回当前的员工列表（原顺序）
func (s *Store) Employees() []*domain.Employee {
	return s.employees
}

// Get 按 ID 查找员工，找不到返回 nil
func (s *Store) Get(id string) *domain.Employee {
	for _, e := range s.employees {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Add 追加一个员工到列表末尾
func (s *Store) Add(e *domain.Employee) {
	if e.Schedule == nil {
		e.Schedule = domain.NewWeekSchedule()
	} else {
		e.Schedule.Normalize()
	}
	s.employees = append(s.employees, e)
}

// Remove 按 ID 删除员工，返回是否删除了
func (s *Store) Remove(id string) bool {
	for i, e := range s.employees {
		if e.ID == id {
			s.employees = append(s.employees[:i], s.employees[i+1:]...)
			return true
		}
	}
	return false
}

// UpdateCell 更新某个员工某一天的班次，返回是否更新了
func (s *Store) UpdateCell(id string, day string, schedule domain.DaySchedule) bool {
	e := s.Get(id)
	if e == nil || !domain.IsWeekday(day) {
		return false
	}
	e.Schedule[day] = schedule
	return true
}

// ClearCell 清空某个员工某一天的班次
func (s *Store) ClearCell(id string, day string) bool {
	return s.UpdateCell(id, day, domain.DaySchedule{})
}

// ProjectTags 从员工集派生全部项目标签：去重、排序
func (s *Store) ProjectTags() []string {
	seen := make(map[string]bool)
	tags := make([]string, 0)

	for _, e := range s.employees {
		for _, tag := range strings.Fields(e.Projects) {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}

	sort.Strings(tags)
	return tags
}
