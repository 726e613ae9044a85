package worksheet

import (
	"strings"

	"github.com/sysu-ecnc-dev/staff-worksheet/internal/domain"
)

// Filters 是当前的可见性条件：活跃项目集 + 姓名搜索串。
// 两个谓词都是纯函数，先过项目再过搜索，结果保持原顺序。
type Filters struct {
	activeProjects map[string]bool
	Search         string
}

func NewFilters() *Filters {
	return &Filters{
		activeProjects: make(map[string]bool),
	}
}

// ToggleProject 切换某个项目标签的活跃状态
func (f *Filters) ToggleProject(tag string) {
	if f.activeProjects[tag] {
		delete(f.activeProjects, tag)
	} else {
		f.activeProjects[tag] = true
	}
}

// ClearProjects 清空活跃项目集
func (f *Filters) ClearProjects() {
	f.activeProjects = make(map[string]bool)
}

// ActiveProjects 返回当前活跃的项目标签集合
func (f *Filters) ActiveProjects() map[string]bool {
	return f.activeProjects
}

// matchProjects 活跃集为空时全部可见，否则员工的项目串包含任一活跃标签即可见
func (f *Filters) matchProjects(e *domain.Employee) bool {
	if len(f.activeProjects) == 0 {
		return true
	}
	for tag := range f.activeProjects {
		if strings.Contains(e.Projects, tag) {
			return true
		}
	}
	return false
}

// matchSearch 姓名的大小写不敏感子串匹配
func (f *Filters) matchSearch(e *domain.Employee) bool {
	if f.Search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Name), strings.ToLower(f.Search))
}

// Visible 从员工列表派生可见子集
func (f *Filters) Visible(employees []*domain.Employee) []*domain.Employee {
	visible := make([]*domain.Employee, 0, len(employees))
	for _, e := range employees {
		if f.matchProjects(e) && f.matchSearch(e) {
			visible = append(visible, e)
		}
	}
	return visible
}
