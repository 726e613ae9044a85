package worksheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sysu-ecnc-dev/staff-worksheet/internal/domain"
)

func testEmployees() []*domain.Employee {
	return []*domain.Employee{
		{ID: "1", Name: "张伟", Projects: "dashboard api"},
		{ID: "2", Name: "李静", Projects: "api"},
		{ID: "3", Name: "Wang Lei", Projects: ""},
		{ID: "4", Name: "刘洋", Projects: "infra"},
	}
}

func ids(employees []*domain.Employee) []string {
	out := make([]string, 0, len(employees))
	for _, e := range employees {
		out = append(out, e.ID)
	}
	return out
}

func TestVisibleWithoutFilters(t *testing.T) {
	f := NewFilters()
	visible := f.Visible(testEmployees())
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(visible))
}

func TestVisibleByProject(t *testing.T) {
	f := NewFilters()
	f.ToggleProject("api")

	visible := f.Visible(testEmployees())
	assert.Equal(t, []string{"1", "2"}, ids(visible))

	// 多个活跃标签取并集
	f.ToggleProject("infra")
	visible = f.Visible(testEmployees())
	assert.Equal(t, []string{"1", "2", "4"}, ids(visible))

	// 再次切换即取消
	f.ToggleProject("api")
	f.ToggleProject("infra")
	visible = f.Visible(testEmployees())
	assert.Len(t, visible, 4)
}

func TestVisibleBySearch(t *testing.T) {
	f := NewFilters()
	f.Search = "wang"

	visible := f.Visible(testEmployees())
	assert.Equal(t, []string{"3"}, ids(visible))
}

func TestVisibleSearchAfterProject(t *testing.T) {
	f := NewFilters()
	f.ToggleProject("api")
	f.Search = "张"

	visible := f.Visible(testEmployees())
	assert.Equal(t, []string{"1"}, ids(visible))
}

// 幂等：同样的条件应用两次结果不变
func TestVisibleIdempotent(t *testing.T) {
	f := NewFilters()
	f.ToggleProject("api")

	once := f.Visible(testEmployees())
	twice := f.Visible(once)
	assert.Equal(t, ids(once), ids(twice))
}

func TestClearProjects(t *testing.T) {
	f := NewFilters()
	f.ToggleProject("api")
	f.ToggleProject("infra")
	f.ClearProjects()

	assert.Empty(t, f.ActiveProjects())
	assert.Len(t, f.Visible(testEmployees()), 4)
}
