package worksheet

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/staff-worksheet/internal/domain"
)

func makeEmployees(n int) []*domain.Employee {
	out := make([]*domain.Employee, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &domain.Employee{ID: fmt.Sprintf("e%d", i)})
	}
	return out
}

func TestPagerEmptyList(t *testing.T) {
	p := NewPager(5)

	current, rows := p.Slice(nil)
	assert.Nil(t, current)
	assert.Empty(t, rows)
	assert.Equal(t, 0, p.TotalPages(0))
}

func TestPagerPinsFirstEmployee(t *testing.T) {
	p := NewPager(5)
	employees := makeEmployees(3)

	current, rows := p.Slice(employees)
	require.NotNil(t, current)
	assert.Equal(t, "e0", current.ID)
	assert.Len(t, rows, 2)
	assert.Equal(t, "e1", rows[0].ID)
}

// 钉掉第一个员工后剩 pageSize+1 个，应当是两页
func TestPagerTotalPages(t *testing.T) {
	p := NewPager(5)
	employees := makeEmployees(7) // 钉 1 个，剩 6 = 5+1

	_, rows := p.Slice(employees)
	assert.Len(t, rows, 5)
	assert.Equal(t, 2, p.TotalPages(len(employees)-1))

	p.Next(len(employees) - 1)
	assert.Equal(t, 1, p.Page())
	_, rows = p.Slice(employees)
	assert.Len(t, rows, 1)
	assert.Equal(t, "e6", rows[0].ID)
}

func TestPagerClampWhenFiltered(t *testing.T) {
	p := NewPager(3)
	p.Next(10) // 第 2 页
	p.Next(10) // 第 3 页
	assert.Equal(t, 2, p.Page())

	// 过滤后只剩 2 个剩余员工，只有 1 页
	p.Clamp(2)
	assert.Equal(t, 0, p.Page())
}

func TestPagerPrevStopsAtZero(t *testing.T) {
	p := NewPager(3)
	p.Prev()
	assert.Equal(t, 0, p.Page())
}

func TestPagerSetPageSize(t *testing.T) {
	p := NewPager(10)
	p.Next(30)
	p.SetPageSize(4, 6)

	assert.Equal(t, 4, p.PageSize())
	assert.Equal(t, 1, p.Page()) // 6 个 4 一页共 2 页，第 2 页仍合法

	// 非法页大小退回默认值
	p.SetPageSize(0, 6)
	assert.Equal(t, DefaultPageSize, p.PageSize())
}

func TestPageSizeForViewport(t *testing.T) {
	// (40 - 10 - 2) / 2 = 14
	assert.Equal(t, 14, PageSizeForViewport(40, 10, 2, 2, 8))
	// 行高为 0 说明还没渲染出行，退回默认值
	assert.Equal(t, 8, PageSizeForViewport(40, 10, 0, 2, 8))
	// 视口太小算出非正数也退回默认值
	assert.Equal(t, 8, PageSizeForViewport(10, 10, 2, 2, 8))
}
