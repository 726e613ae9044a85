package worksheet

import (
	"github.com/sysu-ecnc-dev/staff-worksheet/internal/domain"
)

// DefaultPageSize 是拿不到视口几何信息时的退路页大小
const DefaultPageSize = 8

// Pager 把过滤后的员工列表切成页。列表的第一个员工固定钉为"当前员工"行，
// 不参与分页；页大小由外部注入（TUI 层按终端高度换算），核心不关心几何。
type Pager struct {
	pageSize int
	page     int // 从 0 开始
}

func NewPager(pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pager{pageSize: pageSize}
}

// SetPageSize 更新页大小并向下收敛当前页
func (p *Pager) SetPageSize(size int, total int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	p.pageSize = size
	p.Clamp(total)
}

func (p *Pager) PageSize() int {
	return p.pageSize
}

// Page 返回当前页（从 0 开始）
func (p *Pager) Page() int {
	return p.page
}

// TotalPages 返回 total 个剩余员工（已排除钉住的当前员工）需要的页数
func (p *Pager) TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + p.pageSize - 1) / p.pageSize
}

// Clamp 在过滤使结果变少时把当前页向下收敛到合法范围
func (p *Pager) Clamp(total int) {
	totalPages := p.TotalPages(total)
	if totalPages == 0 {
		p.page = 0
		return
	}
	if p.page >= totalPages {
		p.page = totalPages - 1
	}
}

func (p *Pager) Next(total int) {
	if p.page+1 < p.TotalPages(total) {
		p.page++
	}
}

func (p *Pager) Prev() {
	if p.page > 0 {
		p.page--
	}
}

// Slice 把可见列表切成 (钉住的当前员工, 当前页的行)。
// 可见列表为空时两者都为空。
func (p *Pager) Slice(visible []*domain.Employee) (*domain.Employee, []*domain.Employee) {
	if len(visible) == 0 {
		return nil, nil
	}

	current := visible[0]
	rest := visible[1:]

	p.Clamp(len(rest))

	start := p.page * p.pageSize
	if start >= len(rest) {
		return current, nil
	}
	end := start + p.pageSize
	if end > len(rest) {
		end = len(rest)
	}
	return current, rest[start:end]
}

// PageSizeForViewport 按测得的视口几何换算页大小：可用高度减去表头表尾等
// 占位高度再减一个余量常数，除以行高。量不出来时退回 fallback。
func PageSizeForViewport(viewportHeight, chromeHeight, rowHeight, margin, fallback int) int {
	if rowHeight <= 0 {
		return fallback
	}
	size := (viewportHeight - chromeHeight - margin) / rowHeight
	if size <= 0 {
		return fallback
	}
	return size
}
