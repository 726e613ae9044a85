package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sysu-ecnc-dev/staff-worksheet/internal/domain"
	"github.com/sysu-ecnc-dev/staff-worksheet/internal/worksheet"
)

const (
	nameColWidth  = 12
	dayColWidth   = 13
	hoursColWidth = 6
)

var cellPad = lipgloss.NewStyle()

func pad(s string, width int) string {
	return cellPad.Width(width).MaxHeight(1).Render(s)
}

func (a *App) View() string {
	switch a.state {
	case reposView:
		return a.reposPage()
	case filterView:
		return a.filterPage()
	}
	return a.gridPage()
}

func (a *App) gridPage() string {
	var sb strings.Builder

	title := "员工排班表"
	if a.lang == "en" {
		title = "Staff Worksheet"
	}
	sb.WriteString(titleStyle.Render(title) + "  " + a.weekLabel)
	if a.loading {
		sb.WriteString(dimStyle.Render("  加载中..."))
	}
	if a.fallback {
		sb.WriteString("  " + warningStyle.Render("离线快照，只读"))
	}
	sb.WriteString("\n")

	// 表头
	nameHeader := "姓名"
	hoursHeader := "工时"
	if a.lang == "en" {
		nameHeader = "Name"
		hoursHeader = "Hours"
	}
	sb.WriteString(headerStyle.Render(pad(nameHeader, nameColWidth)))
	for i := range domain.Weekdays {
		sb.WriteString(headerStyle.Render(pad(worksheet.WeekdayLabel(a.lang, i), dayColWidth)))
	}
	sb.WriteString(headerStyle.Render(pad(hoursHeader, hoursColWidth)))
	sb.WriteString("\n")

	rows := a.rows()
	for i, e := range rows {
		sb.WriteString(a.renderRow(i, e))
		sb.WriteString("\n")
		if i == 0 {
			// 钉住的当前员工行下面画条分隔线
			sb.WriteString(dimStyle.Render(strings.Repeat("─", nameColWidth+dayColWidth*len(domain.Weekdays)+hoursColWidth)))
			sb.WriteString("\n")
		}
	}
	if len(rows) == 0 {
		sb.WriteString(dimStyle.Render("（没有匹配的员工）") + "\n")
	}

	// 编辑态输入框
	if ref := a.session.Editing(); ref != nil {
		if e := a.store.Get(ref.EmployeeID); e != nil {
			sb.WriteString(fmt.Sprintf("\n编辑 %s / %s：%s - %s\n",
				e.Name, a.dayLabel(ref.Day), a.startInput.View(), a.endInput.View()))
		}
	}

	// 搜索框
	if a.state == searchView {
		sb.WriteString("\n" + a.searchInput.View() + "\n")
	} else if a.filters.Search != "" {
		sb.WriteString("\n" + dimStyle.Render("搜索: "+a.filters.Search) + "\n")
	}

	// 添加员工输入框
	if a.state == addEmployeeView {
		sb.WriteString("\n" + a.nameInput.View() + "\n")
	}

	sb.WriteString("\n" + a.tagLine())
	sb.WriteString("\n" + a.footer())

	return sb.String()
}

func (a *App) renderRow(i int, e *domain.Employee) string {
	var sb strings.Builder

	name := pad(e.Name, nameColWidth)
	if i == 0 {
		name = currentRowStyle.Render(name)
	}
	sb.WriteString(name)

	editing := a.session.Editing()
	for col, day := range domain.Weekdays {
		ds := e.Schedule[day]
		text := "—"
		if !ds.IsEmpty() {
			text = ds.Start + "-" + ds.End
		}
		cell := pad(text, dayColWidth)

		switch {
		case editing != nil && editing.EmployeeID == e.ID && editing.Day == day:
			cell = editingCellStyle.Render(cell)
		case i == a.row && col == a.col && a.state == gridView:
			cell = cursorCellStyle.Render(cell)
		}
		sb.WriteString(cell)
	}

	sb.WriteString(dimStyle.Render(pad(e.TotalHours, hoursColWidth)))
	return sb.String()
}

func (a *App) dayLabel(day string) string {
	for i, d := range domain.Weekdays {
		if d == day {
			return worksheet.WeekdayLabel(a.lang, i)
		}
	}
	return day
}

// tagLine 渲染项目标签栏，活跃标签高亮
func (a *App) tagLine() string {
	tags := a.store.ProjectTags()
	if len(tags) == 0 {
		return ""
	}
	active := a.filters.ActiveProjects()

	parts := make([]string, 0, len(tags))
	for _, tag := range tags {
		if active[tag] {
			parts = append(parts, activeTagStyle.Render("["+tag+"]"))
		} else {
			parts = append(parts, dimStyle.Render(" "+tag+" "))
		}
	}
	return strings.Join(parts, " ")
}

func (a *App) footer() string {
	visible := a.filters.Visible(a.store.Employees())
	rest := 0
	if len(visible) > 0 {
		rest = len(visible) - 1
	}
	totalPages := a.pager.TotalPages(rest)
	page := ""
	if totalPages > 1 {
		page = fmt.Sprintf("  第 %d/%d 页", a.pager.Page()+1, totalPages)
	}

	pending := ""
	if n := a.agg.Pending(); n > 0 {
		pending = warningStyle.Render(fmt.Sprintf("  %d 条变更待同步", n))
	}

	help := "enter: 编辑  tab: 切换起止  esc: 取消  c: 清空  /: 搜索  f: 项目  r: 仓库  [/]: 翻周  n/p: 翻页  L: 语言  q: 退出"
	if a.isManager {
		help += "  a: 添加  x: 删除"
	}

	line := ""
	if a.status != "" {
		line = a.status + "\n"
	}
	return line + dimStyle.Render(page+pending) + "\n" + helpStyle.Render(help)
}

func (a *App) filterPage() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("项目筛选"))
	sb.WriteString("\n")

	if len(a.tags) == 0 {
		sb.WriteString(dimStyle.Render("（没有项目标签）") + "\n")
	}
	active := a.filters.ActiveProjects()
	for i, tag := range a.tags {
		prefix := "  "
		if i == a.tagCursor {
			prefix = "> "
		}
		mark := "[ ]"
		if active[tag] {
			mark = "[x]"
		}
		line := prefix + mark + " " + tag
		if i == a.tagCursor {
			line = activeTagStyle.Render(line)
		}
		sb.WriteString(line + "\n")
	}

	sb.WriteString("\n" + helpStyle.Render("space: 切换  c: 全部清除  j/k: 移动  esc: 返回"))
	return boxStyle.Render(sb.String())
}

func (a *App) reposPage() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("团队仓库"))
	sb.WriteString("\n")

	if a.loading {
		sb.WriteString(dimStyle.Render("加载中...") + "\n")
	}
	for i, repo := range a.repos {
		prefix := "  "
		if i == a.repoCursor {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%-30s  ★ %-5d  %-12s  %s",
			prefix, repo.FullName, repo.Stars, repo.Language, repo.UpdatedAt.Format("2006-01-02"))
		if i == a.repoCursor {
			line = activeTagStyle.Render(line)
		}
		sb.WriteString(line + "\n")
	}
	if !a.loading && len(a.repos) == 0 {
		sb.WriteString(dimStyle.Render("（没有仓库）") + "\n")
	}

	sb.WriteString("\n" + helpStyle.Render("j/k: 移动  esc: 返回"))
	return boxStyle.Render(sb.String())
}
