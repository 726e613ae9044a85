package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/staff-worksheet/internal/client"
	"github.com/sysu-ecnc-dev/staff-worksheet/internal/domain"
	"github.com/sysu-ecnc-dev/staff-worksheet/internal/worksheet"
)

func newTestApp(t *testing.T, employees []*domain.Employee) *App {
	t.Helper()

	// flush 窗口设成一小时，测试期间计时器不会触发
	app := NewApp(Options{
		Client:     client.New("http://127.0.0.1:1", "", nil),
		FlushDelay: time.Hour,
		PageSize:   8,
		IsManager:  true,
	})

	model, _ := app.Update(weekLoadedMsg{
		week: &client.WeeklySchedule{Employees: employees, CurrentWeek: "1-7 一月 2024"},
	})
	return model.(*App)
}

func testEmployees() []*domain.Employee {
	return []*domain.Employee{
		{ID: "e1", Name: "张伟", Projects: "dashboard", Schedule: domain.NewWeekSchedule()},
		{ID: "e2", Name: "李娜", Projects: "api", Schedule: domain.NewWeekSchedule()},
	}
}

func key(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	if s == "esc" {
		return tea.KeyMsg{Type: tea.KeyEscape}
	}
	if s == "tab" {
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeString(t *testing.T, app *App, s string) *App {
	t.Helper()
	for _, r := range s {
		model, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		app = model.(*App)
	}
	return app
}

func TestOpenEditAndCommit(t *testing.T) {
	app := newTestApp(t, testEmployees())

	// 在第一行周一的单元格上打开编辑
	model, _ := app.Update(key("enter"))
	app = model.(*App)
	require.NotNil(t, app.session.Editing())
	assert.Equal(t, "e1", app.session.Editing().EmployeeID)
	assert.Equal(t, "monday", app.session.Editing().Day)

	app = typeString(t, app, "09:00")

	// tab 切到结束时间，不提交
	model, _ = app.Update(key("tab"))
	app = model.(*App)
	require.NotNil(t, app.session.Editing())

	app = typeString(t, app, "17:00")

	model, _ = app.Update(key("enter"))
	app = model.(*App)

	assert.Nil(t, app.session.Editing())
	e := app.store.Get("e1")
	assert.Equal(t, domain.DaySchedule{Start: "09:00", End: "17:00"}, e.Schedule["monday"])
	assert.Equal(t, "8", e.TotalHours)
	assert.Equal(t, 1, app.agg.Pending())
}

func TestCancelEditKeepsStored(t *testing.T) {
	employees := testEmployees()
	employees[0].Schedule["monday"] = domain.DaySchedule{Start: "09:00", End: "17:00"}
	app := newTestApp(t, employees)

	model, _ := app.Update(key("enter"))
	app = model.(*App)
	app = typeString(t, app, "x")

	model, _ = app.Update(key("esc"))
	app = model.(*App)

	assert.Nil(t, app.session.Editing())
	e := app.store.Get("e1")
	assert.Equal(t, domain.DaySchedule{Start: "09:00", End: "17:00"}, e.Schedule["monday"])
	assert.Equal(t, 0, app.agg.Pending())
}

func TestClearCell(t *testing.T) {
	employees := testEmployees()
	employees[0].Schedule["monday"] = domain.DaySchedule{Start: "09:00", End: "17:00"}
	app := newTestApp(t, employees)

	model, _ := app.Update(key("c"))
	app = model.(*App)

	e := app.store.Get("e1")
	assert.True(t, e.Schedule["monday"].IsEmpty())
	assert.Equal(t, 1, app.agg.Pending())

	// 本来就空的单元格不入队
	model, _ = app.Update(key("c"))
	app = model.(*App)
	assert.Equal(t, 1, app.agg.Pending())
}

func TestOpenAnotherCellDiscardsDraft(t *testing.T) {
	app := newTestApp(t, testEmployees())

	model, _ := app.Update(key("enter"))
	app = model.(*App)
	app = typeString(t, app, "09:00")

	// esc 退出编辑、移动到下一行再打开：上一个草稿被丢弃且没有入队
	model, _ = app.Update(key("esc"))
	app = model.(*App)
	model, _ = app.Update(key("j"))
	app = model.(*App)
	model, _ = app.Update(key("enter"))
	app = model.(*App)

	require.NotNil(t, app.session.Editing())
	assert.Equal(t, "e2", app.session.Editing().EmployeeID)
	assert.Empty(t, app.session.DraftStart)
	assert.Equal(t, 0, app.agg.Pending())
	assert.True(t, app.store.Get("e1").Schedule["monday"].IsEmpty())
}

func TestSearchFiltersRows(t *testing.T) {
	app := newTestApp(t, testEmployees())

	model, _ := app.Update(key("/"))
	app = model.(*App)
	require.Equal(t, searchView, app.state)

	app = typeString(t, app, "李")
	rows := app.rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "李娜", rows[0].Name)

	model, _ = app.Update(key("enter"))
	app = model.(*App)
	assert.Equal(t, gridView, app.state)
	assert.Equal(t, "李", app.filters.Search)

	// esc 进入搜索后再退出会清掉搜索词
	model, _ = app.Update(key("/"))
	app = model.(*App)
	model, _ = app.Update(key("esc"))
	app = model.(*App)
	assert.Empty(t, app.filters.Search)
	assert.Len(t, app.rows(), 2)
}

func TestProjectFilterToggle(t *testing.T) {
	app := newTestApp(t, testEmployees())

	model, _ := app.Update(key("f"))
	app = model.(*App)
	require.Equal(t, filterView, app.state)
	require.Equal(t, []string{"api", "dashboard"}, app.tags)

	// 激活 api 标签
	model, _ = app.Update(key(" "))
	app = model.(*App)
	assert.True(t, app.filters.ActiveProjects()["api"])

	model, _ = app.Update(key("esc"))
	app = model.(*App)
	assert.Equal(t, gridView, app.state)

	// 只有项目串包含 api 的员工可见
	rows := app.rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "李娜", rows[0].Name)
}

func TestFallbackSnapshotIsReadOnly(t *testing.T) {
	employees := testEmployees()
	employees[0].Schedule["monday"] = domain.DaySchedule{Start: "09:00", End: "17:00"}
	app := NewApp(Options{
		Client:     client.New("http://127.0.0.1:1", "", nil),
		FlushDelay: time.Hour,
		PageSize:   8,
		IsManager:  true,
	})
	model, _ := app.Update(weekLoadedMsg{
		week:     &client.WeeklySchedule{Employees: employees, CurrentWeek: "1-7 一月 2024"},
		fallback: true,
	})
	app = model.(*App)

	// 内置快照是只读的：编辑、清空、增删员工都不生效，也不入队
	model, _ = app.Update(key("enter"))
	app = model.(*App)
	assert.Nil(t, app.session.Editing())

	model, _ = app.Update(key("c"))
	app = model.(*App)
	assert.Equal(t, domain.DaySchedule{Start: "09:00", End: "17:00"}, app.store.Get("e1").Schedule["monday"])
	assert.Equal(t, 0, app.agg.Pending())

	model, cmd := app.Update(key("x"))
	app = model.(*App)
	assert.Nil(t, cmd)

	model, _ = app.Update(key("a"))
	app = model.(*App)
	assert.Equal(t, gridView, app.state)
}

func TestLanguageToggleFlushesPending(t *testing.T) {
	app := newTestApp(t, testEmployees())

	var flushed []domain.PendingChange
	app.agg = worksheet.NewAggregator(time.Hour, worksheet.RealClock(), func(changes []domain.PendingChange) {
		flushed = changes
	})

	model, _ := app.Update(key("enter"))
	app = model.(*App)
	app = typeString(t, app, "09:00")
	model, _ = app.Update(key("tab"))
	app = model.(*App)
	app = typeString(t, app, "17:00")
	model, _ = app.Update(key("enter"))
	app = model.(*App)
	require.Equal(t, 1, app.agg.Pending())

	// 切换语言会重新拉取周表，拉取前必须先把排队的编辑冲出去
	model, cmd := app.Update(key("L"))
	app = model.(*App)
	require.NotNil(t, cmd)
	assert.Equal(t, "en", app.lang)

	msg := app.flushCmd()()
	assert.IsType(t, flushedMsg{}, msg)
	require.Len(t, flushed, 1)
	assert.Equal(t, "e1", flushed[0].EmployeeID)
	assert.Equal(t, 0, app.agg.Pending())
}

func TestUnauthorizedQuits(t *testing.T) {
	app := newTestApp(t, testEmployees())

	model, cmd := app.Update(weekLoadedMsg{err: client.ErrUnauthorized})
	app = model.(*App)

	assert.True(t, app.AuthFailed())
	require.NotNil(t, cmd)
}
