package tui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sysu-ecnc-dev/staff-worksheet/internal/client"
	"github.com/sysu-ecnc-dev/staff-worksheet/internal/domain"
	"github.com/sysu-ecnc-dev/staff-worksheet/internal/worksheet"
)

type viewState int

const (
	gridView viewState = iota
	searchView
	filterView
	reposView
	addEmployeeView
)

// 表格之外的行数（标题、表头、输入框、标签栏、帮助等），算页大小时扣掉
const chromeHeight = 10

type weekLoadedMsg struct {
	week     *client.WeeklySchedule
	fallback bool
	err      error
}

type flushedMsg struct{}

type reposLoadedMsg struct {
	repos []client.Repo
	err   error
}

type employeeAddedMsg struct {
	employee *domain.Employee
	err      error
}

type employeeDeletedMsg struct {
	id  string
	err error
}

type Options struct {
	Client     *client.Client
	Local      *client.LocalStore
	Language   string
	FlushDelay time.Duration
	PageSize   int
	IsManager  bool
}

// App 是排班表的终端界面：行是员工、列是周一到周日，单元格可以进入编辑态。
// 单元格编辑不立即同步，先进聚合器攒着，窗口到期、翻周或退出时批量发给服务端。
type App struct {
	apiClient *client.Client
	local     *client.LocalStore
	store     *worksheet.Store
	filters   *worksheet.Filters
	pager     *worksheet.Pager
	session   *worksheet.EditSession
	agg       *worksheet.Aggregator

	lang            string
	isManager       bool
	defaultPageSize int

	weekStart time.Time
	weekLabel string
	fallback  bool
	loading   bool

	state viewState
	row   int
	col   int

	startInput  textinput.Model
	endInput    textinput.Model
	focusEnd    bool
	searchInput textinput.Model
	nameInput   textinput.Model

	tags      []string
	tagCursor int

	repos      []client.Repo
	repoCursor int

	status     string
	authFailed bool
	width      int
	height     int
}

func NewApp(opts Options) *App {
	newTimeInput := func(placeholder string) textinput.Model {
		ti := textinput.New()
		ti.CharLimit = 5
		ti.Width = 6
		ti.Placeholder = placeholder
		return ti
	}

	searchInput := textinput.New()
	searchInput.CharLimit = 50
	searchInput.Width = 30
	searchInput.Placeholder = "按姓名搜索..."

	nameInput := textinput.New()
	nameInput.CharLimit = 50
	nameInput.Width = 30
	nameInput.Placeholder = "新员工姓名"

	lang := opts.Language
	if lang == "" {
		lang = worksheet.DefaultLanguage
	}

	agg := worksheet.NewAggregator(opts.FlushDelay, worksheet.RealClock(), func(changes []domain.PendingChange) {
		// fire-and-forget：失败只记日志，不重新入队
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := opts.Client.SubmitChanges(ctx, changes); err != nil {
			slog.Error("同步排班变更失败", "error", err)
		}
	})

	return &App{
		apiClient:       opts.Client,
		local:           opts.Local,
		store:           worksheet.NewStore(),
		filters:         worksheet.NewFilters(),
		pager:           worksheet.NewPager(opts.PageSize),
		session:         worksheet.NewEditSession(),
		agg:             agg,
		lang:            lang,
		isManager:       opts.IsManager,
		defaultPageSize: opts.PageSize,
		weekStart:       worksheet.WeekStartOf(time.Now()),
		loading:         true,
		startInput:      newTimeInput("09:00"),
		endInput:        newTimeInput("17:00"),
		searchInput:     searchInput,
		nameInput:       nameInput,
	}
}

// AuthFailed 在程序退出后由命令层读取，提示用户重新登录
func (a *App) AuthFailed() bool {
	return a.authFailed
}

func (a *App) Init() tea.Cmd {
	return a.loadWeek(a.weekStart)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		size := worksheet.PageSizeForViewport(msg.Height, chromeHeight, 1, 1, a.defaultPageSize)
		visible := a.filters.Visible(a.store.Employees())
		rest := 0
		if len(visible) > 0 {
			rest = len(visible) - 1
		}
		a.pager.SetPageSize(size, rest)
		return a, nil

	case weekLoadedMsg:
		return a.handleWeekLoaded(msg)

	case flushedMsg:
		return a, nil

	case reposLoadedMsg:
		a.loading = false
		if msg.err != nil {
			a.status = errorStyle.Render(msg.err.Error())
			a.state = gridView
			return a, nil
		}
		a.repos = msg.repos
		a.repoCursor = 0
		return a, nil

	case employeeAddedMsg:
		if msg.err != nil {
			a.status = errorStyle.Render(msg.err.Error())
			return a, nil
		}
		a.store.Add(msg.employee)
		a.status = "已添加员工 " + msg.employee.Name
		return a, nil

	case employeeDeletedMsg:
		if msg.err != nil {
			a.status = errorStyle.Render(msg.err.Error())
			return a, nil
		}
		a.store.Remove(msg.id)
		a.clampCursor()
		a.status = "已删除员工"
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Sequence(a.flushCmd(), tea.Quit)
		}
	}

	switch a.state {
	case gridView:
		return a.updateGrid(msg)
	case searchView:
		return a.updateSearch(msg)
	case filterView:
		return a.updateFilter(msg)
	case reposView:
		return a.updateRepos(msg)
	case addEmployeeView:
		return a.updateAddEmployee(msg)
	}

	return a, nil
}

func (a *App) handleWeekLoaded(msg weekLoadedMsg) (tea.Model, tea.Cmd) {
	a.loading = false
	if msg.err != nil {
		if errors.Is(msg.err, client.ErrUnauthorized) {
			// 令牌失效：清掉本地令牌并退出，让用户重新登录
			a.authFailed = true
			if a.local != nil {
				_ = a.local.DeleteState(client.StateToken)
			}
			return a, tea.Quit
		}
		a.status = errorStyle.Render(msg.err.Error())
		return a, nil
	}

	a.store.Replace(msg.week.Employees)
	a.weekLabel = msg.week.CurrentWeek
	a.fallback = msg.fallback
	a.session.Cancel()
	a.clampCursor()
	return a, nil
}

func (a *App) updateGrid(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}

	if a.session.Editing() != nil {
		return a.updateEditing(keyMsg)
	}

	switch keyMsg.String() {
	case "q":
		return a, tea.Sequence(a.flushCmd(), tea.Quit)
	case "up", "k":
		if a.row > 0 {
			a.row--
		}
	case "down", "j":
		if a.row < len(a.rows())-1 {
			a.row++
		}
	case "left", "h":
		if a.col > 0 {
			a.col--
		}
	case "right", "l":
		if a.col < len(domain.Weekdays)-1 {
			a.col++
		}
	case "enter":
		a.openEdit()
		if a.session.Editing() == nil {
			return a, nil
		}
		return a, a.startInput.Focus()
	case "c":
		a.clearCell()
	case "n":
		visible := a.filters.Visible(a.store.Employees())
		if len(visible) > 0 {
			a.pager.Next(len(visible) - 1)
		}
		a.clampCursor()
	case "p":
		a.pager.Prev()
		a.clampCursor()
	case "]":
		a.loading = true
		return a, tea.Sequence(a.flushCmd(), a.loadWeek(a.weekStart.AddDate(0, 0, 7)))
	case "[":
		a.loading = true
		return a, tea.Sequence(a.flushCmd(), a.loadWeek(a.weekStart.AddDate(0, 0, -7)))
	case "/":
		a.state = searchView
		a.searchInput.SetValue(a.filters.Search)
		return a, a.searchInput.Focus()
	case "f":
		a.tags = a.store.ProjectTags()
		a.tagCursor = 0
		a.state = filterView
	case "r":
		a.state = reposView
		a.loading = true
		return a, a.loadRepos()
	case "L":
		a.cycleLanguage()
		a.loading = true
		// 重新拉取前先把排队的编辑冲出去，避免服务端旧值盖掉未同步的修改
		return a, tea.Sequence(a.flushCmd(), a.loadWeek(a.weekStart))
	case "a":
		if a.isManager && !a.fallback {
			a.state = addEmployeeView
			a.nameInput.SetValue("")
			return a, a.nameInput.Focus()
		}
	case "x":
		if a.isManager {
			return a, a.deleteSelected()
		}
	}
	return a, nil
}

func (a *App) updateEditing(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case "tab":
		// 在两个输入框之间切换，不触发提交
		a.focusEnd = !a.focusEnd
		if a.focusEnd {
			a.startInput.Blur()
			return a, a.endInput.Focus()
		}
		a.endInput.Blur()
		return a, a.startInput.Focus()
	case "enter":
		a.commitEdit()
		return a, nil
	case "esc":
		a.session.Cancel()
		a.startInput.Blur()
		a.endInput.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	if a.focusEnd {
		a.endInput, cmd = a.endInput.Update(keyMsg)
	} else {
		a.startInput, cmd = a.startInput.Update(keyMsg)
	}
	a.session.DraftStart = strings.TrimSpace(a.startInput.Value())
	a.session.DraftEnd = strings.TrimSpace(a.endInput.Value())
	return a, cmd
}

func (a *App) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			a.state = gridView
			a.searchInput.Blur()
			return a, nil
		case "esc":
			// esc 清掉搜索词
			a.filters.Search = ""
			a.searchInput.SetValue("")
			a.searchInput.Blur()
			a.state = gridView
			a.clampCursor()
			return a, nil
		}
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	a.filters.Search = a.searchInput.Value()
	a.clampCursor()
	return a, cmd
}

func (a *App) updateFilter(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "up", "k":
			if a.tagCursor > 0 {
				a.tagCursor--
			}
		case "down", "j":
			if a.tagCursor < len(a.tags)-1 {
				a.tagCursor++
			}
		case " ", "enter":
			if a.tagCursor < len(a.tags) {
				a.filters.ToggleProject(a.tags[a.tagCursor])
				a.clampCursor()
			}
		case "c":
			a.filters.ClearProjects()
			a.clampCursor()
		case "esc", "f", "q":
			a.state = gridView
		}
	}
	return a, nil
}

func (a *App) updateRepos(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "up", "k":
			if a.repoCursor > 0 {
				a.repoCursor--
			}
		case "down", "j":
			if a.repoCursor < len(a.repos)-1 {
				a.repoCursor++
			}
		case "esc", "r", "q":
			a.state = gridView
		}
	}
	return a, nil
}

func (a *App) updateAddEmployee(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			name := strings.TrimSpace(a.nameInput.Value())
			a.state = gridView
			a.nameInput.Blur()
			if name == "" {
				return a, nil
			}
			return a, a.addEmployee(name)
		case "esc":
			a.state = gridView
			a.nameInput.Blur()
			return a, nil
		}
	}

	var cmd tea.Cmd
	a.nameInput, cmd = a.nameInput.Update(msg)
	return a, cmd
}

// rows 返回当前渲染的行：钉住的当前员工 + 当前页
func (a *App) rows() []*domain.Employee {
	visible := a.filters.Visible(a.store.Employees())
	current, pageRows := a.pager.Slice(visible)
	if current == nil {
		return nil
	}
	return append([]*domain.Employee{current}, pageRows...)
}

func (a *App) clampCursor() {
	rows := a.rows()
	if len(rows) == 0 {
		a.row = 0
		return
	}
	if a.row >= len(rows) {
		a.row = len(rows) - 1
	}
}

func (a *App) openEdit() {
	if a.fallback {
		a.status = warningStyle.Render("离线快照为只读，无法编辑")
		return
	}
	rows := a.rows()
	if a.row >= len(rows) {
		return
	}
	e := rows[a.row]
	day := domain.Weekdays[a.col]
	stored := e.Schedule[day]

	// Open 会丢弃上一个单元格的未提交草稿
	a.session.Open(e.ID, day, stored)
	a.startInput.SetValue(stored.Start)
	a.endInput.SetValue(stored.End)
	a.focusEnd = false
	a.endInput.Blur()
	a.status = ""
}

func (a *App) commitEdit() {
	ref := a.session.Editing()
	if ref == nil {
		return
	}
	a.session.DraftStart = strings.TrimSpace(a.startInput.Value())
	a.session.DraftEnd = strings.TrimSpace(a.endInput.Value())

	e := a.store.Get(ref.EmployeeID)
	if e == nil {
		a.session.Cancel()
		return
	}

	day := ref.Day
	merged, outcome := a.session.Commit(e.Schedule[day])
	switch outcome {
	case worksheet.CommitApplied:
		a.store.UpdateCell(e.ID, day, merged)
		e.TotalHours = worksheet.CalculateWorkHours(e.Schedule)
		a.agg.Enqueue(e.ID, a.weekStart.Format("2006-01-02"), day, merged)
		a.status = ""
	case worksheet.CommitRollback:
		a.status = warningStyle.Render("输入无效，已回滚到原值")
	}

	a.startInput.Blur()
	a.endInput.Blur()
}

func (a *App) clearCell() {
	if a.fallback {
		a.status = warningStyle.Render("离线快照为只读，无法编辑")
		return
	}
	rows := a.rows()
	if a.row >= len(rows) {
		return
	}
	e := rows[a.row]
	day := domain.Weekdays[a.col]
	if e.Schedule[day].IsEmpty() {
		return
	}
	a.store.ClearCell(e.ID, day)
	e.TotalHours = worksheet.CalculateWorkHours(e.Schedule)
	a.agg.EnqueueClear(e.ID, a.weekStart.Format("2006-01-02"), day)
}

func (a *App) cycleLanguage() {
	langs := worksheet.Languages()
	for i, lang := range langs {
		if lang == a.lang {
			a.lang = langs[(i+1)%len(langs)]
			break
		}
	}
	if a.local != nil {
		_ = a.local.SetState(client.StateLanguage, a.lang)
	}
}

func (a *App) loadWeek(date time.Time) tea.Cmd {
	a.weekStart = worksheet.WeekStartOf(date)
	weekStart := a.weekStart
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		week, fallback, err := a.apiClient.GetWeeklySchedule(ctx, weekStart.Format("2006-01-02"), a.lang)
		return weekLoadedMsg{week: week, fallback: fallback, err: err}
	}
}

func (a *App) flushCmd() tea.Cmd {
	return func() tea.Msg {
		a.agg.Flush()
		return flushedMsg{}
	}
}

func (a *App) loadRepos() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		repos, err := a.apiClient.GetRepos(ctx)
		return reposLoadedMsg{repos: repos, err: err}
	}
}

func (a *App) addEmployee(name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		employee, err := a.apiClient.AddEmployee(ctx, name)
		return employeeAddedMsg{employee: employee, err: err}
	}
}

func (a *App) deleteSelected() tea.Cmd {
	if a.fallback {
		a.status = warningStyle.Render("离线快照为只读，无法编辑")
		return nil
	}
	rows := a.rows()
	if a.row >= len(rows) {
		return nil
	}
	id := rows[a.row].ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := a.apiClient.DeleteEmployee(ctx, id)
		return employeeDeletedMsg{id: id, err: err}
	}
}
