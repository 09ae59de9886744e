// Package tui provides the terminal agenda: a kanban board and a calendar
// over the tasks of the graph.
package tui

import (
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/runoshun/git-agenda/internal/app"
	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/runoshun/git-agenda/internal/usecase"
)

// Model is the main bubbletea model for the TUI.
// Fields are ordered to minimize memory padding.
type Model struct {
	// Dependencies
	container *app.Container
	ctx       context.Context
	err       error

	// Loaded data
	board   *usecase.ListTasksOutput
	agenda  *usecase.ListAgendaOutput
	detail  *usecase.ShowTaskOutput
	form    *taskForm
	filters []usecase.FilterEntry
	anchor  time.Time // Calendar anchor; zero until the first load
	cursor  time.Time // Selected calendar day
	notice  string

	// Components
	keys           KeyMap
	styles         Styles
	help           help.Model
	detailViewport viewport.Model

	// State
	view          domain.View
	calendarView  domain.CalendarView
	grouping      usecase.ColumnGrouping
	confirmTaskID string
	mode          Mode
	confirmAction ConfirmAction
	width         int
	height        int
	col           int // Focused board column
	row           int // Selected card in the focused column
	event         int // Selected event of the cursor day
	filterCursor  int
	showDone      bool
}

// New creates a new TUI Model with the given container.
func New(ctx context.Context, c *app.Container) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Model{
		container:      c,
		ctx:            ctx,
		keys:           DefaultKeyMap(),
		styles:         DefaultStyles(),
		help:           help.New(),
		detailViewport: viewport.New(0, 0),
		view:           domain.ViewTasks,
		calendarView:   domain.ViewWeek,
		grouping:       usecase.ColumnsByDay,
		mode:           ModeNormal,
	}
}

// Run starts the terminal agenda and blocks until it exits.
func Run(ctx context.Context, c *app.Container) error {
	p := tea.NewProgram(New(ctx, c), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init initializes the model and returns the initial command.
func (m *Model) Init() tea.Cmd {
	return m.loadState()
}

// now returns the current time in the graph's location.
func (m *Model) now() time.Time {
	t := m.container.Clock.Now()
	if loc := m.container.Settings.Location; loc != nil {
		t = t.In(loc)
	}
	return t
}

// loadState reads the saved view.
func (m *Model) loadState() tea.Cmd {
	return func() tea.Msg {
		st, err := m.container.State.Load()
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgStateLoaded{State: st}
	}
}

// reload refreshes the data of the current view.
func (m *Model) reload() tea.Cmd {
	if m.view == domain.ViewCalendar {
		return m.loadAgenda(usecase.ListAgendaInput{Anchor: m.anchor})
	}
	return m.loadTasks()
}

// loadTasks returns a command that loads the board columns.
func (m *Model) loadTasks() tea.Cmd {
	in := usecase.ListTasksInput{Group: m.grouping, IncludeDone: m.showDone}
	uc := m.container.ListTasksUseCase()
	return func() tea.Msg {
		out, err := uc.Execute(m.ctx, in)
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgTasksLoaded{Output: out}
	}
}

// loadAgenda returns a command that loads a calendar window.
func (m *Model) loadAgenda(in usecase.ListAgendaInput) tea.Cmd {
	if in.Anchor.IsZero() {
		in.Anchor = m.now()
	}
	in.View = m.calendarView
	in.HideDone = !m.showDone
	uc := m.container.ListAgendaUseCase()
	return func() tea.Msg {
		out, err := uc.Execute(m.ctx, in)
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgAgendaLoaded{Output: out}
	}
}

// saveView persists the main and calendar view.
func (m *Model) saveView() tea.Cmd {
	view, cal := m.view, m.calendarView
	uc := m.container.SetViewUseCase()
	return func() tea.Msg {
		if _, err := uc.Execute(m.ctx, usecase.SetViewInput{View: &view, CalendarView: &cal}); err != nil {
			return MsgError{Err: err}
		}
		return nil
	}
}

// SelectedTask returns the task under the cursor, or nil if none.
func (m *Model) SelectedTask() *domain.Task {
	if m.view == domain.ViewCalendar {
		if ev := m.selectedEvent(); ev != nil {
			return ev.Task
		}
		return nil
	}
	if m.board == nil || m.col >= len(m.board.Columns) {
		return nil
	}
	tasks := m.board.Columns[m.col].Tasks
	if m.row >= len(tasks) {
		return nil
	}
	return tasks[m.row]
}

// dayEvents returns the events shown on day, all-day events first.
func (m *Model) dayEvents(day time.Time) []domain.CalendarEvent {
	if m.agenda == nil {
		return nil
	}
	next := day.AddDate(0, 0, 1)
	var out []domain.CalendarEvent
	for _, ev := range m.agenda.Events {
		if !ev.Start.Before(next) || !ev.End.After(day) {
			continue
		}
		if !ev.AllDay && domain.DateOf(ev.Start).Before(day) {
			continue
		}
		out = append(out, ev)
	}
	slices.SortStableFunc(out, func(a, b domain.CalendarEvent) int {
		switch {
		case a.AllDay && !b.AllDay:
			return -1
		case !a.AllDay && b.AllDay:
			return 1
		}
		return a.Start.Compare(b.Start)
	})
	return out
}

// selectedEvent returns the event under the calendar cursor, or nil.
func (m *Model) selectedEvent() *domain.CalendarEvent {
	events := m.dayEvents(m.cursor)
	if m.event < 0 || m.event >= len(events) {
		return nil
	}
	return &events[m.event]
}

// clampBoardCursor keeps the board cursor inside the loaded columns.
func (m *Model) clampBoardCursor() {
	if m.board == nil || len(m.board.Columns) == 0 {
		m.col, m.row = 0, 0
		return
	}
	m.col = min(max(m.col, 0), len(m.board.Columns)-1)
	n := len(m.board.Columns[m.col].Tasks)
	m.row = min(max(m.row, 0), max(n-1, 0))
}

// clampCalendarCursor keeps the cursor day inside the loaded window. A
// cursor outside the window jumps to the anchor day.
func (m *Model) clampCalendarCursor() {
	if m.agenda == nil || len(m.agenda.Days) == 0 {
		return
	}
	first, last := m.agenda.Days[0], m.agenda.Days[len(m.agenda.Days)-1]
	if m.cursor.IsZero() || m.cursor.Before(first) || m.cursor.After(last) {
		m.cursor = domain.DateOf(m.agenda.Anchor)
		m.event = 0
	}
	n := len(m.dayEvents(m.cursor))
	m.event = min(max(m.event, 0), max(n-1, 0))
}

// toggleDone returns a command that flips the status of task.
func (m *Model) toggleDone(task *domain.Task) tea.Cmd {
	status := domain.StatusDone
	if task.IsDone() {
		status = domain.StatusTodo
	}
	uc := m.container.SetStatusUseCase()
	return func() tea.Msg {
		out, err := uc.Execute(m.ctx, usecase.SetStatusInput{TaskID: task.ID, Status: status})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgStatusChanged{Task: out.Task, Changed: out.Changed}
	}
}

// deleteTask returns a command that deletes a task block.
func (m *Model) deleteTask(id string) tea.Cmd {
	uc := m.container.DeleteTaskUseCase()
	return func() tea.Msg {
		if err := uc.Execute(m.ctx, usecase.DeleteTaskInput{TaskID: id}); err != nil {
			return MsgError{Err: err}
		}
		return MsgTaskDeleted{TaskID: id}
	}
}

// removeTime returns a command that takes a task out of the timebox.
func (m *Model) removeTime(id string) tea.Cmd {
	uc := m.container.ChangePlacementUseCase()
	return func() tea.Msg {
		out, err := uc.RemoveTime(m.ctx, usecase.RemoveTimeInput{TaskID: id})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgTaskSaved{Output: out}
	}
}

// addTimeLog returns a command that appends a default time log.
func (m *Model) addTimeLog(id string) tea.Cmd {
	uc := m.container.AddTimeLogUseCase()
	return func() tea.Msg {
		out, err := uc.Execute(m.ctx, usecase.AddTimeLogInput{TaskID: id})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgTimeLogAdded{Output: out}
	}
}

// loadDetail returns a command that loads the detail of a task.
func (m *Model) loadDetail(id string) tea.Cmd {
	uc := m.container.ShowTaskUseCase()
	return func() tea.Msg {
		out, err := uc.Execute(m.ctx, usecase.ShowTaskInput{TaskID: id})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgDetailLoaded{Output: out}
	}
}

// loadFilters returns a command that lists the filter definitions.
func (m *Model) loadFilters() tea.Cmd {
	uc := m.container.ListFiltersUseCase()
	return func() tea.Msg {
		out, err := uc.Execute(m.ctx)
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgFiltersLoaded{Filters: out.Filters}
	}
}

// selectFilters returns a command that saves the checked filters.
func (m *Model) selectFilters() tea.Cmd {
	var ids []domain.FilterID
	for _, f := range m.filters {
		if f.Selected {
			ids = append(ids, f.ID)
		}
	}
	uc := m.container.SelectFiltersUseCase()
	return func() tea.Msg {
		out, err := uc.Execute(m.ctx, usecase.SelectFiltersInput{Mode: usecase.SelectReplace, IDs: ids})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgFiltersSelected{Selected: out.Selected}
	}
}

// knownPages returns the project names of the loaded tasks, for tag suggestions.
func (m *Model) knownPages() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(t *domain.Task) {
		name := t.Project.OriginalName
		if name == "" || t.Project.IsJournal || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}
	if m.board != nil {
		for _, col := range m.board.Columns {
			for _, t := range col.Tasks {
				add(t)
			}
		}
	}
	if m.agenda != nil {
		for _, ev := range m.agenda.Events {
			if ev.Task != nil {
				add(ev.Task)
			}
		}
	}
	slices.Sort(names)
	return names
}
