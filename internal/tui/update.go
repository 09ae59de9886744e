package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/runoshun/git-agenda/internal/usecase"
)

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.detailViewport.Width = max(msg.Width-8, 20)
		m.detailViewport.Height = max(msg.Height-8, 5)
		return m, nil

	case MsgStateLoaded:
		if msg.State != nil {
			if msg.State.View != "" {
				m.view = msg.State.View
			}
			if msg.State.CalendarView != "" {
				m.calendarView = msg.State.CalendarView
			}
		}
		return m, m.reload()

	case MsgTasksLoaded:
		m.board = msg.Output
		m.clampBoardCursor()
		return m, nil

	case MsgAgendaLoaded:
		m.agenda = msg.Output
		m.anchor = msg.Output.Anchor
		m.calendarView = msg.Output.View
		m.clampCalendarCursor()
		return m, nil

	case MsgTaskSaved:
		m.form = nil
		m.mode = ModeNormal
		m.err = nil
		if msg.Output != nil {
			m.notice = msg.Output.Notice()
		}
		return m, m.reload()

	case MsgPageEnsured:
		if m.form != nil && msg.Page != nil {
			m.form.pageEnsured(msg.Page)
		}
		return m, nil

	case formErrorMsg:
		if m.form != nil {
			m.form.err = msg.err
			m.form.submitting = false
		}
		return m, nil

	case MsgTaskDeleted:
		m.mode = ModeNormal
		m.confirmAction = ConfirmNone
		m.confirmTaskID = ""
		return m, m.reload()

	case MsgStatusChanged:
		if !msg.Changed {
			return m, nil
		}
		return m, m.reload()

	case MsgTimeLogAdded:
		if msg.Output != nil {
			m.notice = "Logged " + msg.Output.Log.Amount.String()
			if n := msg.Output.Notice(); n != "" {
				m.notice = n
			}
		}
		return m, m.reload()

	case MsgDetailLoaded:
		m.detail = msg.Output
		m.mode = ModeDetail
		m.detailViewport.SetContent(m.detailContent())
		m.detailViewport.GotoTop()
		return m, nil

	case MsgFiltersLoaded:
		m.filters = msg.Filters
		m.filterCursor = 0
		m.mode = ModeFilters
		return m, nil

	case MsgFiltersSelected:
		m.mode = ModeNormal
		if err := m.container.ReloadSettings(); err != nil {
			m.err = err
			return m, nil
		}
		return m, m.reload()

	case MsgError:
		m.err = msg.Err
		if m.mode != ModeForm {
			m.mode = ModeNormal
		}
		m.confirmAction = ConfirmNone
		return m, nil

	case MsgClearError:
		m.err = nil
		return m, nil

	case MsgReload:
		return m, m.reload()
	}

	if m.mode == ModeDetail {
		var cmd tea.Cmd
		m.detailViewport, cmd = m.detailViewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKeyMsg dispatches key presses by mode.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		if m.form != nil {
			m.form.session.Close()
		}
		return m, tea.Quit
	}

	switch m.mode {
	case ModeForm:
		return m.handleFormMode(msg)
	case ModeConfirm:
		return m.handleConfirmMode(msg)
	case ModeFilters:
		return m.handleFiltersMode(msg)
	case ModeHelp:
		return m.handleHelpMode(msg)
	case ModeDetail:
		return m.handleDetailMode(msg)
	case ModeNormal:
		return m.handleNormalMode(msg)
	}
	return m, nil
}

// handleNormalMode handles keys on the board and the calendar.
func (m *Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.err != nil || m.notice != "" {
		m.err = nil
		m.notice = ""
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, m.keys.SwitchView):
		if m.view == domain.ViewCalendar {
			m.view = domain.ViewTasks
		} else {
			m.view = domain.ViewCalendar
		}
		return m, tea.Batch(m.saveView(), m.reload())

	case key.Matches(msg, m.keys.Refresh):
		return m, m.reload()

	case key.Matches(msg, m.keys.ShowDone):
		m.showDone = !m.showDone
		return m, m.reload()

	case key.Matches(msg, m.keys.Filters):
		return m, m.loadFilters()

	case key.Matches(msg, m.keys.New):
		return m.openCreateForm()

	case key.Matches(msg, m.keys.Up),
		key.Matches(msg, m.keys.Down),
		key.Matches(msg, m.keys.Left),
		key.Matches(msg, m.keys.Right):
		m.moveCursor(msg)
		return m, nil
	}

	if m.view == domain.ViewCalendar {
		switch {
		case key.Matches(msg, m.keys.Prev):
			return m, m.loadAgenda(usecase.ListAgendaInput{Anchor: m.anchor, Step: -1})
		case key.Matches(msg, m.keys.Next):
			return m, m.loadAgenda(usecase.ListAgendaInput{Anchor: m.anchor, Step: 1})
		case key.Matches(msg, m.keys.Today):
			m.cursor = domain.DateOf(m.now())
			m.event = 0
			return m, m.loadAgenda(usecase.ListAgendaInput{Today: true})
		case key.Matches(msg, m.keys.CalendarLayout):
			if m.calendarView == domain.ViewMonth {
				m.calendarView = domain.ViewWeek
			} else {
				m.calendarView = domain.ViewMonth
			}
			return m, tea.Batch(m.saveView(), m.reload())
		}
	} else if key.Matches(msg, m.keys.Group) {
		if m.grouping == usecase.ColumnsByCategory {
			m.grouping = usecase.ColumnsByDay
		} else {
			m.grouping = usecase.ColumnsByCategory
		}
		m.col, m.row = 0, 0
		return m, m.reload()
	}

	task := m.SelectedTask()
	if task == nil {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Enter):
		return m.openEditForm(task)
	case key.Matches(msg, m.keys.Detail):
		return m, m.loadDetail(task.ID)
	case key.Matches(msg, m.keys.ToggleDone):
		return m, m.toggleDone(task)
	case key.Matches(msg, m.keys.RemoveTime):
		if task.IsScheduleLocked() {
			m.err = domain.ErrEditLocked
			return m, nil
		}
		return m, m.removeTime(task.ID)
	case key.Matches(msg, m.keys.AddLog):
		return m, m.addTimeLog(task.ID)
	case key.Matches(msg, m.keys.Delete):
		m.mode = ModeConfirm
		m.confirmAction = ConfirmDelete
		m.confirmTaskID = task.ID
		return m, nil
	}
	return m, nil
}

// moveCursor moves the board or calendar selection.
func (m *Model) moveCursor(msg tea.KeyMsg) {
	dx, dy := 0, 0
	switch {
	case key.Matches(msg, m.keys.Up):
		dy = -1
	case key.Matches(msg, m.keys.Down):
		dy = 1
	case key.Matches(msg, m.keys.Left):
		dx = -1
	case key.Matches(msg, m.keys.Right):
		dx = 1
	}

	if m.view != domain.ViewCalendar {
		if dx != 0 {
			m.col += dx
			m.row = 0
		}
		m.row += dy
		m.clampBoardCursor()
		return
	}

	if m.agenda == nil {
		return
	}
	// Up and down walk the events of a day; past either end they move a week
	// in the month grid.
	events := len(m.dayEvents(m.cursor))
	switch {
	case dx != 0:
		m.cursor = m.cursor.AddDate(0, 0, dx)
		m.event = 0
	case dy > 0 && m.event < events-1:
		m.event++
	case dy < 0 && m.event > 0:
		m.event--
	case dy != 0 && m.agenda.View == domain.ViewMonth:
		m.cursor = m.cursor.AddDate(0, 0, 7*dy)
		m.event = 0
	}
	m.clampCalendarCursor()
}

// openCreateForm opens the dialog for a new task, prefilled with the
// selected calendar day.
func (m *Model) openCreateForm() (tea.Model, tea.Cmd) {
	var initial domain.FormData
	if m.view == domain.ViewCalendar && !m.cursor.IsZero() {
		day := m.cursor
		initial.StartDate = &day
	}
	session := m.container.NewSession(domain.CreateForm{Initial: initial})
	m.form = newTaskForm(session, m.knownPages(), m.container.Settings.Location, m.now)
	m.mode = ModeForm
	return m, nil
}

// openEditForm opens the dialog for an existing task.
func (m *Model) openEditForm(task *domain.Task) (tea.Model, tea.Cmd) {
	session := m.container.NewSession(domain.EditForm{Task: task})
	m.form = newTaskForm(session, m.knownPages(), m.container.Settings.Location, m.now)
	m.mode = ModeForm
	return m, nil
}

// handleFormMode forwards keys to the task dialog.
func (m *Model) handleFormMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		m.mode = ModeNormal
		return m, nil
	}
	cmd, done := m.form.Update(m.ctx, msg)
	if done {
		m.form = nil
		m.mode = ModeNormal
	}
	return m, cmd
}

// handleConfirmMode handles the delete confirmation.
func (m *Model) handleConfirmMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		id := m.confirmTaskID
		m.mode = ModeNormal
		m.confirmAction = ConfirmNone
		m.confirmTaskID = ""
		if id == "" {
			return m, nil
		}
		return m, m.deleteTask(id)
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Quit), msg.String() == "n":
		m.mode = ModeNormal
		m.confirmAction = ConfirmNone
		m.confirmTaskID = ""
	}
	return m, nil
}

// handleFiltersMode handles the filter checklist.
func (m *Model) handleFiltersMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Quit):
		m.mode = ModeNormal
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.filterCursor = max(m.filterCursor-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.filterCursor = min(m.filterCursor+1, max(len(m.filters)-1, 0))
	case key.Matches(msg, m.keys.ToggleDone):
		if m.filterCursor < len(m.filters) {
			m.filters[m.filterCursor].Selected = !m.filters[m.filterCursor].Selected
		}
	case key.Matches(msg, m.keys.Enter):
		return m, m.selectFilters()
	}
	return m, nil
}

// handleHelpMode closes the help overlay on any of its keys.
func (m *Model) handleHelpMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.Quit) {
		m.mode = ModeNormal
	}
	return m, nil
}

// handleDetailMode scrolls the detail view.
func (m *Model) handleDetailMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Detail):
		m.mode = ModeNormal
		m.detail = nil
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		if m.detail == nil {
			return m, nil
		}
		task := m.detail.Task
		m.detail = nil
		return m.openEditForm(task)
	}
	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}
