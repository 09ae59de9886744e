package tui

import (
	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/runoshun/git-agenda/internal/usecase"
)

// Msg is the sealed interface for all TUI messages.
//
// go-sumtype:decl Msg
type Msg interface {
	sealed()
}

// MsgStateLoaded is sent when the saved view state is read.
type MsgStateLoaded struct {
	State *domain.AppState
}

func (MsgStateLoaded) sealed() {}

// MsgTasksLoaded is sent when the board columns are loaded.
type MsgTasksLoaded struct {
	Output *usecase.ListTasksOutput
}

func (MsgTasksLoaded) sealed() {}

// MsgAgendaLoaded is sent when a calendar window is loaded.
type MsgAgendaLoaded struct {
	Output *usecase.ListAgendaOutput
}

func (MsgAgendaLoaded) sealed() {}

// MsgTaskSaved is sent after a task was created, edited or re-placed.
type MsgTaskSaved struct {
	Output *usecase.TaskOutput
}

func (MsgTaskSaved) sealed() {}

// MsgTaskDeleted is sent when a task block is deleted.
type MsgTaskDeleted struct {
	TaskID string
}

func (MsgTaskDeleted) sealed() {}

// MsgStatusChanged is sent when a task status is updated.
type MsgStatusChanged struct {
	Task    *domain.Task
	Changed bool
}

func (MsgStatusChanged) sealed() {}

// MsgTimeLogAdded is sent when a default time log is appended.
type MsgTimeLogAdded struct {
	Output *usecase.AddTimeLogOutput
}

func (MsgTimeLogAdded) sealed() {}

// MsgFiltersLoaded is sent when the filter definitions are listed.
type MsgFiltersLoaded struct {
	Filters []usecase.FilterEntry
}

func (MsgFiltersLoaded) sealed() {}

// MsgFiltersSelected is sent when the filter selection is saved.
type MsgFiltersSelected struct {
	Selected []domain.FilterID
}

func (MsgFiltersSelected) sealed() {}

// MsgPageEnsured is sent when the form picked or created a project page.
type MsgPageEnsured struct {
	Page *domain.PageInfo
}

func (MsgPageEnsured) sealed() {}

// MsgDetailLoaded is sent when the detail of a task is loaded.
type MsgDetailLoaded struct {
	Output *usecase.ShowTaskOutput
}

func (MsgDetailLoaded) sealed() {}

// MsgError is sent when an error occurs.
type MsgError struct {
	Err error
}

func (MsgError) sealed() {}

// MsgClearError is sent to clear the error message.
type MsgClearError struct{}

func (MsgClearError) sealed() {}

// MsgReload is sent to reload the current view.
type MsgReload struct{}

func (MsgReload) sealed() {}
