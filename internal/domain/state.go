package domain

import "fmt"

// AppState is the persisted UI state.
type AppState struct {
	View            View         `json:"view"`
	CalendarView    CalendarView `json:"calendarView"`
	SelectedFilters []FilterID   `json:"selectedFilters,omitempty"`
}

// View is the main view of the agenda.
type View string

const (
	ViewTasks    View = "tasks"
	ViewCalendar View = "calendar"
)

// NewDefaultAppState returns the state used before anything was saved.
func NewDefaultAppState() *AppState {
	return &AppState{View: ViewTasks, CalendarView: ViewWeek}
}

// ParseView converts a string to a View.
func ParseView(s string) (View, error) {
	switch View(s) {
	case ViewTasks, ViewCalendar:
		return View(s), nil
	}
	return "", fmt.Errorf("unknown view %q", s)
}
