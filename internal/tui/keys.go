package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the TUI.
type KeyMap struct {
	// Navigation
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Prev  key.Binding // Previous calendar period
	Next  key.Binding // Next calendar period
	Today key.Binding

	// Task management
	Enter      key.Binding // Edit selected task
	New        key.Binding
	Delete     key.Binding
	ToggleDone key.Binding
	RemoveTime key.Binding // Take the task out of the timebox
	AddLog     key.Binding // Append a default time log

	// View
	SwitchView     key.Binding // Board <-> calendar
	CalendarLayout key.Binding // Week <-> month
	Group          key.Binding // Day <-> category columns
	Filters        key.Binding
	ShowDone       key.Binding
	Refresh        key.Binding
	Detail         key.Binding
	Help           key.Binding

	// General
	Quit    key.Binding
	Escape  key.Binding
	Confirm key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		Prev: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev period"),
		),
		Next: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next period"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "today"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "edit"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new task"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		ToggleDone: key.NewBinding(
			key.WithKeys("x", " "),
			key.WithHelp("x", "done/undo"),
		),
		RemoveTime: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "remove time"),
		),
		AddLog: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "log time"),
		),
		SwitchView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "board/calendar"),
		),
		CalendarLayout: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "week/month"),
		),
		Group: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "group"),
		),
		Filters: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filters"),
		),
		ShowDone: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "toggle done"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Detail: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "detail"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
	}
}

// ShortHelp returns keybindings to show in the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.Enter, k.ToggleDone, k.SwitchView, k.Filters, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Prev, k.Next, k.Today},         // Navigation
		{k.New, k.Enter, k.Delete, k.ToggleDone, k.RemoveTime, k.AddLog}, // Task management
		{k.SwitchView, k.CalendarLayout, k.Group, k.Filters, k.ShowDone}, // View
		{k.Refresh, k.Detail, k.Help, k.Quit},                            // General
	}
}

// FormKeyMap defines the keybindings of the task dialog.
type FormKeyMap struct {
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
	Cancel    key.Binding
	PickTag   key.Binding // Use the first page suggestion as the project
	AddLog    key.Binding // Stage a default time log
	DropLog   key.Binding // Remove the last staged time log
	Range     key.Binding // Toggle single date / date range
}

// DefaultFormKeyMap returns the default dialog keybindings.
func DefaultFormKeyMap() FormKeyMap {
	return FormKeyMap{
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		PickTag: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "use page"),
		),
		AddLog: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "add log"),
		),
		DropLog: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "drop log"),
		),
		Range: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "range"),
		),
	}
}

// ShortHelp returns the dialog keybindings.
func (k FormKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Submit, k.Cancel, k.PickTag, k.AddLog, k.DropLog, k.Range}
}

// FullHelp returns the dialog keybindings in one column group.
func (k FormKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
