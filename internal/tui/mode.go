package tui

// Mode represents the current UI mode.
type Mode int

const (
	ModeNormal  Mode = iota // Board or calendar navigation
	ModeForm                // Create/edit task dialog
	ModeConfirm             // Confirmation dialog
	ModeFilters             // Filter picker
	ModeHelp                // Help overlay
	ModeDetail              // Task detail view
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeForm:
		return "form"
	case ModeConfirm:
		return "confirm"
	case ModeFilters:
		return "filters"
	case ModeHelp:
		return "help"
	case ModeDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// IsInputMode returns true if the mode accepts text input.
func (m Mode) IsInputMode() bool {
	switch m {
	case ModeForm:
		return true
	case ModeNormal, ModeConfirm, ModeFilters, ModeHelp, ModeDetail:
		return false
	}
	return false
}

// ConfirmAction represents the type of action requiring confirmation.
type ConfirmAction int

const (
	ConfirmNone   ConfirmAction = iota
	ConfirmDelete               // Delete task block
)

// String returns a human-readable description of the action.
func (a ConfirmAction) String() string {
	switch a {
	case ConfirmNone:
		return ""
	case ConfirmDelete:
		return "delete"
	}
	return ""
}
