package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/runoshun/git-agenda/internal/domain"
)

// Colors defines the color palette for the TUI.
var Colors = struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Error      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Background lipgloss.Color

	TitleNormal   lipgloss.Color
	TitleSelected lipgloss.Color

	Todo    lipgloss.Color
	Done    lipgloss.Color
	Weekend lipgloss.Color
	Today   lipgloss.Color
	Border  lipgloss.Color
}{
	Primary:    lipgloss.Color("#6C5CE7"), // Purple
	Secondary:  lipgloss.Color("#A29BFE"), // Lavender
	Muted:      lipgloss.Color("#636E72"), // Gray
	Error:      lipgloss.Color("#D63031"), // Red
	Success:    lipgloss.Color("#00B894"), // Green
	Warning:    lipgloss.Color("#FDCB6E"), // Yellow
	Background: lipgloss.Color("#2D3436"), // Dark gray

	TitleNormal:   lipgloss.Color("#DFE6E9"),
	TitleSelected: lipgloss.Color("#FFEAA7"),

	Todo:    lipgloss.Color("#74B9FF"),
	Done:    lipgloss.Color("#00B894"),
	Weekend: lipgloss.Color("#B2BEC3"),
	Today:   lipgloss.Color("#FDCB6E"),
	Border:  lipgloss.Color("#4B5457"),
}

// Styles contains all the lipgloss styles for the TUI.
type Styles struct {
	App lipgloss.Style

	// Header
	Header     lipgloss.Style
	HeaderInfo lipgloss.Style

	// Board
	Column         lipgloss.Style
	ColumnFocused  lipgloss.Style
	ColumnTitle    lipgloss.Style
	Card           lipgloss.Style
	CardSelected   lipgloss.Style
	CardMeta       lipgloss.Style
	CardDone       lipgloss.Style
	CursorSelected lipgloss.Style

	// Calendar
	DayHeader        lipgloss.Style
	DayHeaderToday   lipgloss.Style
	DayHeaderWeekend lipgloss.Style
	DayCell          lipgloss.Style
	DayCellSelected  lipgloss.Style
	DayCellOutside   lipgloss.Style
	Event            lipgloss.Style
	EventSelected    lipgloss.Style
	EventDone        lipgloss.Style
	EventTime        lipgloss.Style

	// Status
	StatusTodo lipgloss.Style
	StatusDone lipgloss.Style

	// Footer
	Footer    lipgloss.Style
	FooterKey lipgloss.Style
	Notice    lipgloss.Style
	ErrorMsg  lipgloss.Style

	// Dialog
	Dialog       lipgloss.Style
	DialogTitle  lipgloss.Style
	DialogPrompt lipgloss.Style
	FieldLabel   lipgloss.Style
	FieldFocused lipgloss.Style
	FieldLocked  lipgloss.Style

	// Detail view
	DetailTitle lipgloss.Style
	DetailLabel lipgloss.Style
	DetailValue lipgloss.Style
}

// DefaultStyles returns the default styles for the TUI.
func DefaultStyles() Styles {
	return Styles{
		App: lipgloss.NewStyle().
			Padding(0, 1),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary),

		HeaderInfo: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		Column: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Border).
			Padding(0, 1),

		ColumnFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Primary).
			Padding(0, 1),

		ColumnTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Secondary),

		Card: lipgloss.NewStyle().
			Foreground(Colors.TitleNormal),

		CardSelected: lipgloss.NewStyle().
			Foreground(Colors.TitleSelected).
			Bold(true),

		CardMeta: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		CardDone: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Strikethrough(true),

		CursorSelected: lipgloss.NewStyle().
			Foreground(Colors.TitleSelected).
			Bold(true),

		DayHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.TitleNormal),

		DayHeaderToday: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Today),

		DayHeaderWeekend: lipgloss.NewStyle().
			Foreground(Colors.Weekend),

		DayCell: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(Colors.Border),

		DayCellSelected: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(Colors.Primary),

		DayCellOutside: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(Colors.Border).
			Foreground(Colors.Muted),

		Event: lipgloss.NewStyle().
			Foreground(Colors.Todo),

		EventSelected: lipgloss.NewStyle().
			Foreground(Colors.TitleSelected).
			Bold(true),

		EventDone: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Strikethrough(true),

		EventTime: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		StatusTodo: lipgloss.NewStyle().
			Foreground(Colors.Todo),

		StatusDone: lipgloss.NewStyle().
			Foreground(Colors.Done),

		Footer: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		FooterKey: lipgloss.NewStyle().
			Foreground(Colors.Primary).
			Bold(true),

		Notice: lipgloss.NewStyle().
			Foreground(Colors.Warning),

		ErrorMsg: lipgloss.NewStyle().
			Foreground(Colors.Error).
			Bold(true),

		Dialog: lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Primary),

		DialogTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary),

		DialogPrompt: lipgloss.NewStyle(),

		FieldLabel: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Width(10),

		FieldFocused: lipgloss.NewStyle().
			Foreground(Colors.Primary).
			Bold(true).
			Width(10),

		FieldLocked: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Italic(true),

		DetailTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary).
			MarginBottom(1),

		DetailLabel: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Width(12),

		DetailValue: lipgloss.NewStyle(),
	}
}

// StatusStyle returns the style for a given status.
func (s Styles) StatusStyle(status domain.Status) lipgloss.Style {
	if status == domain.StatusDone {
		return s.StatusDone
	}
	return s.StatusTodo
}

// StatusIcon returns an icon for a given status.
func StatusIcon(status domain.Status) string {
	switch status {
	case domain.StatusTodo:
		return "○"
	case domain.StatusDone:
		return "✓"
	default:
		return "?"
	}
}
