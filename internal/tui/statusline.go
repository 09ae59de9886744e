package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/runoshun/git-agenda/internal/domain"
)

// StatusLineInfo contains information for rendering the status line.
// Fields are ordered to minimize memory padding.
type StatusLineInfo struct {
	Position string // Optional position info (e.g., "2/5")
	Label    string // Current view or mode
	KeyHints []KeyHint
}

// KeyHint represents a key and its description.
type KeyHint struct {
	Key  string
	Desc string
}

// StatusLine renders a unified status line at the bottom of the screen.
// Fields are ordered to minimize memory padding.
type StatusLine struct {
	styles *Styles
	width  int
}

// NewStatusLine creates a new StatusLine with the given width and styles.
func NewStatusLine(width int, styles *Styles) *StatusLine {
	return &StatusLine{
		width:  width,
		styles: styles,
	}
}

// SetWidth updates the status line width.
func (s *StatusLine) SetWidth(width int) {
	s.width = width
}

// Render renders the status line with the given info.
func (s *StatusLine) Render(info StatusLineInfo) string {
	keyStyle := s.styles.FooterKey
	mutedStyle := lipgloss.NewStyle().Foreground(Colors.Muted)

	hints := make([]string, 0, len(info.KeyHints))
	for _, h := range info.KeyHints {
		hints = append(hints, keyStyle.Render(h.Key)+" "+h.Desc)
	}
	content := strings.Join(hints, "  ")

	rightContent := mutedStyle.Render(info.Label)
	if info.Position != "" {
		rightContent = info.Position + "  " + rightContent
	}

	// Account for padding
	contentWidth := s.width - 2
	rightLen := lipgloss.Width(rightContent)
	contentLen := lipgloss.Width(content)

	maxContentWidth := contentWidth - rightLen - 2
	if contentLen > maxContentWidth {
		if maxContentWidth <= 3 {
			content = "..."
		} else {
			truncateStyle := lipgloss.NewStyle().MaxWidth(maxContentWidth - 3)
			content = truncateStyle.Render(content) + "..."
		}
		contentLen = lipgloss.Width(content)
	}

	spacing := max(contentWidth-contentLen-rightLen, 1)
	fullContent := content + strings.Repeat(" ", spacing) + rightContent
	return s.styles.Footer.Width(s.width).Render(fullContent)
}

// GetStatusInfo returns status line info for the TUI model.
func (m *Model) GetStatusInfo() StatusLineInfo {
	info := StatusLineInfo{Label: string(m.view)}
	if m.view == domain.ViewCalendar {
		info.Label = "calendar:" + calendarLabel(m.calendarView)
	}

	switch m.mode { //nolint:exhaustive // Dialog modes render their own hints
	case ModeNormal:
		info.KeyHints = []KeyHint{
			{Key: "hjkl", Desc: "nav"},
			{Key: "n", Desc: "new"},
			{Key: "enter", Desc: "edit"},
			{Key: "x", Desc: "done"},
			{Key: "L", Desc: "log"},
			{Key: "tab", Desc: "view"},
			{Key: "f", Desc: "filters"},
			{Key: "?", Desc: "help"},
			{Key: "q", Desc: "quit"},
		}
		if m.view == domain.ViewCalendar {
			info.KeyHints = append(info.KeyHints[:5:5],
				KeyHint{Key: "[/]", Desc: "period"},
				KeyHint{Key: "m", Desc: "layout"},
				KeyHint{Key: "tab", Desc: "view"},
				KeyHint{Key: "?", Desc: "help"},
				KeyHint{Key: "q", Desc: "quit"},
			)
		} else if m.board != nil && len(m.board.Columns) > 0 {
			info.Position = columnPosition(m.col, len(m.board.Columns))
		}
	case ModeDetail:
		info.Label = "detail"
		info.KeyHints = []KeyHint{
			{Key: "j/k", Desc: "scroll"},
			{Key: "enter", Desc: "edit"},
			{Key: "esc", Desc: "back"},
		}
	default:
		info.Label = m.mode.String()
	}
	return info
}

func calendarLabel(v domain.CalendarView) string {
	if v == domain.ViewMonth {
		return "month"
	}
	return "week"
}

func columnPosition(col, n int) string {
	return fmt.Sprintf("%d/%d", col+1, n)
}
