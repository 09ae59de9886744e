package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/runoshun/git-agenda/internal/domain"
)

const (
	minColumnWidth = 28
	cardHeight     = 2
)

// viewBoard renders the kanban columns that fit the width, keeping the
// focused column visible.
func (m *Model) viewBoard(height int) string {
	if m.board == nil {
		return m.styles.CardMeta.Render("Loading tasks...")
	}
	cols := m.board.Columns
	if len(cols) == 0 {
		return m.styles.CardMeta.Render("No tasks. Press n to create one.")
	}

	visible := max(1, min(len(cols), m.contentWidth()/minColumnWidth))
	first := max(0, m.col-visible+1)
	// Borders take two cells per column.
	width := max(m.contentWidth()/visible-2, 10)

	rendered := make([]string, 0, visible)
	for i := first; i < len(cols) && i < first+visible; i++ {
		style := m.styles.Column
		if i == m.col {
			style = m.styles.ColumnFocused
		}
		// Padding takes one cell on each side.
		body := m.viewColumn(i, width-2, max(height-2, cardHeight+1))
		rendered = append(rendered, style.Width(width).Render(body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// viewColumn renders one column: its title and the cards around the cursor.
func (m *Model) viewColumn(i, width, height int) string {
	col := m.board.Columns[i]
	var b strings.Builder
	title := fmt.Sprintf("%s (%d)", col.Title, len(col.Tasks))
	b.WriteString(m.styles.ColumnTitle.Render(runewidth.Truncate(title, width, "…")))
	b.WriteString("\n")

	fits := max((height-1)/cardHeight, 1)
	start := 0
	if i == m.col && m.row >= fits {
		start = m.row - fits + 1
	}
	for j := start; j < len(col.Tasks) && j < start+fits; j++ {
		b.WriteString("\n")
		b.WriteString(m.viewCard(col.Tasks[j], width, i == m.col && j == m.row))
	}
	return b.String()
}

// viewCard renders a task as a title line and a muted meta line.
func (m *Model) viewCard(t *domain.Task, width int, selected bool) string {
	cursor := "  "
	title := m.styles.Card
	if selected {
		cursor = m.styles.CursorSelected.Render("> ")
		title = m.styles.CardSelected
	}
	if t.IsDone() {
		title = m.styles.CardDone
	}
	icon := m.styles.StatusStyle(t.Status).Render(StatusIcon(t.Status))
	text := runewidth.Truncate(domain.FormatTitle(t.Title), max(width-4, 1), "…")
	line := cursor + icon + " " + title.Render(text)

	meta := runewidth.Truncate(cardMeta(t), max(width-2, 1), "…")
	return line + "\n  " + m.styles.CardMeta.Render(meta)
}

// cardMeta summarizes placement, estimate, logged time and page.
func cardMeta(t *domain.Task) string {
	var parts []string
	if p := domain.PlacementOf(t).Format(); p != "" {
		parts = append(parts, p)
	}
	if t.RRule != nil {
		parts = append(parts, "↻ "+t.RRule.String())
	}
	if t.EstimatedTime != nil {
		parts = append(parts, "est "+t.EstimatedTime.String())
	}
	if actual := t.ActualTime(); actual > 0 {
		parts = append(parts, actual.String()+" logged")
	}
	if !t.Project.IsJournal && t.Project.OriginalName != "" {
		parts = append(parts, t.Project.OriginalName)
	}
	if len(parts) == 0 {
		return "unscheduled"
	}
	return strings.Join(parts, " · ")
}
