package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/runoshun/git-agenda/internal/domain"
)

const ellipsis = "…"

// viewCalendar renders the loaded window as a week row or a month grid.
func (m *Model) viewCalendar(height int) string {
	if m.agenda == nil {
		return m.styles.CardMeta.Render("Loading calendar...")
	}
	days := m.agenda.Days
	if len(days) == 0 {
		return ""
	}
	// Borders take two cells per day.
	width := max(m.contentWidth()/7-2, 6)

	if m.agenda.View == domain.ViewWeek || len(days) <= 7 {
		return m.viewWeekRow(days, width, max(height-2, 3), false)
	}
	weeks := (len(days) + 6) / 7
	cellHeight := max(height/weeks-2, 3)
	rows := make([]string, 0, weeks)
	for w := 0; w < weeks; w++ {
		end := min((w+1)*7, len(days))
		rows = append(rows, m.viewWeekRow(days[w*7:end], width, cellHeight, true))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// viewWeekRow renders up to seven day cells side by side.
func (m *Model) viewWeekRow(days []time.Time, width, height int, month bool) string {
	today := domain.DateOf(m.now())
	cells := make([]string, 0, len(days))
	for _, day := range days {
		style := m.styles.DayCell
		switch {
		case day.Equal(m.cursor):
			style = m.styles.DayCellSelected
		case month && day.Month() != m.agenda.Anchor.Month():
			style = m.styles.DayCellOutside
		}
		body := m.viewDay(day, today, width, height, month)
		cells = append(cells, style.Width(width).Height(height).Render(body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// viewDay renders the header and events of one day, with "+n more" when
// the events do not fit.
func (m *Model) viewDay(day, today time.Time, width, height int, month bool) string {
	header := day.Format("Mon 01/02")
	if month {
		header = day.Format("2")
	}
	headerStyle := m.styles.DayHeader
	switch {
	case day.Equal(today):
		headerStyle = m.styles.DayHeaderToday
		header += " •"
	case domain.IsWeekend(day):
		headerStyle = m.styles.DayHeaderWeekend
	}

	lines := []string{headerStyle.Render(clip(header, width))}
	events := m.dayEvents(day)
	room := height - 1
	for i, ev := range events {
		if i == room-1 && len(events) > room {
			lines = append(lines, m.styles.CardMeta.Render(fmt.Sprintf("+%d more", len(events)-i)))
			break
		}
		selected := day.Equal(m.cursor) && i == m.event
		lines = append(lines, m.viewEvent(ev, width, selected, month))
	}
	return strings.Join(lines, "\n")
}

// viewEvent renders one event line: time (when long enough) and title.
func (m *Model) viewEvent(ev domain.CalendarEvent, width int, selected, month bool) string {
	style := m.styles.Event
	switch {
	case selected:
		style = m.styles.EventSelected
	case ev.Done:
		style = m.styles.EventDone
	}
	prefix := ""
	switch {
	case ev.AllDay:
	case month || !ev.ShowTimeText:
		prefix = ev.Start.Format("15:04") + " "
	default:
		prefix = ev.TimeText() + " "
	}
	title := ev.Title
	if ev.Task != nil && ev.Task.RecurringPast {
		title = "↻ " + title
	}
	line := clip(prefix+title, width)
	if selected || prefix == "" || !strings.HasPrefix(line, prefix) {
		return style.Render(line)
	}
	return m.styles.EventTime.Render(prefix) + style.Render(line[len(prefix):])
}

// clip truncates s to width cells.
func clip(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return truncate.StringWithTail(s, uint(width), ellipsis)
}
