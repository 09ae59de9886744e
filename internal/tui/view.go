package tui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/runoshun/git-agenda/internal/usecase"
)

const (
	headerHeight = 2
	footerHeight = 2
	dialogWidth  = 64
)

// View renders the TUI.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch m.mode {
	case ModeHelp:
		content = m.viewHelp()
	case ModeDetail:
		content = m.viewDetail()
	case ModeForm:
		content = m.viewDialog(m.viewForm())
	case ModeConfirm:
		content = m.viewDialog(m.viewConfirm())
	case ModeFilters:
		content = m.viewDialog(m.viewFilters())
	case ModeNormal:
		content = m.viewMain()
	}
	return m.styles.App.Render(content)
}

// contentWidth is the width available inside the app padding.
func (m *Model) contentWidth() int {
	return max(m.width-4, 20)
}

// bodyHeight is the height left for the board or calendar.
func (m *Model) bodyHeight() int {
	return max(m.height-headerHeight-footerHeight-2, 4)
}

// viewMain renders the header, the current view and the footer.
func (m *Model) viewMain() string {
	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(m.styles.ErrorMsg.Render("Error: "+m.err.Error()) + "\n")
	} else if m.notice != "" {
		b.WriteString(m.styles.Notice.Render(m.notice) + "\n")
	}

	if m.view == domain.ViewCalendar {
		b.WriteString(m.viewCalendar(m.bodyHeight()))
	} else {
		b.WriteString(m.viewBoard(m.bodyHeight()))
	}

	b.WriteString("\n")
	b.WriteString(m.viewFooter())
	return b.String()
}

// viewHeader renders the view title on the left and counts on the right.
func (m *Model) viewHeader() string {
	var title, info string
	hidden := 0
	switch {
	case m.view == domain.ViewCalendar && m.agenda != nil:
		title = "Calendar"
		last := m.agenda.End.AddDate(0, 0, -1)
		info = fmt.Sprintf("%s - %s", m.agenda.Start.Format("Mon 2006-01-02"), last.Format("Mon 2006-01-02"))
		hidden = m.agenda.Hidden
	case m.view == domain.ViewCalendar:
		title = "Calendar"
	case m.board != nil:
		title = "Tasks"
		total := 0
		for _, col := range m.board.Columns {
			total += len(col.Tasks)
		}
		info = fmt.Sprintf("%d task(s) by %s", total, m.grouping)
		hidden = m.board.Hidden
	default:
		title = "Tasks"
	}
	if hidden > 0 {
		info += fmt.Sprintf(" · %d hidden", hidden)
	}
	if m.showDone {
		info += " · showing done"
	}

	left := m.styles.Header.Render(title)
	right := m.styles.HeaderInfo.Render(info)
	spacing := max(m.contentWidth()-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", spacing) + right
}

// viewFooter renders the key hints of the current mode.
func (m *Model) viewFooter() string {
	return NewStatusLine(m.contentWidth(), &m.styles).Render(m.GetStatusInfo())
}

// viewDialog centers a dialog box over the screen.
func (m *Model) viewDialog(body string) string {
	box := m.styles.Dialog.Width(min(dialogWidth, m.contentWidth())).Render(body)
	return lipgloss.Place(m.contentWidth(), max(m.height-2, lipgloss.Height(box)), lipgloss.Center, lipgloss.Center, box)
}

// viewForm renders the task dialog.
func (m *Model) viewForm() string {
	if m.form == nil {
		return ""
	}
	body := m.form.View(m.styles, min(dialogWidth, m.contentWidth())-4)
	m.help.ShowAll = false
	return body + "\n" + m.help.View(m.form.keys)
}

// viewConfirm renders the delete confirmation.
func (m *Model) viewConfirm() string {
	var b strings.Builder
	b.WriteString(m.styles.DialogTitle.Render("Delete task"))
	b.WriteString("\n\n")
	title := m.confirmTaskID
	if t := m.SelectedTask(); t != nil && t.ID == m.confirmTaskID {
		title = domain.FormatTitle(t.Title)
	}
	b.WriteString(m.styles.DialogPrompt.Render(fmt.Sprintf("Delete %q? The block is removed from the graph.", title)))
	b.WriteString("\n\n")
	b.WriteString(m.styles.FooterKey.Render("y") + " delete  " + m.styles.FooterKey.Render("esc") + " cancel")
	return b.String()
}

// viewFilters renders the filter checklist.
func (m *Model) viewFilters() string {
	var b strings.Builder
	b.WriteString(m.styles.DialogTitle.Render("Filters"))
	b.WriteString("\n\n")
	if len(m.filters) == 0 {
		b.WriteString(m.styles.CardMeta.Render("No filters defined. Add them to filters.yaml."))
		b.WriteString("\n")
	}
	for i, f := range m.filters {
		check := "[ ]"
		if f.Selected {
			check = "[x]"
		}
		line := fmt.Sprintf("%s %s", check, f.Name)
		if f.Query != "" {
			line += m.styles.CardMeta.Render("  " + f.Query)
		}
		if i == m.filterCursor {
			b.WriteString(m.styles.CursorSelected.Render("> ") + line)
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.FooterKey.Render("space") + " toggle  " +
		m.styles.FooterKey.Render("enter") + " apply  " +
		m.styles.FooterKey.Render("esc") + " cancel")
	return b.String()
}

// viewHelp renders the full key help.
func (m *Model) viewHelp() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render("Keys"))
	b.WriteString("\n\n")
	m.help.ShowAll = true
	b.WriteString(m.help.View(m.keys))
	m.help.ShowAll = false
	b.WriteString("\n\n")
	b.WriteString(m.styles.DialogTitle.Render("Task dialog"))
	b.WriteString("\n")
	b.WriteString(m.help.FullHelpView(m.formKeys().FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(m.styles.CardMeta.Render("Press ? or esc to close"))
	return b.String()
}

// formKeys returns the dialog bindings for the help screen.
func (m *Model) formKeys() FormKeyMap {
	if m.form != nil {
		return m.form.keys
	}
	return DefaultFormKeyMap()
}

// viewDetail renders the scrollable task detail.
func (m *Model) viewDetail() string {
	var b strings.Builder
	title := "Task"
	if m.detail != nil {
		title = domain.FormatTitle(m.detail.Task.Title)
	}
	b.WriteString(m.styles.DetailTitle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(m.detailViewport.View())
	b.WriteString("\n")
	b.WriteString(m.viewFooter())
	return b.String()
}

// detailContent renders the fields and the block source of the detail task.
func (m *Model) detailContent() string {
	if m.detail == nil {
		return ""
	}
	return renderDetail(m.styles, m.detail)
}

// renderDetail formats a ShowTask result.
func renderDetail(s Styles, out *usecase.ShowTaskOutput) string {
	t := out.Task
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(s.DetailLabel.Render(fmt.Sprintf("%-10s", label)))
		b.WriteString(s.DetailValue.Render(value))
		b.WriteString("\n")
	}
	row("ID", t.ID)
	row("Status", s.StatusStyle(t.Status).Render(StatusIcon(t.Status)+" "+t.Status.Display()))
	page := t.Project.OriginalName
	if page == "" {
		page = t.ProjectID
	}
	row("Page", page)
	placement := out.Placement
	if placement == "" {
		placement = "unscheduled"
	}
	if out.Locked {
		placement += " (recurring, read-only)"
	}
	row("When", placement)
	if t.RRule != nil {
		row("Repeat", t.RRule.String())
	}
	if t.EstimatedTime != nil {
		row("Estimate", t.EstimatedTime.String())
	}
	row("Logged", out.ActualTime.String())
	if len(t.Filters) > 0 {
		ids := make([]string, len(t.Filters))
		for i, id := range t.Filters {
			ids[i] = string(id)
		}
		row("Filters", strings.Join(ids, ", "))
	}
	if n := out.Visibility.Notice(); n != "" {
		b.WriteString(s.Notice.Render(n) + "\n")
	}

	if len(t.TimeLogs) > 0 {
		b.WriteString("\n" + s.DetailLabel.Render("Time logs") + "\n")
		for i, l := range t.TimeLogs {
			fmt.Fprintf(&b, "  [%d] %s - %s  %s\n", i,
				l.Start.Format(domain.DateTimeFormat), l.End.Format(domain.DateTimeFormat), l.Amount)
		}
	}

	b.WriteString("\n" + s.DetailLabel.Render("Block") + "\n")
	b.WriteString(highlightBlock(blockSource(t.RawBlock)))
	return b.String()
}

// blockSource rebuilds the outline text of a block for display.
func blockSource(raw domain.RawBlock) string {
	var b strings.Builder
	b.WriteString("- ")
	if raw.Marker != "" {
		b.WriteString(string(raw.Marker) + " ")
	}
	b.WriteString(raw.Content)
	b.WriteString("\n")
	if raw.Scheduled != "" {
		fmt.Fprintf(&b, "  SCHEDULED: <%s>\n", raw.Scheduled)
	}
	if raw.Deadline != "" {
		fmt.Fprintf(&b, "  DEADLINE: <%s>\n", raw.Deadline)
	}
	for _, k := range slices.Sorted(maps.Keys(raw.Properties)) {
		fmt.Fprintf(&b, "  %s:: %s\n", k, raw.Properties[k])
	}
	if len(raw.Logbook) > 0 {
		b.WriteString("  :LOGBOOK:\n")
		for _, line := range raw.Logbook {
			b.WriteString("  " + line + "\n")
		}
		b.WriteString("  :END:\n")
	}
	return b.String()
}
