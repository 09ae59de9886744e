package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/runoshun/git-agenda/internal/usecase"
	"github.com/sahilm/fuzzy"
)

// formField indexes the inputs of the task dialog.
type formField int

const (
	fieldTitle formField = iota
	fieldPage
	fieldDate
	fieldTime
	fieldEnd
	fieldEstimate
	fieldRepeat
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Page", "Date", "Time", "End", "Estimate", "Repeat"}

// isSchedule reports whether the field is read-only on recurring tasks.
func (f formField) isSchedule() bool {
	switch f {
	case fieldDate, fieldTime, fieldEnd, fieldRepeat:
		return true
	}
	return false
}

const maxSuggestions = 5

// taskForm is the create/edit dialog. It stages input in a usecase.Session.
// Fields are ordered to minimize memory padding.
type taskForm struct {
	session     *usecase.Session
	loc         *time.Location
	now         func() time.Time
	err         error
	pages       []string
	suggestions []string
	inputs      [fieldCount]textinput.Model
	initial     [fieldCount]string
	keys        FormKeyMap
	focus       formField
	submitting  bool
}

// formErrorMsg reports a failed dialog action; the dialog stays open.
type formErrorMsg struct {
	err error
}

func newTaskForm(session *usecase.Session, pages []string, loc *time.Location, now func() time.Time) *taskForm {
	if loc == nil {
		loc = time.Local
	}
	f := &taskForm{
		session: session,
		loc:     loc,
		now:     now,
		pages:   pages,
		keys:    DefaultFormKeyMap(),
	}
	placeholders := [fieldCount]string{
		"Task title; #Page links a page",
		"Page (empty: journal of the date)",
		"YYYY-MM-DD",
		"HH:MM (empty: all day)",
		"YYYY-MM-DD (empty: single date)",
		"45 or 1h30m",
		".+1d, ++1w, +2m",
	}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 200
		f.inputs[i] = ti
	}
	f.load(session.Data())
	f.initial = f.values()
	f.inputs[fieldTitle].Focus()
	return f
}

// load copies staged data into the inputs.
func (f *taskForm) load(d domain.FormData) {
	set := func(field formField, v string) { f.inputs[field].SetValue(v) }
	set(fieldTitle, d.Title)
	set(fieldPage, d.ProjectID)
	set(fieldDate, formatDate(d.StartDate))
	set(fieldEnd, formatDate(d.EndDate))
	set(fieldTime, "")
	if d.StartTime != nil {
		set(fieldTime, d.StartTime.String())
	}
	set(fieldEstimate, "")
	if d.EstimatedTime != nil {
		set(fieldEstimate, d.EstimatedTime.String())
	}
	set(fieldRepeat, "")
	if d.Advanced != nil {
		set(fieldRepeat, d.Advanced.Repeat)
	}
}

func (f *taskForm) values() [fieldCount]string {
	var out [fieldCount]string
	for i, in := range f.inputs {
		out[i] = strings.TrimSpace(in.Value())
	}
	return out
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(domain.DateFormat)
}

// focusable reports whether the cursor may stop on field.
func (f *taskForm) focusable(field formField) bool {
	return !(f.session.Locked() && field.isSchedule())
}

func (f *taskForm) moveFocus(delta int) {
	f.inputs[f.focus].Blur()
	next := f.focus
	for range fieldCount {
		next = (next + formField(delta) + fieldCount) % fieldCount
		if f.focusable(next) {
			break
		}
	}
	f.focus = next
	f.inputs[f.focus].Focus()
}

// Update handles a key press inside the dialog. done reports that the
// dialog was cancelled.
func (f *taskForm) Update(ctx context.Context, msg tea.KeyMsg) (cmd tea.Cmd, done bool) {
	switch {
	case key.Matches(msg, f.keys.Cancel):
		f.session.Close()
		return nil, true
	case key.Matches(msg, f.keys.Submit):
		if f.submitting {
			return nil, false
		}
		if err := f.sync(); err != nil {
			f.err = err
			return nil, false
		}
		f.submitting = true
		f.err = nil
		return f.submit(ctx), false
	case key.Matches(msg, f.keys.NextField):
		f.moveFocus(1)
		return nil, false
	case key.Matches(msg, f.keys.PrevField):
		f.moveFocus(-1)
		return nil, false
	case key.Matches(msg, f.keys.PickTag):
		return f.pickTag(ctx), false
	case key.Matches(msg, f.keys.AddLog):
		f.err = f.stage(func() error {
			_, err := f.session.AddDefaultTimeLog()
			return err
		})
		return nil, false
	case key.Matches(msg, f.keys.DropLog):
		f.err = f.stage(func() error {
			n := len(f.session.Data().TimeLogs)
			if n == 0 {
				return nil
			}
			return f.session.DeleteTimeLog(n - 1)
		})
		return nil, false
	case key.Matches(msg, f.keys.Range):
		f.err = f.stage(func() error {
			return f.session.SwitchRangeMode(f.inputs[fieldEnd].Value() == "")
		})
		return nil, false
	}

	var inputCmd tea.Cmd
	f.inputs[f.focus], inputCmd = f.inputs[f.focus].Update(msg)
	if f.focus == fieldTitle {
		f.session.SetTitle(f.inputs[fieldTitle].Value())
		f.updateSuggestions()
	}
	return inputCmd, false
}

// stage syncs the inputs, applies change to the session and reloads the
// schedule inputs from the staged data.
func (f *taskForm) stage(change func() error) error {
	if err := f.sync(); err != nil {
		return err
	}
	if err := change(); err != nil {
		return err
	}
	d := f.session.Data()
	title := f.inputs[fieldTitle].Value()
	f.load(d)
	f.inputs[fieldTitle].SetValue(title)
	return nil
}

// updateSuggestions fuzzy-matches the pending "#" search against known pages.
func (f *taskForm) updateSuggestions() {
	search := f.session.Data().TagSearch
	f.suggestions = nil
	if search == "" {
		return
	}
	exact := false
	for _, match := range fuzzy.Find(search, f.pages) {
		if len(f.suggestions) == maxSuggestions {
			break
		}
		f.suggestions = append(f.suggestions, match.Str)
		exact = exact || strings.EqualFold(match.Str, search)
	}
	if !exact {
		f.suggestions = append(f.suggestions, search)
	}
}

// pickTag makes the first suggestion the project, creating its page when new.
func (f *taskForm) pickTag(ctx context.Context) tea.Cmd {
	if len(f.suggestions) == 0 {
		return nil
	}
	name := f.suggestions[0]
	title := f.inputs[fieldTitle].Value()
	if i := strings.LastIndex(title, "#"); i >= 0 {
		title = strings.TrimRight(title[:i], " ")
	}
	f.inputs[fieldTitle].SetValue(title)
	f.session.SetTitle(title)
	f.suggestions = nil
	session := f.session
	return func() tea.Msg {
		page, err := session.EnsureProject(ctx, name)
		if err != nil {
			return formErrorMsg{err: err}
		}
		return MsgPageEnsured{Page: page}
	}
}

// pageEnsured shows the picked page in the page input.
func (f *taskForm) pageEnsured(page *domain.PageInfo) {
	f.inputs[fieldPage].SetValue(page.Name)
	f.initial[fieldPage] = page.Name
}

// sync pushes the inputs into the session. Schedule fields are only
// applied when they changed, so untouched recurring tasks stay editable.
func (f *taskForm) sync() error {
	v := f.values()
	f.session.SetTitle(v[fieldTitle])
	if v[fieldPage] != f.initial[fieldPage] {
		f.session.SetProject(v[fieldPage])
	}

	est, err := parseFormEstimate(v[fieldEstimate])
	if err != nil {
		return err
	}
	f.session.SetEstimatedTime(est)

	if v[fieldDate] != f.initial[fieldDate] || v[fieldTime] != f.initial[fieldTime] || v[fieldEnd] != f.initial[fieldEnd] {
		d := f.session.Data()
		if d.StartDate, err = f.parseDate(v[fieldDate]); err != nil {
			return err
		}
		if d.EndDate, err = f.parseDate(v[fieldEnd]); err != nil {
			return err
		}
		d.StartTime = nil
		if v[fieldTime] != "" {
			tod, err := domain.ParseTimeOfDay(v[fieldTime])
			if err != nil {
				return err
			}
			d.StartTime = &tod
			if d.StartDate == nil {
				today := domain.DateOf(f.now())
				d.StartDate = &today
			}
		}
		p, err := d.Placement()
		if err != nil {
			return err
		}
		if err := f.session.SetPlacement(p); err != nil {
			return err
		}
		f.initial[fieldDate], f.initial[fieldTime], f.initial[fieldEnd] = v[fieldDate], v[fieldTime], v[fieldEnd]
	}

	if v[fieldRepeat] != f.initial[fieldRepeat] {
		if err := f.session.SetRepeat(v[fieldRepeat]); err != nil {
			return err
		}
		f.initial[fieldRepeat] = v[fieldRepeat]
	}
	return nil
}

func (f *taskForm) parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(domain.DateFormat, s, f.loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return &t, nil
}

// parseFormEstimate parses minutes or a duration; empty and zero clear it.
func parseFormEstimate(s string) (*domain.Minutes, error) {
	if s == "" {
		return nil, nil
	}
	var m domain.Minutes
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		m = domain.Minutes(n)
	} else if d, err := time.ParseDuration(s); err == nil && d >= 0 {
		m = domain.Minutes(d / time.Minute)
	} else {
		return nil, fmt.Errorf("invalid estimate %q: want minutes or a duration like 1h30m", s)
	}
	if m == 0 {
		return nil, nil
	}
	return &m, nil
}

// submit writes the staged task. A closed session drops the result.
func (f *taskForm) submit(ctx context.Context) tea.Cmd {
	session := f.session
	return func() tea.Msg {
		out, err := session.Submit(ctx)
		if errors.Is(err, domain.ErrSessionClosed) {
			return nil
		}
		if err != nil {
			return formErrorMsg{err: err}
		}
		return MsgTaskSaved{Output: out}
	}
}

// View renders the dialog body.
func (f *taskForm) View(s Styles, width int) string {
	var b strings.Builder
	title := "New task"
	if f.session.IsEdit() {
		title = "Edit task"
	}
	b.WriteString(s.DialogTitle.Render(title))
	if f.session.Locked() {
		b.WriteString(s.FieldLocked.Render("  recurring: dates are read-only"))
	}
	b.WriteString("\n\n")

	inputWidth := max(width-14, 10)
	for i := range f.inputs {
		field := formField(i)
		label := s.FieldLabel.Render(fieldLabels[i])
		if field == f.focus {
			label = s.FieldFocused.Render(fieldLabels[i])
		}
		in := f.inputs[i]
		in.Width = inputWidth
		value := in.View()
		if !f.focusable(field) {
			value = s.FieldLocked.Render(in.Value())
		}
		b.WriteString(label + " " + value + "\n")
		if field == fieldTitle && len(f.suggestions) > 0 {
			b.WriteString(s.FieldLabel.Render("") + " " + s.CardMeta.Render("pages: "+strings.Join(f.suggestions, ", ")) + "\n")
		}
	}

	d := f.session.Data()
	if len(d.TimeLogs) > 0 {
		b.WriteString("\n" + s.FieldLabel.Render("Time logs") + fmt.Sprintf(" total %s\n", d.ActualTime()))
		for i, l := range d.TimeLogs {
			b.WriteString(s.CardMeta.Render(fmt.Sprintf("  [%d] %s - %s  %s", i,
				l.Start.Format(domain.DateTimeFormat), l.End.Format("15:04"), l.Amount)) + "\n")
		}
	}

	if f.err != nil {
		b.WriteString("\n" + s.ErrorMsg.Render("Error: "+f.err.Error()) + "\n")
	}
	if f.submitting {
		b.WriteString("\n" + s.CardMeta.Render("Saving...") + "\n")
	}
	return b.String()
}
