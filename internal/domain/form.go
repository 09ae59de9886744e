package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// TaskForm is the sealed variant describing what an edit session works on.
// The two cases are CreateForm and EditForm.
//
// go-sumtype:decl TaskForm
type TaskForm interface {
	sealedTaskForm()
}

// CreateForm starts a session that creates a new task.
type CreateForm struct {
	Initial FormData
}

// EditForm starts a session that edits an existing task.
type EditForm struct {
	Task *Task
}

func (CreateForm) sealedTaskForm() {}
func (EditForm) sealedTaskForm()   {}

// AdvancedFields are optional fields hidden behind the advanced form mode.
type AdvancedFields struct {
	Repeat string // Repeater syntax, e.g. "+1w"
}

// FormData is the staging copy of a task edited in a session.
// Fields are ordered to minimize memory padding.
type FormData struct {
	StartDate     *time.Time      // Date part of the start (nil = unscheduled)
	StartTime     *TimeOfDay      // nil = all-day
	EndDate       *time.Time      // nil = single date
	EstimatedTime *Minutes        // nil = not estimated
	Advanced      *AdvancedFields // nil = normal mode
	Title         string
	ProjectID     string
	TagSearch     string // Pending "#" search text in the title input
	TimeLogs      []TimeLog
}

// NewFormData builds the staging data for a session from its variant.
func NewFormData(form TaskForm) FormData {
	switch f := form.(type) {
	case CreateForm:
		fd := f.Initial
		fd.TimeLogs = slices.Clone(f.Initial.TimeLogs)
		return fd
	case EditForm:
		return FormDataFromTask(f.Task)
	default:
		panic(fmt.Sprintf("unknown task form %T", form))
	}
}

// FormDataFromTask copies the editable fields of a task.
func FormDataFromTask(t *Task) FormData {
	fd := FormData{
		Title:     t.Title,
		ProjectID: t.ProjectID,
		TimeLogs:  slices.Clone(t.TimeLogs),
	}
	if t.EstimatedTime != nil {
		est := *t.EstimatedTime
		fd.EstimatedTime = &est
	}
	if t.RRule != nil {
		fd.Advanced = &AdvancedFields{Repeat: t.RRule.String()}
	}
	fd.SetPlacement(PlacementOf(t))
	return fd
}

// SetPlacement writes a placement back into the date/time inputs.
func (f *FormData) SetPlacement(p Placement) {
	f.StartDate, f.StartTime, f.EndDate = nil, nil, nil
	if p.Start != nil {
		d := DateOf(*p.Start)
		f.StartDate = &d
		if !p.AllDay {
			tod := TimeOfDayOf(*p.Start)
			f.StartTime = &tod
		}
	}
	if p.End != nil {
		end := *p.End
		f.EndDate = &end
	}
}

// Placement normalizes the date/time inputs into canonical stored fields.
func (f FormData) Placement() (Placement, error) {
	p := Placement{AllDay: true}
	if f.StartDate != nil {
		start := DateOf(*f.StartDate)
		if f.StartTime != nil {
			start = f.StartTime.On(start)
			p.AllDay = false
		}
		p.Start = &start
	}
	if f.EndDate != nil {
		end := *f.EndDate
		p.End = &end
	}
	if err := p.Validate(); err != nil {
		return Placement{}, err
	}
	return p, nil
}

// ActualTime returns the sum of the staged time logs.
func (f FormData) ActualTime() Minutes {
	return ActualTime(f.TimeLogs)
}

// RRule parses the advanced repeat field. Nil means no recurrence.
func (f FormData) RRule() (*RecurrenceRule, error) {
	if f.Advanced == nil || strings.TrimSpace(f.Advanced.Repeat) == "" {
		return nil, nil
	}
	return ParseRecurrenceRule(strings.TrimSpace(f.Advanced.Repeat))
}

// Validate checks the form before it is committed.
func (f FormData) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return ErrEmptyTitle
	}
	if _, err := f.Placement(); err != nil {
		return err
	}
	for i, l := range f.TimeLogs {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("time log %d: %w", i, err)
		}
	}
	if f.EstimatedTime != nil && *f.EstimatedTime < 0 {
		return fmt.Errorf("negative estimated time: %w", ErrInvalidInterval)
	}
	if f.Advanced != nil {
		rule, err := f.RRule()
		if err != nil {
			return err
		}
		if rule != nil && f.StartDate == nil {
			return fmt.Errorf("repeat requires a start date: %w", ErrInvalidRecurrence)
		}
	}
	return nil
}

// Draft converts a validated form to a block draft.
func (f FormData) Draft() (BlockDraft, error) {
	if err := f.Validate(); err != nil {
		return BlockDraft{}, err
	}
	p, _ := f.Placement()
	rule, _ := f.RRule()
	d := BlockDraft{
		Title:     strings.TrimSpace(f.Title),
		ProjectID: f.ProjectID,
		Marker:    MarkerTodo,
		Placement: p,
		RRule:     rule,
		TimeLogs:  slices.Clone(f.TimeLogs),
	}
	if f.EstimatedTime != nil {
		est := *f.EstimatedTime
		d.EstimatedTime = &est
	}
	return d, nil
}

// Delta returns the changes of a validated form relative to the original task.
func (f FormData) Delta(orig *Task) (BlockDelta, error) {
	if err := f.Validate(); err != nil {
		return BlockDelta{}, err
	}
	var d BlockDelta
	if title := strings.TrimSpace(f.Title); title != orig.Title {
		d.Title = &title
	}
	if p, _ := f.Placement(); !p.Equal(PlacementOf(orig)) {
		d.Placement = &p
	}
	if !minutesPtrEqual(f.EstimatedTime, orig.EstimatedTime) {
		var est Minutes
		if f.EstimatedTime != nil {
			est = *f.EstimatedTime
		}
		d.EstimatedTime = &est
	}
	if f.ProjectID != orig.ProjectID {
		project := f.ProjectID
		d.ProjectID = &project
	}
	if !slices.EqualFunc(f.TimeLogs, orig.TimeLogs, TimeLog.Equal) {
		logs := slices.Clone(f.TimeLogs)
		d.TimeLogs = &logs
	}
	rule, _ := f.RRule()
	switch {
	case rule == nil && orig.RRule != nil:
		d.ClearRRule = true
	case rule != nil && (orig.RRule == nil || *rule != *orig.RRule):
		d.RRule = rule
	}
	return d, nil
}

func minutesPtrEqual(a, b *Minutes) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
