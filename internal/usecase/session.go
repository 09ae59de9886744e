package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/runoshun/git-agenda/internal/domain"
)

// SessionDeps are the collaborators of an edit session.
type SessionDeps struct {
	Create *CreateTask
	Edit   *EditTask
	Pages  *CreatePage // optional; enables EnsureProject
	Clock  domain.Clock
	Ledger domain.Ledger
}

// Session is one open create or edit dialog. It owns a staging copy of the
// task and delivers a submit result only while it is still open. Closing a
// session does not undo a write that already reached the store.
type Session struct {
	form   domain.TaskForm
	deps   SessionDeps
	data   domain.FormData
	mu     sync.Mutex
	closed bool
}

// NewSession opens a session for the given form variant.
func NewSession(form domain.TaskForm, deps SessionDeps) *Session {
	return &Session{
		form: form,
		deps: deps,
		data: domain.NewFormData(form),
	}
}

// Data returns a copy of the staged values.
func (s *Session) Data() domain.FormData {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.data
	d.TimeLogs = slices.Clone(s.data.TimeLogs)
	return d
}

// IsEdit reports whether the session edits an existing task.
func (s *Session) IsEdit() bool {
	_, ok := s.form.(domain.EditForm)
	return ok
}

// Locked reports whether schedule fields are read-only in this session.
func (s *Session) Locked() bool {
	if f, ok := s.form.(domain.EditForm); ok {
		return f.Task.IsScheduleLocked()
	}
	return false
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close discards the session. A pending Submit returns domain.ErrSessionClosed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// SetTitle updates the title and the pending tag search.
func (s *Session) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Title = title
	s.data.TagSearch = pendingTag(title)
}

// pendingTag returns the word being typed after a trailing "#".
func pendingTag(title string) string {
	i := strings.LastIndex(title, "#")
	if i < 0 || (i > 0 && title[i-1] != ' ') {
		return ""
	}
	tag := title[i+1:]
	if strings.ContainsAny(tag, " \t") {
		return ""
	}
	return tag
}

// SetProject sets the page the task belongs to.
func (s *Session) SetProject(projectID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.ProjectID = projectID
}

// SetEstimatedTime sets or clears (nil) the estimate.
func (s *Session) SetEstimatedTime(est *domain.Minutes) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.EstimatedTime = est
}

// SetRepeat sets the advanced repeat field.
func (s *Session) SetRepeat(repeat string) error {
	return s.schedule(func(d *domain.FormData) error {
		if d.Advanced == nil {
			d.Advanced = &domain.AdvancedFields{}
		}
		d.Advanced.Repeat = repeat
		return nil
	})
}

// SetPlacement replaces the date and time inputs.
func (s *Session) SetPlacement(p domain.Placement) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return s.schedule(func(d *domain.FormData) error {
		d.SetPlacement(p)
		return nil
	})
}

// SetStartTime makes the task timed at tod, or all-day when tod is nil.
func (s *Session) SetStartTime(tod *domain.TimeOfDay) error {
	now := s.deps.Clock.Now()
	return s.schedule(func(d *domain.FormData) error {
		if tod != nil && d.StartDate == nil {
			day := domain.DateOf(now)
			d.StartDate = &day
		}
		d.StartTime = tod
		return nil
	})
}

// RemoveTime takes the task out of the timebox. The estimate is kept.
func (s *Session) RemoveTime() error {
	return s.SetStartTime(nil)
}

// SwitchRangeMode toggles between a single date and a date range. Entering
// range mode ends the range one day after the start; a missing start becomes today.
func (s *Session) SwitchRangeMode(isRange bool) error {
	now := s.deps.Clock.Now()
	return s.schedule(func(d *domain.FormData) error {
		if d.StartDate == nil {
			day := domain.DateOf(now)
			d.StartDate = &day
		}
		if !isRange {
			d.EndDate = nil
			return nil
		}
		if d.EndDate == nil {
			end := d.StartDate.AddDate(0, 0, 1)
			d.EndDate = &end
		}
		return nil
	})
}

// AddDefaultTimeLog appends a default-placed log to the staged ledger.
func (s *Session) AddDefaultTimeLog() (domain.TimeLog, error) {
	var log domain.TimeLog
	now := s.deps.Clock.Now()
	err := s.schedule(func(d *domain.FormData) error {
		p, err := d.Placement()
		if err != nil {
			p = domain.Placement{AllDay: true}
		}
		log = s.deps.Ledger.Next(d.TimeLogs, p, now)
		d.TimeLogs = append(d.TimeLogs, log)
		return nil
	})
	return log, err
}

// UpdateTimeLog replaces a staged log.
func (s *Session) UpdateTimeLog(index int, log domain.TimeLog) error {
	return s.schedule(func(d *domain.FormData) error {
		logs, err := domain.ReplaceTimeLog(d.TimeLogs, index, log)
		if err != nil {
			return err
		}
		d.TimeLogs = logs
		return nil
	})
}

// DeleteTimeLog removes a staged log.
func (s *Session) DeleteTimeLog(index int) error {
	return s.schedule(func(d *domain.FormData) error {
		logs, err := domain.DeleteTimeLog(d.TimeLogs, index)
		if err != nil {
			return err
		}
		d.TimeLogs = logs
		return nil
	})
}

// EnsureProject creates the page for a new tag and selects it as the project.
func (s *Session) EnsureProject(ctx context.Context, name string) (*domain.PageInfo, error) {
	if s.deps.Pages == nil {
		return nil, fmt.Errorf("create page %q: %w", name, domain.ErrPageLookupFailed)
	}
	out, err := s.deps.Pages.Execute(ctx, CreatePageInput{Name: name})
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, domain.ErrSessionClosed
	}
	s.data.ProjectID = out.Page.Name
	s.data.TagSearch = ""
	return out.Page, nil
}

// Submit writes the staged task. The session is closed on success.
// If the session is closed while the write is in flight, the result is
// dropped and domain.ErrSessionClosed returned.
func (s *Session) Submit(ctx context.Context) (*TaskOutput, error) {
	data := s.Data()
	if s.Closed() {
		return nil, domain.ErrSessionClosed
	}

	var (
		out *TaskOutput
		err error
	)
	switch f := s.form.(type) {
	case domain.CreateForm:
		out, err = s.deps.Create.Execute(ctx, CreateTaskInput{Form: data})
	case domain.EditForm:
		out, err = s.deps.Edit.apply(ctx, f.Task, data)
	default:
		return nil, fmt.Errorf("unknown task form %T", s.form)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, domain.ErrSessionClosed
	}
	if err != nil {
		return nil, err
	}
	s.closed = true
	return out, nil
}

// schedule applies a change to schedule fields unless they are locked.
func (s *Session) schedule(change func(*domain.FormData) error) error {
	if s.Locked() {
		return domain.ErrEditLocked
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrSessionClosed
	}
	return change(&s.data)
}
