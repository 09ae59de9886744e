package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/runoshun/git-agenda/internal/usecase/shared"
)

// ListAgendaInput contains the parameters for the calendar view.
type ListAgendaInput struct {
	Anchor    time.Time // Any instant inside the period to show (zero = now)
	View      domain.CalendarView
	Step      int  // Periods to move from Anchor (negative = back)
	Today     bool // Ignore Anchor and Step and show the current period
	HideDone  bool
	WeekStart *time.Weekday // nil = configured week start
}

// ListAgendaOutput contains the events of one calendar window.
// Fields are ordered to minimize memory padding.
type ListAgendaOutput struct {
	Start  time.Time // Window start (inclusive)
	End    time.Time // Window end (exclusive)
	Anchor time.Time // Anchor after navigation
	View   domain.CalendarView
	Days   []time.Time
	Events []domain.CalendarEvent
	Hidden int // Tasks hidden by the active filters
}

// ListAgenda is the use case for the calendar view.
type ListAgenda struct {
	store      domain.BlockStore
	reconciler *shared.Reconciler
	clock      domain.Clock
	weekStart  time.Weekday
}

// NewListAgenda creates a new ListAgenda use case.
func NewListAgenda(store domain.BlockStore, transformer domain.TaskTransformer, settings domain.Settings, weekStart time.Weekday, clock domain.Clock) *ListAgenda {
	return &ListAgenda{
		store:      store,
		reconciler: shared.NewReconciler(store, transformer, settings, nil),
		weekStart:  weekStart,
		clock:      clock,
	}
}

// Execute places every visible task of the window on the calendar.
// Recurring tasks are expanded into one event per occurrence.
func (uc *ListAgenda) Execute(ctx context.Context, in ListAgendaInput) (*ListAgendaOutput, error) {
	now := uc.clock.Now()
	view := in.View
	if view == "" {
		view = domain.ViewWeek
	}
	weekStart := uc.weekStart
	if in.WeekStart != nil {
		weekStart = *in.WeekStart
	}
	anchor := in.Anchor
	if anchor.IsZero() {
		anchor = now
	}
	switch {
	case in.Today:
		anchor = domain.Navigate(view, anchor, 0, now)
	case in.Step != 0:
		anchor = domain.Navigate(view, anchor, in.Step, now)
	}
	start, end := domain.CalendarWindow(view, anchor, weekStart)

	raws, err := uc.store.ListBlocks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	resolved, err := uc.reconciler.ReconcileAll(ctx, raws)
	if err != nil {
		return nil, err
	}

	out := &ListAgendaOutput{
		Start:  start,
		End:    end,
		Anchor: anchor,
		View:   view,
		Days:   domain.ExtractDays(start, end.AddDate(0, 0, -1)),
	}
	defaultDuration := uc.reconciler.Settings().DefaultEventDuration
	for _, r := range resolved {
		if r.Task.Start == nil {
			continue
		}
		if !r.Visibility.Hidden && in.HideDone && r.Task.IsDone() {
			continue
		}
		events := windowEvents(r.Task, start, end, now, defaultDuration)
		if r.Visibility.Hidden {
			// Only tasks that would appear in this window count as hidden.
			if len(events) > 0 {
				out.Hidden++
			}
			continue
		}
		out.Events = append(out.Events, events...)
	}
	slices.SortStableFunc(out.Events, func(a, b domain.CalendarEvent) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		if a.AllDay != b.AllDay {
			if a.AllDay {
				return -1
			}
			return 1
		}
		if c := a.End.Compare(b.End); c != 0 {
			return c
		}
		return strings.Compare(a.Title, b.Title)
	})
	return out, nil
}

// windowEvents returns the calendar events of task's occurrences visible in [start, end).
func windowEvents(task *domain.Task, start, end, now time.Time, defaultDuration domain.Minutes) []domain.CalendarEvent {
	var out []domain.CalendarEvent
	for _, occ := range domain.ExpandOccurrences(task, start, end, now) {
		ev, ok := domain.CalendarEventOf(occ, defaultDuration)
		if !ok || !inWindow(ev, start, end) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// inWindow reports whether ev is visible in [start, end). All-day ends are exclusive.
func inWindow(ev domain.CalendarEvent, start, end time.Time) bool {
	if !ev.Start.Before(end) {
		return false
	}
	if ev.AllDay {
		return ev.End.After(start)
	}
	return !ev.End.Before(start)
}
