package graph

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/runoshun/git-agenda/internal/domain"
)

// Transformer implements domain.TaskTransformer for blocks read from the graph.
// Malformed timestamps, repeaters and clock lines are skipped and reported
// through the logger so that one broken block does not hide the rest.
type Transformer struct {
	logger domain.Logger
}

// NewTransformer creates a Transformer. logger may be nil.
func NewTransformer(logger domain.Logger) *Transformer {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Transformer{logger: logger}
}

// TransformBlockToTask derives a task from a raw block and its page.
func (t *Transformer) TransformBlockToTask(raw *domain.RawBlock, page *domain.PageInfo, favorites []string, settings domain.Settings) (*domain.Task, error) {
	if raw == nil {
		return nil, fmt.Errorf("transform: %w", domain.ErrTaskNotFound)
	}
	if page == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrPageLookupFailed, raw.Page)
	}
	loc := settings.Location
	if loc == nil {
		loc = time.Local
	}

	task := &domain.Task{
		ID:        raw.UUID,
		Title:     raw.Content,
		Status:    raw.Marker.Status(),
		ProjectID: page.Name,
		Project: domain.Project{
			ID:           page.Name,
			OriginalName: page.OriginalName,
			JournalDay:   page.JournalDay,
			IsJournal:    page.IsJournal,
			IsFavorite:   slices.Contains(favorites, strings.ToLower(page.Name)),
		},
		AllDay:   true,
		RawBlock: raw.Clone(),
	}

	t.placement(task, raw, loc)

	if v, ok := raw.Properties[propEstimate]; ok {
		if est, ok := parseEstimate(v); ok && est > 0 {
			task.EstimatedTime = &est
		} else {
			t.logger.Warn(raw.UUID, "graph", fmt.Sprintf("ignoring estimated %q", v))
		}
	}

	for _, line := range raw.Logbook {
		log, err := parseClock(line, loc)
		if err != nil {
			t.logger.Debug(raw.UUID, "graph", fmt.Sprintf("skipping clock: %v", err))
			continue
		}
		task.TimeLogs = append(task.TimeLogs, log)
	}
	return task, nil
}

// placement fills Start, End, AllDay and RRule. A deadline alone places the
// task on the deadline date.
func (t *Transformer) placement(task *domain.Task, raw *domain.RawBlock, loc *time.Location) {
	var start, end *stamp
	if raw.Scheduled != "" {
		if st, err := parseStamp(raw.Scheduled, loc); err == nil {
			start = &st
		} else {
			t.logger.Warn(raw.UUID, "graph", err.Error())
		}
	}
	if raw.Deadline != "" {
		if st, err := parseStamp(raw.Deadline, loc); err == nil {
			end = &st
		} else {
			t.logger.Warn(raw.UUID, "graph", err.Error())
		}
	}
	if start == nil {
		start, end = end, nil
	}
	if start == nil {
		return
	}

	s := start.Time
	task.Start = &s
	task.AllDay = !start.HasTime
	if end != nil {
		e := end.Time
		if task.AllDay {
			e = domain.DateOf(e)
		}
		if e.Before(s) {
			t.logger.Warn(raw.UUID, "graph", "deadline before scheduled date ignored")
		} else {
			task.End = &e
		}
	}
	if start.Repeater != "" {
		rule, err := domain.ParseRecurrenceRule(start.Repeater)
		if err != nil {
			t.logger.Warn(raw.UUID, "graph", err.Error())
			return
		}
		task.RRule = rule
	}
}

// Ensure Transformer implements domain.TaskTransformer.
var _ domain.TaskTransformer = (*Transformer)(nil)
