package usecase

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/runoshun/git-agenda/internal/usecase/shared"
)

// ColumnGrouping is how the kanban listing splits tasks into columns.
type ColumnGrouping string

const (
	ColumnsByDay      ColumnGrouping = "day"      // One column per start date, unscheduled last
	ColumnsByCategory ColumnGrouping = "category" // Active filters, or projects without filters
)

// ParseColumnGrouping converts a string to a ColumnGrouping.
func ParseColumnGrouping(s string) (ColumnGrouping, error) {
	switch ColumnGrouping(s) {
	case "", ColumnsByDay:
		return ColumnsByDay, nil
	case ColumnsByCategory, "filter", "project", "page":
		return ColumnsByCategory, nil
	}
	return "", fmt.Errorf("unknown grouping %q", s)
}

// UnscheduledColumn is the key of the column holding tasks without a date.
const UnscheduledColumn = "unscheduled"

// ListTasksInput contains the parameters for listing tasks.
type ListTasksInput struct {
	Group       ColumnGrouping
	IncludeDone bool // Include completed tasks
}

// TaskColumn is one kanban column.
type TaskColumn struct {
	Key   string
	Title string
	Tasks []*domain.Task
}

// ListTasksOutput contains the kanban columns.
// Fields are ordered to minimize memory padding.
type ListTasksOutput struct {
	Columns  []TaskColumn
	Grouping domain.Grouping // Category grouping in effect
	Hidden   int             // Tasks hidden by the active filters
}

// ListTasks is the use case for the kanban view.
type ListTasks struct {
	store      domain.BlockStore
	reconciler *shared.Reconciler
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(store domain.BlockStore, transformer domain.TaskTransformer, settings domain.Settings) *ListTasks {
	return &ListTasks{
		store:      store,
		reconciler: shared.NewReconciler(store, transformer, settings, nil),
	}
}

// Execute lists the visible tasks grouped into columns.
func (uc *ListTasks) Execute(ctx context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	raws, err := uc.store.ListBlocks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	resolved, err := uc.reconciler.ReconcileAll(ctx, raws)
	if err != nil {
		return nil, err
	}

	settings := uc.reconciler.Settings()
	out := &ListTasksOutput{Grouping: domain.GroupingFor(settings.ActiveFilterIDs())}
	var tasks []*domain.Task
	for _, r := range resolved {
		if r.Visibility.Hidden {
			out.Hidden++
			continue
		}
		if r.Task.IsDone() && !in.IncludeDone {
			continue
		}
		tasks = append(tasks, r.Task)
	}
	slices.SortStableFunc(tasks, compareTasks)

	if in.Group == ColumnsByCategory {
		out.Columns = categoryColumns(tasks, out.Grouping, settings)
	} else {
		out.Columns = dayColumns(tasks)
	}
	return out, nil
}

// compareTasks orders scheduled tasks by start (all-day first on a day), then title.
func compareTasks(a, b *domain.Task) int {
	switch {
	case a.Start == nil && b.Start == nil:
		return strings.Compare(a.Title, b.Title)
	case a.Start == nil:
		return 1
	case b.Start == nil:
		return -1
	}
	if c := a.Start.Compare(*b.Start); c != 0 {
		return c
	}
	if a.AllDay != b.AllDay {
		if a.AllDay {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Title, b.Title)
}

func dayColumns(tasks []*domain.Task) []TaskColumn {
	var cols []TaskColumn
	index := make(map[string]int)
	var unscheduled []*domain.Task
	for _, t := range tasks {
		if t.Start == nil {
			unscheduled = append(unscheduled, t)
			continue
		}
		key := t.Start.Format(domain.DateFormat)
		i, ok := index[key]
		if !ok {
			i = len(cols)
			index[key] = i
			cols = append(cols, TaskColumn{Key: key, Title: dayTitle(*t.Start)})
		}
		cols[i].Tasks = append(cols[i].Tasks, t)
	}
	if len(unscheduled) > 0 {
		cols = append(cols, TaskColumn{Key: UnscheduledColumn, Title: "Unscheduled", Tasks: unscheduled})
	}
	return cols
}

func dayTitle(t time.Time) string {
	return t.Format("Mon, Jan 2")
}

func categoryColumns(tasks []*domain.Task, grouping domain.Grouping, settings domain.Settings) []TaskColumn {
	if grouping == domain.GroupByFilter {
		var cols []TaskColumn
		for _, f := range settings.ActiveFilters() {
			col := TaskColumn{Key: string(f.ID), Title: f.Name}
			if col.Title == "" {
				col.Title = string(f.ID)
			}
			for _, t := range tasks {
				if slices.Contains(t.Filters, f.ID) {
					col.Tasks = append(col.Tasks, t)
				}
			}
			cols = append(cols, col)
		}
		return cols
	}

	type project struct {
		col      TaskColumn
		favorite bool
		journal  bool
	}
	byID := make(map[string]*project)
	var order []*project
	for _, t := range tasks {
		p, ok := byID[t.Project.ID]
		if !ok {
			p = &project{
				col:      TaskColumn{Key: t.Project.ID, Title: cmp.Or(t.Project.OriginalName, t.Project.ID)},
				favorite: t.Project.IsFavorite,
				journal:  t.Project.IsJournal,
			}
			byID[t.Project.ID] = p
			order = append(order, p)
		}
		p.col.Tasks = append(p.col.Tasks, t)
	}
	// Favorites first, journals last, then by title.
	slices.SortStableFunc(order, func(a, b *project) int {
		if a.favorite != b.favorite {
			if a.favorite {
				return -1
			}
			return 1
		}
		if a.journal != b.journal {
			if a.journal {
				return 1
			}
			return -1
		}
		return strings.Compare(strings.ToLower(a.col.Title), strings.ToLower(b.col.Title))
	})
	cols := make([]TaskColumn, 0, len(order))
	for _, p := range order {
		cols = append(cols, p.col)
	}
	return cols
}
