package domain

import "slices"

// FilterID identifies a user-defined filter.
type FilterID string

// Filter is a user-configured predicate over blocks, evaluated by the block store.
type Filter struct {
	ID    FilterID `yaml:"id"`
	Name  string   `yaml:"name"`
	Query string   `yaml:"query"`
	Color string   `yaml:"color,omitempty"`
}

// FilterMatches maps each filter to the ids of the blocks it matches.
type FilterMatches map[FilterID][]string

// Contains reports whether filter id matches blockID.
func (m FilterMatches) Contains(id FilterID, blockID string) bool {
	return slices.Contains(m[id], blockID)
}

// Grouping is how tasks are grouped in the kanban view.
type Grouping string

const (
	GroupByProject Grouping = "page"
	GroupByFilter  Grouping = "filter"
)

// GroupingFor returns the grouping used for the given active filters.
func GroupingFor(active []FilterID) Grouping {
	if len(active) > 0 {
		return GroupByFilter
	}
	return GroupByProject
}

// Visibility is the result of resolving a task against the active filters.
type Visibility struct {
	Grouping Grouping
	Filters  []FilterID // Active filters matching the task
	Hidden   bool       // The task matches none of the active filters
}

// Notice returns the informational message for a hidden task, or "".
func (v Visibility) Notice() string {
	if !v.Hidden {
		return ""
	}
	return "Operation successful but task is hidden: it does not match any of your filters."
}

// SelectFilters returns the definitions of the active filters in definition order.
func SelectFilters(all []Filter, active []FilterID) []Filter {
	var out []Filter
	for _, f := range all {
		if slices.Contains(active, f.ID) {
			out = append(out, f)
		}
	}
	return out
}

// ResolveVisibility decides whether the block is shown under the active filters
// and which of them it matches.
func ResolveVisibility(active []FilterID, matches FilterMatches, blockID string) Visibility {
	v := Visibility{Grouping: GroupingFor(active)}
	if len(active) == 0 {
		return v
	}
	for _, id := range active {
		if matches.Contains(id, blockID) {
			v.Filters = append(v.Filters, id)
		}
	}
	v.Hidden = len(v.Filters) == 0
	return v
}

// Apply tags the task with the matched filters.
func (v Visibility) Apply(t *Task) {
	t.Filters = slices.Clone(v.Filters)
}
