package usecase

import (
	"context"
	"fmt"
	"slices"

	"github.com/runoshun/git-agenda/internal/domain"
)

// FilterEntry is a filter definition with its selection state.
type FilterEntry struct {
	domain.Filter
	Selected bool
}

// ListFiltersOutput contains every defined filter.
type ListFiltersOutput struct {
	Filters []FilterEntry
}

// ListFilters is the use case for listing filter definitions.
type ListFilters struct {
	state   domain.AppStateRepository
	filters []domain.Filter
}

// NewListFilters creates a new ListFilters use case.
func NewListFilters(state domain.AppStateRepository, filters []domain.Filter) *ListFilters {
	return &ListFilters{state: state, filters: filters}
}

// Execute lists the filters in definition order.
func (uc *ListFilters) Execute(_ context.Context) (*ListFiltersOutput, error) {
	st, err := uc.state.Load()
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	out := &ListFiltersOutput{}
	for _, f := range uc.filters {
		out.Filters = append(out.Filters, FilterEntry{Filter: f, Selected: slices.Contains(st.SelectedFilters, f.ID)})
	}
	return out, nil
}

// SelectFiltersMode says how SelectFilters combines the given ids with the current selection.
type SelectFiltersMode int

const (
	SelectReplace SelectFiltersMode = iota // Selection becomes exactly the given ids
	SelectAdd                              // Given ids are added
	SelectRemove                           // Given ids are removed
)

// SelectFiltersInput contains the parameters for changing the active filters.
type SelectFiltersInput struct {
	IDs  []domain.FilterID
	Mode SelectFiltersMode
}

// SelectFiltersOutput contains the new selection.
type SelectFiltersOutput struct {
	Selected []domain.FilterID
}

// SelectFilters is the use case for choosing the active filters.
type SelectFilters struct {
	state   domain.AppStateRepository
	filters []domain.Filter
	logger  domain.Logger
}

// NewSelectFilters creates a new SelectFilters use case.
func NewSelectFilters(state domain.AppStateRepository, filters []domain.Filter, logger domain.Logger) *SelectFilters {
	return &SelectFilters{state: state, filters: filters, logger: logger}
}

// Execute validates the ids and stores the selection.
func (uc *SelectFilters) Execute(_ context.Context, in SelectFiltersInput) (*SelectFiltersOutput, error) {
	settings := domain.Settings{Filters: uc.filters}
	for _, id := range in.IDs {
		if in.Mode != SelectRemove && !settings.HasFilter(id) {
			return nil, fmt.Errorf("%s: %w", id, domain.ErrUnknownFilter)
		}
	}

	st, err := uc.state.Load()
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	var selected []domain.FilterID
	switch in.Mode {
	case SelectAdd:
		selected = slices.Clone(st.SelectedFilters)
		for _, id := range in.IDs {
			if !slices.Contains(selected, id) {
				selected = append(selected, id)
			}
		}
	case SelectRemove:
		selected = slices.DeleteFunc(slices.Clone(st.SelectedFilters), func(id domain.FilterID) bool {
			return slices.Contains(in.IDs, id)
		})
	default:
		for _, id := range in.IDs {
			if !slices.Contains(selected, id) {
				selected = append(selected, id)
			}
		}
	}

	st.SelectedFilters = selected
	if err := uc.state.Save(st); err != nil {
		return nil, fmt.Errorf("save state: %w", err)
	}
	if uc.logger != nil {
		uc.logger.Info("", "filter", fmt.Sprintf("selected: %v", selected))
	}
	return &SelectFiltersOutput{Selected: selected}, nil
}
