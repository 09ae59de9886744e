// Package shared holds helpers used by several use cases.
package shared

import (
	"context"
	"fmt"

	"github.com/runoshun/git-agenda/internal/domain"
)

// Reconciler turns stored blocks into tasks: it resolves the owning page,
// fetches favorites, runs the transformer and resolves filter visibility.
type Reconciler struct {
	store       domain.BlockStore
	transformer domain.TaskTransformer
	logger      domain.Logger
	settings    domain.Settings
}

// NewReconciler creates a Reconciler. logger may be nil.
func NewReconciler(store domain.BlockStore, transformer domain.TaskTransformer, settings domain.Settings, logger domain.Logger) *Reconciler {
	return &Reconciler{store: store, transformer: transformer, settings: settings, logger: logger}
}

// Resolved is a task together with its visibility under the active filters.
type Resolved struct {
	Task       *domain.Task
	Visibility domain.Visibility
}

// GetTask retrieves a task by block id and returns domain.ErrTaskNotFound if not found.
func (r *Reconciler) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	raw, err := r.store.GetBlock(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get block: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%s: %w", id, domain.ErrTaskNotFound)
	}
	favorites, err := r.favorites(ctx)
	if err != nil {
		return nil, err
	}
	return r.transform(ctx, raw, favorites, nil)
}

// Reconcile resolves a freshly written block into a task tagged with the
// filters it matches. The block is already stored, so a failing filter
// query only leaves the visibility unresolved.
func (r *Reconciler) Reconcile(ctx context.Context, raw *domain.RawBlock) (*Resolved, error) {
	favorites, err := r.favorites(ctx)
	if err != nil {
		return nil, err
	}
	task, err := r.transform(ctx, raw, favorites, nil)
	if err != nil {
		return nil, err
	}
	vis, _ := r.Visibility(ctx, task)
	return &Resolved{Task: task, Visibility: vis}, nil
}

// Visibility resolves the visibility of an already transformed task. When the
// filter query fails, a warning is logged and the task is returned ungrouped
// and visible along with the error.
func (r *Reconciler) Visibility(ctx context.Context, task *domain.Task) (domain.Visibility, error) {
	matches, err := r.matches(ctx)
	if err != nil {
		if r.logger != nil {
			r.logger.Warn(task.ID, "filter", fmt.Sprintf("visibility unresolved: %v", err))
		}
		task.Filters = nil
		return domain.Visibility{}, err
	}
	vis := domain.ResolveVisibility(r.settings.ActiveFilterIDs(), matches, task.ID)
	vis.Apply(task)
	return vis, nil
}

// ReconcileAll resolves every block with a single favorites and filter query.
// Pages are looked up once per name.
func (r *Reconciler) ReconcileAll(ctx context.Context, raws []*domain.RawBlock) ([]Resolved, error) {
	favorites, err := r.favorites(ctx)
	if err != nil {
		return nil, err
	}
	matches, err := r.matches(ctx)
	if err != nil {
		return nil, err
	}
	active := r.settings.ActiveFilterIDs()
	pages := make(map[string]*domain.PageInfo)
	out := make([]Resolved, 0, len(raws))
	for _, raw := range raws {
		task, err := r.transform(ctx, raw, favorites, pages)
		if err != nil {
			return nil, err
		}
		vis := domain.ResolveVisibility(active, matches, task.ID)
		vis.Apply(task)
		out = append(out, Resolved{Task: task, Visibility: vis})
	}
	return out, nil
}

// Settings returns the settings the reconciler transforms with.
func (r *Reconciler) Settings() domain.Settings {
	return r.settings
}

func (r *Reconciler) transform(ctx context.Context, raw *domain.RawBlock, favorites []string, cache map[string]*domain.PageInfo) (*domain.Task, error) {
	page, ok := cache[raw.Page]
	if !ok {
		var err error
		page, err = r.store.GetPage(ctx, raw.Page)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrPageLookupFailed, raw.Page, err)
		}
		if page == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrPageLookupFailed, raw.Page)
		}
		if cache != nil {
			cache[raw.Page] = page
		}
	}
	task, err := r.transformer.TransformBlockToTask(raw, page, favorites, r.settings)
	if err != nil {
		return nil, fmt.Errorf("transform block %s: %w", raw.UUID, err)
	}
	return task, nil
}

func (r *Reconciler) favorites(ctx context.Context) ([]string, error) {
	favorites, err := r.store.GetFavorites(ctx)
	if err != nil {
		return nil, fmt.Errorf("get favorites: %w", err)
	}
	return favorites, nil
}

// matches queries the store only when filters are active.
func (r *Reconciler) matches(ctx context.Context) (domain.FilterMatches, error) {
	active := r.settings.ActiveFilters()
	if len(active) == 0 {
		return nil, nil
	}
	matches, err := r.store.RetrieveFilteredBlocks(ctx, active)
	if err != nil {
		return nil, fmt.Errorf("retrieve filtered blocks: %w", err)
	}
	return matches, nil
}
