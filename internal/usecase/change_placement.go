package usecase

import (
	"context"

	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/runoshun/git-agenda/internal/usecase/shared"
)

// ChangePlacementInput contains the parameters for moving a task on the calendar.
type ChangePlacementInput struct {
	TaskID string
	Mode   domain.PlacementMode
	Fields domain.PlacementFields
}

// ChangePlacement is the use case for switching a task between all-day,
// timed and date-range placement. The estimated time is never touched.
type ChangePlacement struct {
	store      domain.BlockStore
	reconciler *shared.Reconciler
	clock      domain.Clock
	logger     domain.Logger
}

// NewChangePlacement creates a new ChangePlacement use case.
func NewChangePlacement(store domain.BlockStore, transformer domain.TaskTransformer, settings domain.Settings, clock domain.Clock, logger domain.Logger) *ChangePlacement {
	return &ChangePlacement{
		store:      store,
		reconciler: shared.NewReconciler(store, transformer, settings, logger),
		clock:      clock,
		logger:     logger,
	}
}

// Execute computes the new placement and persists it.
func (uc *ChangePlacement) Execute(ctx context.Context, in ChangePlacementInput) (*TaskOutput, error) {
	return uc.place(ctx, in.TaskID, func(cur domain.Placement) (domain.Placement, error) {
		return domain.ChangePlacement(cur, in.Mode, in.Fields, uc.clock.Now())
	})
}

// RemoveTimeInput contains the parameters for taking a task out of the timebox.
type RemoveTimeInput struct {
	TaskID string
}

// RemoveTime marks the task all-day on its start date. A range end is kept.
func (uc *ChangePlacement) RemoveTime(ctx context.Context, in RemoveTimeInput) (*TaskOutput, error) {
	return uc.place(ctx, in.TaskID, func(cur domain.Placement) (domain.Placement, error) {
		return cur.RemoveTime(), nil
	})
}

func (uc *ChangePlacement) place(ctx context.Context, id string, change func(domain.Placement) (domain.Placement, error)) (*TaskOutput, error) {
	task, err := uc.reconciler.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := domain.EnsureEditable(task); err != nil {
		logLocked(uc.logger, task.ID)
		return nil, err
	}

	cur := domain.PlacementOf(task)
	p, err := change(cur)
	if err != nil {
		return nil, err
	}
	if p.Equal(cur) {
		vis, _ := uc.reconciler.Visibility(ctx, task)
		return &TaskOutput{Task: task, Visibility: vis}, nil
	}

	return updateTask(ctx, uc.store, uc.reconciler, uc.logger, task.ID, domain.BlockDelta{Placement: &p})
}
