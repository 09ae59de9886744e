package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/runoshun/git-agenda/internal/usecase/shared"
)

// SetStatusInput contains the parameters for switching a task's status.
type SetStatusInput struct {
	TaskID string
	Status domain.Status
}

// SetStatusOutput contains the locally updated task.
type SetStatusOutput struct {
	Task    *domain.Task
	Changed bool // False when the task already had the status
}

// SetStatus is the use case for marking a task done or todo.
type SetStatus struct {
	store      domain.BlockStore
	reconciler *shared.Reconciler
	logger     domain.Logger
}

// NewSetStatus creates a new SetStatus use case.
func NewSetStatus(store domain.BlockStore, transformer domain.TaskTransformer, settings domain.Settings, logger domain.Logger) *SetStatus {
	return &SetStatus{
		store:      store,
		reconciler: shared.NewReconciler(store, transformer, settings, logger),
		logger:     logger,
	}
}

// Execute persists the marker and returns the task updated in memory, without
// re-reading the block.
func (uc *SetStatus) Execute(ctx context.Context, in SetStatusInput) (*SetStatusOutput, error) {
	if !in.Status.IsValid() {
		return nil, fmt.Errorf("%q: %w", in.Status, domain.ErrInvalidStatus)
	}

	task, err := uc.reconciler.GetTask(ctx, in.TaskID)
	if err != nil {
		return nil, err
	}
	if err := domain.EnsureEditable(task); err != nil {
		logLocked(uc.logger, task.ID)
		return nil, err
	}
	if !task.Status.CanTransitionTo(in.Status) {
		return &SetStatusOutput{Task: task}, nil
	}

	marker := in.Status.Marker()
	if _, err := uc.store.UpdateBlock(ctx, task.ID, domain.BlockDelta{Marker: &marker}); err != nil {
		logError(uc.logger, task.ID, "status", fmt.Sprintf("update failed: %v", err))
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistFailed, err)
	}

	updated := task.Clone()
	updated.Status = in.Status
	updated.RawBlock.Marker = marker

	if uc.logger != nil {
		uc.logger.Info(task.ID, "status", fmt.Sprintf("status changed: %s -> %s", task.Status, in.Status))
	}
	return &SetStatusOutput{Task: updated, Changed: true}, nil
}
