package usecase

import (
	"context"

	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/runoshun/git-agenda/internal/usecase/shared"
)

// RemoveTimeLogInput contains the parameters for removing a time log.
type RemoveTimeLogInput struct {
	TaskID string
	Index  int
}

// RemoveTimeLog is the use case for removing one entry of a task's ledger.
type RemoveTimeLog struct {
	store      domain.BlockStore
	reconciler *shared.Reconciler
	logger     domain.Logger
}

// NewRemoveTimeLog creates a new RemoveTimeLog use case.
func NewRemoveTimeLog(store domain.BlockStore, transformer domain.TaskTransformer, settings domain.Settings, logger domain.Logger) *RemoveTimeLog {
	return &RemoveTimeLog{
		store:      store,
		reconciler: shared.NewReconciler(store, transformer, settings, logger),
		logger:     logger,
	}
}

// Execute removes the log at Index; the remaining entries keep their order.
func (uc *RemoveTimeLog) Execute(ctx context.Context, in RemoveTimeLogInput) (*TaskOutput, error) {
	task, err := uc.reconciler.GetTask(ctx, in.TaskID)
	if err != nil {
		return nil, err
	}
	if err := domain.EnsureEditable(task); err != nil {
		logLocked(uc.logger, task.ID)
		return nil, err
	}
	if err := task.RemoveTimeLog(in.Index); err != nil {
		return nil, err
	}

	return updateTask(ctx, uc.store, uc.reconciler, uc.logger, task.ID, domain.BlockDelta{TimeLogs: &task.TimeLogs})
}
