package usecase

import (
	"context"
	"time"

	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/runoshun/git-agenda/internal/usecase/shared"
)

// UpdateTimeLogInput contains the parameters for replacing a time log.
// Fields are ordered to minimize memory padding.
type UpdateTimeLogInput struct {
	Start  time.Time
	End    time.Time
	Amount *domain.Minutes // nil = End - Start
	TaskID string
	Index  int
}

// UpdateTimeLog is the use case for replacing one entry of a task's ledger.
type UpdateTimeLog struct {
	store      domain.BlockStore
	reconciler *shared.Reconciler
	logger     domain.Logger
}

// NewUpdateTimeLog creates a new UpdateTimeLog use case.
func NewUpdateTimeLog(store domain.BlockStore, transformer domain.TaskTransformer, settings domain.Settings, logger domain.Logger) *UpdateTimeLog {
	return &UpdateTimeLog{
		store:      store,
		reconciler: shared.NewReconciler(store, transformer, settings, logger),
		logger:     logger,
	}
}

// Execute replaces the log at Index.
func (uc *UpdateTimeLog) Execute(ctx context.Context, in UpdateTimeLogInput) (*TaskOutput, error) {
	log, err := domain.NewTimeLog(in.Start, in.End)
	if err != nil {
		return nil, err
	}
	if in.Amount != nil {
		log.Amount = *in.Amount
	}

	task, err := uc.reconciler.GetTask(ctx, in.TaskID)
	if err != nil {
		return nil, err
	}
	if err := domain.EnsureEditable(task); err != nil {
		logLocked(uc.logger, task.ID)
		return nil, err
	}
	if err := task.UpdateTimeLog(in.Index, log); err != nil {
		return nil, err
	}

	return updateTask(ctx, uc.store, uc.reconciler, uc.logger, task.ID, domain.BlockDelta{TimeLogs: &task.TimeLogs})
}
