package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/runoshun/git-agenda/internal/usecase/shared"
)

// AddTimeLogInput contains the parameters for adding a time log.
// Without Start and End the ledger places a default-length log.
type AddTimeLogInput struct {
	Start  *time.Time
	End    *time.Time
	TaskID string
}

// AddTimeLogOutput contains the written task and the appended log.
type AddTimeLogOutput struct {
	TaskOutput
	Log domain.TimeLog
}

// AddTimeLog is the use case for appending a time log to a task.
type AddTimeLog struct {
	store      domain.BlockStore
	reconciler *shared.Reconciler
	clock      domain.Clock
	logger     domain.Logger
	ledger     domain.Ledger
}

// NewAddTimeLog creates a new AddTimeLog use case.
func NewAddTimeLog(store domain.BlockStore, transformer domain.TaskTransformer, settings domain.Settings, ledger domain.Ledger, clock domain.Clock, logger domain.Logger) *AddTimeLog {
	return &AddTimeLog{
		store:      store,
		reconciler: shared.NewReconciler(store, transformer, settings, logger),
		ledger:     ledger,
		clock:      clock,
		logger:     logger,
	}
}

// Execute appends the log and persists the ledger.
func (uc *AddTimeLog) Execute(ctx context.Context, in AddTimeLogInput) (*AddTimeLogOutput, error) {
	if (in.Start == nil) != (in.End == nil) {
		return nil, fmt.Errorf("start and end must be given together: %w", domain.ErrInvalidInterval)
	}

	task, err := uc.reconciler.GetTask(ctx, in.TaskID)
	if err != nil {
		return nil, err
	}
	if err := domain.EnsureEditable(task); err != nil {
		logLocked(uc.logger, task.ID)
		return nil, err
	}

	var log domain.TimeLog
	if in.Start != nil {
		log, err = domain.NewTimeLog(*in.Start, *in.End)
		if err != nil {
			return nil, err
		}
		task.TimeLogs = append(task.TimeLogs, log)
	} else {
		log = uc.ledger.AddDefault(task, uc.clock.Now())
	}

	out, err := updateTask(ctx, uc.store, uc.reconciler, uc.logger, task.ID, domain.BlockDelta{TimeLogs: &task.TimeLogs})
	if err != nil {
		return nil, err
	}
	return &AddTimeLogOutput{TaskOutput: *out, Log: log}, nil
}
