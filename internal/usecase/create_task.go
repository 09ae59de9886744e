// Package usecase contains application use cases.
package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/runoshun/git-agenda/internal/usecase/shared"
)

// CreateTaskInput contains the parameters for creating a task.
type CreateTaskInput struct {
	Form domain.FormData // Staged form values (title required)
}

// TaskOutput is the result of a use case that writes a task.
type TaskOutput struct {
	Task       *domain.Task
	Visibility domain.Visibility
}

// Notice returns the informational message to show after the write, or "".
func (o *TaskOutput) Notice() string {
	return o.Visibility.Notice()
}

// CreateTask is the use case for creating a task block.
type CreateTask struct {
	store      domain.BlockStore
	reconciler *shared.Reconciler
	logger     domain.Logger
}

// NewCreateTask creates a new CreateTask use case.
func NewCreateTask(store domain.BlockStore, transformer domain.TaskTransformer, settings domain.Settings, logger domain.Logger) *CreateTask {
	return &CreateTask{
		store:      store,
		reconciler: shared.NewReconciler(store, transformer, settings, logger),
		logger:     logger,
	}
}

// Execute validates the form, writes the block and returns the stored task.
func (uc *CreateTask) Execute(ctx context.Context, in CreateTaskInput) (*TaskOutput, error) {
	draft, err := in.Form.Draft()
	if err != nil {
		return nil, err
	}

	raw, err := uc.store.CreateBlock(ctx, draft)
	if err != nil {
		logError(uc.logger, "", "task", fmt.Sprintf("create failed: %v", err))
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistFailed, err)
	}

	res, err := uc.reconciler.Reconcile(ctx, raw)
	if err != nil {
		logError(uc.logger, raw.UUID, "task", err.Error())
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info(res.Task.ID, "task", fmt.Sprintf("created: %q", res.Task.Title))
	}
	return &TaskOutput{Task: res.Task, Visibility: res.Visibility}, nil
}

// logError writes to logger when one is configured.
func logError(logger domain.Logger, taskID, category, msg string) {
	if logger != nil {
		logger.Error(taskID, category, msg)
	}
}

// logLocked records a rejected edit of a locked task at info level.
func logLocked(logger domain.Logger, taskID string) {
	if logger != nil {
		logger.Info(taskID, "task", "edit rejected: schedule is locked by recurrence")
	}
}
