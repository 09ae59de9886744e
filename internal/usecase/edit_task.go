package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/runoshun/git-agenda/internal/usecase/shared"
)

// EditTaskInput contains the parameters for editing a task.
type EditTaskInput struct {
	TaskID string          // Block id of the task to edit
	Form   domain.FormData // Full staged form; unchanged fields produce no write
}

// EditTask is the use case for editing a task block.
type EditTask struct {
	store      domain.BlockStore
	reconciler *shared.Reconciler
	logger     domain.Logger
}

// NewEditTask creates a new EditTask use case.
func NewEditTask(store domain.BlockStore, transformer domain.TaskTransformer, settings domain.Settings, logger domain.Logger) *EditTask {
	return &EditTask{
		store:      store,
		reconciler: shared.NewReconciler(store, transformer, settings, logger),
		logger:     logger,
	}
}

// Execute writes the differences between the form and the stored task.
// Schedule changes to a recurring task are rejected with domain.ErrEditLocked.
func (uc *EditTask) Execute(ctx context.Context, in EditTaskInput) (*TaskOutput, error) {
	task, err := uc.reconciler.GetTask(ctx, in.TaskID)
	if err != nil {
		return nil, err
	}
	return uc.apply(ctx, task, in.Form)
}

func (uc *EditTask) apply(ctx context.Context, task *domain.Task, form domain.FormData) (*TaskOutput, error) {
	delta, err := form.Delta(task)
	if err != nil {
		return nil, err
	}
	if delta.TouchesSchedule() {
		if err := domain.EnsureEditable(task); err != nil {
			logLocked(uc.logger, task.ID)
			return nil, err
		}
	}

	if delta.IsEmpty() {
		vis, _ := uc.reconciler.Visibility(ctx, task)
		return &TaskOutput{Task: task, Visibility: vis}, nil
	}

	return updateTask(ctx, uc.store, uc.reconciler, uc.logger, task.ID, delta)
}

// updateTask persists delta and reconciles the written block.
func updateTask(ctx context.Context, store domain.BlockStore, r *shared.Reconciler, logger domain.Logger, id string, delta domain.BlockDelta) (*TaskOutput, error) {
	raw, err := store.UpdateBlock(ctx, id, delta)
	if err != nil {
		logError(logger, id, "task", fmt.Sprintf("update failed: %v", err))
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistFailed, err)
	}

	res, err := r.Reconcile(ctx, raw)
	if err != nil {
		logError(logger, id, "task", err.Error())
		return nil, err
	}

	if logger != nil {
		logger.Info(id, "task", "updated")
	}
	return &TaskOutput{Task: res.Task, Visibility: res.Visibility}, nil
}
