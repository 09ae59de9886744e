package usecase

import (
	"context"

	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/runoshun/git-agenda/internal/usecase/shared"
)

// ShowTaskInput contains the parameters for showing a task.
type ShowTaskInput struct {
	TaskID string
}

// ShowTaskOutput contains a task with its derived values.
// Fields are ordered to minimize memory padding.
type ShowTaskOutput struct {
	Task       *domain.Task
	Placement  string // Formatted placement ("" when unscheduled)
	Visibility domain.Visibility
	ActualTime domain.Minutes
	Locked     bool // Schedule is read-only because of recurrence
}

// ShowTask is the use case for reading a single task.
type ShowTask struct {
	reconciler *shared.Reconciler
}

// NewShowTask creates a new ShowTask use case.
func NewShowTask(store domain.BlockStore, transformer domain.TaskTransformer, settings domain.Settings) *ShowTask {
	return &ShowTask{reconciler: shared.NewReconciler(store, transformer, settings, nil)}
}

// Execute loads the task.
func (uc *ShowTask) Execute(ctx context.Context, in ShowTaskInput) (*ShowTaskOutput, error) {
	task, err := uc.reconciler.GetTask(ctx, in.TaskID)
	if err != nil {
		return nil, err
	}
	vis, err := uc.reconciler.Visibility(ctx, task)
	if err != nil {
		return nil, err
	}
	return &ShowTaskOutput{
		Task:       task,
		Placement:  domain.PlacementOf(task).Format(),
		Visibility: vis,
		ActualTime: task.ActualTime(),
		Locked:     task.IsScheduleLocked(),
	}, nil
}
