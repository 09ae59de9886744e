package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/git-agenda/internal/domain"
)

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	TaskID string
}

// DeleteTask is the use case for deleting a task block.
type DeleteTask struct {
	store  domain.BlockStore
	logger domain.Logger
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(store domain.BlockStore, logger domain.Logger) *DeleteTask {
	return &DeleteTask{store: store, logger: logger}
}

// Execute removes the block. Deleting a task that no longer exists succeeds.
func (uc *DeleteTask) Execute(ctx context.Context, in DeleteTaskInput) error {
	if err := uc.store.DeleteBlock(ctx, in.TaskID); err != nil {
		logError(uc.logger, in.TaskID, "task", fmt.Sprintf("delete failed: %v", err))
		return fmt.Errorf("delete block: %w", err)
	}
	if uc.logger != nil {
		uc.logger.Info(in.TaskID, "task", "deleted")
	}
	return nil
}
