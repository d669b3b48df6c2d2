package usecase

import (
	"context"
	"fmt"

	"github.com/flotilla-dev/flotilla/internal/domain"
)

// CancelTaskInput contains the parameters for cancelling a task.
type CancelTaskInput struct {
	TaskID string // Task ID (required)
}

// CancelTask is the use case for cancelling a running task.
type CancelTask struct {
	executor domain.TaskExecutor
	logger   domain.Logger
}

// NewCancelTask creates a new CancelTask use case.
func NewCancelTask(executor domain.TaskExecutor, logger domain.Logger) *CancelTask {
	return &CancelTask{
		executor: executor,
		logger:   logger,
	}
}

// Execute cancels the task and kills its agent process.
func (uc *CancelTask) Execute(_ context.Context, in CancelTaskInput) error {
	if err := uc.executor.Cancel(in.TaskID); err != nil {
		return fmt.Errorf("cancel task %s: %w", in.TaskID, err)
	}

	if uc.logger != nil {
		uc.logger.Info(in.TaskID, "task", "cancelled by user")
	}
	return nil
}
