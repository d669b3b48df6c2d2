package usecase

import (
	"context"
	"fmt"

	"github.com/flotilla-dev/flotilla/internal/domain"
)

// GetTaskInput contains the parameters for fetching a task.
type GetTaskInput struct {
	TaskID string // Task ID (required)
}

// GetTaskOutput contains the task snapshot.
type GetTaskOutput struct {
	Task *domain.AgentTask
}

// GetTask is the use case for fetching one task's snapshot.
type GetTask struct {
	executor domain.TaskExecutor
}

// NewGetTask creates a new GetTask use case.
func NewGetTask(executor domain.TaskExecutor) *GetTask {
	return &GetTask{executor: executor}
}

// Execute returns a snapshot of the task.
func (uc *GetTask) Execute(_ context.Context, in GetTaskInput) (*GetTaskOutput, error) {
	task, err := uc.executor.Get(in.TaskID)
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", in.TaskID, err)
	}
	return &GetTaskOutput{Task: task}, nil
}
