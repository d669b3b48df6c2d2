package usecase

import (
	"context"

	"github.com/flotilla-dev/flotilla/internal/domain"
)

// ListTasksInput contains the parameters for listing tasks.
type ListTasksInput struct {
	WorktreeName string // Filter by worktree (empty = all)
	ActiveOnly   bool   // Only pending and running tasks
}

// ListTasksOutput contains the result of listing tasks.
type ListTasksOutput struct {
	Tasks []*domain.AgentTask
}

// ListTasks is the use case for listing agent tasks.
type ListTasks struct {
	executor domain.TaskExecutor
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(executor domain.TaskExecutor) *ListTasks {
	return &ListTasks{executor: executor}
}

// Execute lists tasks matching the given filter.
func (uc *ListTasks) Execute(_ context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	all := uc.executor.List()

	tasks := make([]*domain.AgentTask, 0, len(all))
	for _, task := range all {
		if in.WorktreeName != "" && task.WorktreeName != in.WorktreeName {
			continue
		}
		if in.ActiveOnly && !task.IsActive() {
			continue
		}
		tasks = append(tasks, task)
	}
	return &ListTasksOutput{Tasks: tasks}, nil
}
