package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/flotilla-dev/flotilla/internal/domain"
)

// StartTaskInput contains the parameters for starting an agent task.
type StartTaskInput struct {
	WorktreeName string // Target worktree (required)
	Description  string // Task prompt passed to the agent (required)
	WorkingDir   string // Override working directory (empty = worktree path)
}

// StartTaskOutput contains the result of starting a task.
type StartTaskOutput struct {
	TaskID string
}

// StartTask is the use case for launching an agent task in a worktree.
type StartTask struct {
	worktrees domain.WorktreeManager
	executor  domain.TaskExecutor
	logger    domain.Logger
}

// NewStartTask creates a new StartTask use case.
func NewStartTask(worktrees domain.WorktreeManager, executor domain.TaskExecutor, logger domain.Logger) *StartTask {
	return &StartTask{
		worktrees: worktrees,
		executor:  executor,
		logger:    logger,
	}
}

// Execute starts an agent task with the given input.
func (uc *StartTask) Execute(_ context.Context, in StartTaskInput) (*StartTaskOutput, error) {
	if strings.TrimSpace(in.Description) == "" {
		return nil, domain.ErrEmptyDescription
	}

	wt, err := uc.resolveWorktree(in.WorktreeName)
	if err != nil {
		return nil, err
	}

	workingDir := in.WorkingDir
	if workingDir == "" {
		workingDir = wt.Path
	}

	id, err := uc.executor.Start(wt.Name, workingDir, in.Description)
	if err != nil {
		return nil, fmt.Errorf("start task: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(id, "task", fmt.Sprintf("started in worktree %q: %q", wt.Name, in.Description))
	}
	return &StartTaskOutput{TaskID: id}, nil
}

func (uc *StartTask) resolveWorktree(name string) (*domain.Worktree, error) {
	wts, err := uc.worktrees.List()
	if err != nil {
		return nil, fmt.Errorf("list worktrees: %w", err)
	}
	for i := range wts {
		if wts[i].Name == name {
			return &wts[i], nil
		}
	}
	return nil, fmt.Errorf("worktree %q: %w", name, domain.ErrWorktreeNotFound)
}
