package usecase

import (
	"context"
	"fmt"

	"github.com/flotilla-dev/flotilla/internal/domain"
)

// DeleteWorktreeInput contains the parameters for deleting a worktree.
type DeleteWorktreeInput struct {
	Name string // Worktree name (required)
}

// DeleteWorktree is the use case for deleting a worktree. It refuses to
// remove a worktree that an active task is still running in.
type DeleteWorktree struct {
	worktrees domain.WorktreeManager
	executor  domain.TaskExecutor
	logger    domain.Logger
}

// NewDeleteWorktree creates a new DeleteWorktree use case.
func NewDeleteWorktree(worktrees domain.WorktreeManager, executor domain.TaskExecutor, logger domain.Logger) *DeleteWorktree {
	return &DeleteWorktree{
		worktrees: worktrees,
		executor:  executor,
		logger:    logger,
	}
}

// Execute deletes the named worktree.
func (uc *DeleteWorktree) Execute(_ context.Context, in DeleteWorktreeInput) error {
	if uc.executor != nil {
		for _, task := range uc.executor.List() {
			if task.WorktreeName == in.Name && task.IsActive() {
				return fmt.Errorf("task %s is still active in worktree %q: %w",
					task.ID, in.Name, domain.ErrWorktreeBusy)
			}
		}
	}

	if err := uc.worktrees.Delete(in.Name); err != nil {
		return fmt.Errorf("delete worktree: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info("", "worktree", fmt.Sprintf("deleted %q", in.Name))
	}
	return nil
}
