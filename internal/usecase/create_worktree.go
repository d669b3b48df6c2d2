// Package usecase contains application use cases.
package usecase

import (
	"context"
	"fmt"

	"github.com/flotilla-dev/flotilla/internal/domain"
)

// CreateWorktreeInput contains the parameters for creating a worktree.
type CreateWorktreeInput struct {
	Name   string // Worktree name (required)
	Branch string // Branch to check out (empty = same as name)
}

// CreateWorktreeOutput contains the result of creating a worktree.
type CreateWorktreeOutput struct {
	Worktree *domain.Worktree
}

// CreateWorktree is the use case for creating a worktree.
type CreateWorktree struct {
	worktrees domain.WorktreeManager
	logger    domain.Logger
}

// NewCreateWorktree creates a new CreateWorktree use case.
func NewCreateWorktree(worktrees domain.WorktreeManager, logger domain.Logger) *CreateWorktree {
	return &CreateWorktree{
		worktrees: worktrees,
		logger:    logger,
	}
}

// Execute creates a worktree with the given input.
func (uc *CreateWorktree) Execute(_ context.Context, in CreateWorktreeInput) (*CreateWorktreeOutput, error) {
	if err := domain.ValidateWorktreeName(in.Name); err != nil {
		return nil, err
	}

	branch := in.Branch
	if branch == "" {
		branch = in.Name
	}

	wt, err := uc.worktrees.Create(in.Name, branch)
	if err != nil {
		return nil, fmt.Errorf("create worktree: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info("", "worktree", fmt.Sprintf("created %q on branch %q", wt.Name, wt.Branch))
	}
	return &CreateWorktreeOutput{Worktree: wt}, nil
}
