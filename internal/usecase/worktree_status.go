package usecase

import (
	"context"
	"fmt"

	"github.com/flotilla-dev/flotilla/internal/domain"
)

// WorktreeStatusInput contains the parameters for inspecting a worktree.
type WorktreeStatusInput struct {
	Name          string // Worktree name (required)
	ModifiedFiles bool   // Return only the overlap-relevant file paths
}

// WorktreeStatusOutput contains the result of inspecting a worktree.
type WorktreeStatusOutput struct {
	Lines []string // Status lines, or bare paths when ModifiedFiles is set
}

// WorktreeStatus is the use case for showing a worktree's changed paths.
type WorktreeStatus struct {
	worktrees domain.WorktreeManager
}

// NewWorktreeStatus creates a new WorktreeStatus use case.
func NewWorktreeStatus(worktrees domain.WorktreeManager) *WorktreeStatus {
	return &WorktreeStatus{worktrees: worktrees}
}

// Execute returns the worktree's status lines or modified file paths.
func (uc *WorktreeStatus) Execute(_ context.Context, in WorktreeStatusInput) (*WorktreeStatusOutput, error) {
	if in.ModifiedFiles {
		files, err := uc.worktrees.ModifiedFiles(in.Name)
		if err != nil {
			return nil, fmt.Errorf("list modified files: %w", err)
		}
		return &WorktreeStatusOutput{Lines: files}, nil
	}

	lines, err := uc.worktrees.Status(in.Name)
	if err != nil {
		return nil, fmt.Errorf("worktree status: %w", err)
	}
	return &WorktreeStatusOutput{Lines: lines}, nil
}
