package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/flotilla-dev/flotilla/internal/domain"
)

// ListWorktreesOutput contains the result of listing worktrees.
type ListWorktreesOutput struct {
	Worktrees []domain.Worktree
}

// ListWorktrees is the use case for listing worktrees.
type ListWorktrees struct {
	worktrees domain.WorktreeManager
}

// NewListWorktrees creates a new ListWorktrees use case.
func NewListWorktrees(worktrees domain.WorktreeManager) *ListWorktrees {
	return &ListWorktrees{worktrees: worktrees}
}

// Execute lists all registered worktrees, sorted by name.
func (uc *ListWorktrees) Execute(_ context.Context) (*ListWorktreesOutput, error) {
	wts, err := uc.worktrees.List()
	if err != nil {
		return nil, fmt.Errorf("list worktrees: %w", err)
	}

	sort.Slice(wts, func(i, j int) bool { return wts[i].Name < wts[j].Name })
	return &ListWorktreesOutput{Worktrees: wts}, nil
}
