package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/flotilla-dev/flotilla/internal/domain"
	"github.com/flotilla-dev/flotilla/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWorktree_Execute(t *testing.T) {
	wm := testutil.NewMockWorktreeManager()
	uc := NewCreateWorktree(wm, testutil.NopLogger{})

	out, err := uc.Execute(context.Background(), CreateWorktreeInput{
		Name:   "feature-x",
		Branch: "feat/x",
	})
	require.NoError(t, err)

	assert.Equal(t, "feature-x", out.Worktree.Name)
	assert.Equal(t, "feat/x", out.Worktree.Branch)
	require.Len(t, wm.Created, 1)
}

func TestCreateWorktree_BranchDefaultsToName(t *testing.T) {
	wm := testutil.NewMockWorktreeManager()
	uc := NewCreateWorktree(wm, testutil.NopLogger{})

	out, err := uc.Execute(context.Background(), CreateWorktreeInput{Name: "feature-y"})
	require.NoError(t, err)
	assert.Equal(t, "feature-y", out.Worktree.Branch)
}

func TestCreateWorktree_InvalidName(t *testing.T) {
	wm := testutil.NewMockWorktreeManager()
	uc := NewCreateWorktree(wm, testutil.NopLogger{})

	tests := []string{"", ".", "..", "a/b", `a\b`}
	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), CreateWorktreeInput{Name: name})
			assert.ErrorIs(t, err, domain.ErrInvalidWorktreeName)
			assert.False(t, wm.CreateCalled)
		})
	}
}

func TestCreateWorktree_ManagerError(t *testing.T) {
	wm := testutil.NewMockWorktreeManager()
	wm.CreateErr = errors.New("disk full")
	uc := NewCreateWorktree(wm, testutil.NopLogger{})

	_, err := uc.Execute(context.Background(), CreateWorktreeInput{Name: "feature-z"})
	assert.ErrorContains(t, err, "disk full")
}
