package usecase

import (
	"context"
	"testing"

	"github.com/flotilla-dev/flotilla/internal/domain"
	"github.com/flotilla-dev/flotilla/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartTask_Execute(t *testing.T) {
	wm := testutil.NewMockWorktreeManager()
	wm.Worktrees = []domain.Worktree{
		{Name: "feature-x", Path: "/repo/worktrees/feature-x"},
	}
	ex := testutil.NewMockTaskExecutor()
	ex.NextID = "abc"
	uc := NewStartTask(wm, ex, testutil.NopLogger{})

	out, err := uc.Execute(context.Background(), StartTaskInput{
		WorktreeName: "feature-x",
		Description:  "fix the login bug",
	})
	require.NoError(t, err)
	assert.Equal(t, "abc", out.TaskID)

	require.Len(t, ex.StartCalls, 1)
	call := ex.StartCalls[0]
	assert.Equal(t, "feature-x", call.WorktreeName)
	// Working directory defaults to the worktree path.
	assert.Equal(t, "/repo/worktrees/feature-x", call.WorkingDir)
	assert.Equal(t, "fix the login bug", call.Description)
}

func TestStartTask_WorkingDirOverride(t *testing.T) {
	wm := testutil.NewMockWorktreeManager()
	wm.Worktrees = []domain.Worktree{
		{Name: "feature-x", Path: "/repo/worktrees/feature-x"},
	}
	ex := testutil.NewMockTaskExecutor()
	uc := NewStartTask(wm, ex, testutil.NopLogger{})

	_, err := uc.Execute(context.Background(), StartTaskInput{
		WorktreeName: "feature-x",
		Description:  "work in a subdirectory",
		WorkingDir:   "/repo/worktrees/feature-x/pkg",
	})
	require.NoError(t, err)
	assert.Equal(t, "/repo/worktrees/feature-x/pkg", ex.StartCalls[0].WorkingDir)
}

func TestStartTask_EmptyDescription(t *testing.T) {
	uc := NewStartTask(testutil.NewMockWorktreeManager(), testutil.NewMockTaskExecutor(), testutil.NopLogger{})

	for _, desc := range []string{"", "   ", "\t\n"} {
		_, err := uc.Execute(context.Background(), StartTaskInput{
			WorktreeName: "feature-x",
			Description:  desc,
		})
		assert.ErrorIs(t, err, domain.ErrEmptyDescription)
	}
}

func TestStartTask_WorktreeNotFound(t *testing.T) {
	ex := testutil.NewMockTaskExecutor()
	uc := NewStartTask(testutil.NewMockWorktreeManager(), ex, testutil.NopLogger{})

	_, err := uc.Execute(context.Background(), StartTaskInput{
		WorktreeName: "ghost",
		Description:  "anything",
	})
	assert.ErrorIs(t, err, domain.ErrWorktreeNotFound)
	assert.Empty(t, ex.StartCalls)
}

func TestStartTask_CapacityError(t *testing.T) {
	wm := testutil.NewMockWorktreeManager()
	wm.Worktrees = []domain.Worktree{{Name: "feature-x", Path: "/wt"}}
	ex := testutil.NewMockTaskExecutor()
	ex.StartErr = domain.ErrCapacityExceeded
	uc := NewStartTask(wm, ex, testutil.NopLogger{})

	_, err := uc.Execute(context.Background(), StartTaskInput{
		WorktreeName: "feature-x",
		Description:  "anything",
	})
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
}
