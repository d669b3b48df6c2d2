package usecase

import (
	"context"
	"testing"

	"github.com/flotilla-dev/flotilla/internal/domain"
	"github.com/flotilla-dev/flotilla/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTasks(ex *testutil.MockTaskExecutor) {
	ex.Tasks["t1"] = &domain.AgentTask{ID: "t1", WorktreeName: "alpha", Status: domain.StatusRunning}
	ex.Tasks["t2"] = &domain.AgentTask{ID: "t2", WorktreeName: "alpha", Status: domain.StatusCompleted}
	ex.Tasks["t3"] = &domain.AgentTask{ID: "t3", WorktreeName: "beta", Status: domain.StatusPending}
}

func TestListTasks_All(t *testing.T) {
	ex := testutil.NewMockTaskExecutor()
	seedTasks(ex)
	uc := NewListTasks(ex)

	out, err := uc.Execute(context.Background(), ListTasksInput{})
	require.NoError(t, err)
	assert.Len(t, out.Tasks, 3)
}

func TestListTasks_FilterByWorktree(t *testing.T) {
	ex := testutil.NewMockTaskExecutor()
	seedTasks(ex)
	uc := NewListTasks(ex)

	out, err := uc.Execute(context.Background(), ListTasksInput{WorktreeName: "alpha"})
	require.NoError(t, err)
	assert.Len(t, out.Tasks, 2)
	for _, task := range out.Tasks {
		assert.Equal(t, "alpha", task.WorktreeName)
	}
}

func TestListTasks_ActiveOnly(t *testing.T) {
	ex := testutil.NewMockTaskExecutor()
	seedTasks(ex)
	uc := NewListTasks(ex)

	out, err := uc.Execute(context.Background(), ListTasksInput{ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, out.Tasks, 2)
	for _, task := range out.Tasks {
		assert.True(t, task.IsActive())
	}
}

func TestGetTask_Execute(t *testing.T) {
	ex := testutil.NewMockTaskExecutor()
	seedTasks(ex)
	uc := NewGetTask(ex)

	out, err := uc.Execute(context.Background(), GetTaskInput{TaskID: "t1"})
	require.NoError(t, err)
	assert.Equal(t, "t1", out.Task.ID)
}

func TestGetTask_NotFound(t *testing.T) {
	uc := NewGetTask(testutil.NewMockTaskExecutor())

	_, err := uc.Execute(context.Background(), GetTaskInput{TaskID: "missing"})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestCancelTask_Execute(t *testing.T) {
	ex := testutil.NewMockTaskExecutor()
	seedTasks(ex)
	uc := NewCancelTask(ex, testutil.NopLogger{})

	require.NoError(t, uc.Execute(context.Background(), CancelTaskInput{TaskID: "t1"}))
	assert.True(t, ex.CancelCalled)
}

func TestCancelTask_NotFound(t *testing.T) {
	uc := NewCancelTask(testutil.NewMockTaskExecutor(), testutil.NopLogger{})

	err := uc.Execute(context.Background(), CancelTaskInput{TaskID: "missing"})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestSweepTasks_Execute(t *testing.T) {
	ex := testutil.NewMockTaskExecutor()
	ex.SweepReturn = 4
	uc := NewSweepTasks(ex, testutil.NopLogger{})

	out, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, out.Removed)
}
