package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from TaskStatus
		to   TaskStatus
		want bool
	}{
		{"pending to running", StatusPending, StatusRunning, true},
		{"pending to failed (spawn error)", StatusPending, StatusFailed, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to completed", StatusPending, StatusCompleted, false},
		{"running to completed", StatusRunning, StatusCompleted, true},
		{"running to failed", StatusRunning, StatusFailed, true},
		{"running to cancelled", StatusRunning, StatusCancelled, true},
		{"running back to pending", StatusRunning, StatusPending, false},
		{"completed is terminal", StatusCompleted, StatusRunning, false},
		{"failed is terminal", StatusFailed, StatusPending, false},
		{"cancelled is terminal", StatusCancelled, StatusRunning, false},
		{"unknown status", TaskStatus("bogus"), StatusRunning, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestTaskStatus_IsTerminal(t *testing.T) {
	terminal := []TaskStatus{StatusCompleted, StatusFailed, StatusCancelled}
	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), "expected %s to be terminal", s)
	}
	for _, s := range []TaskStatus{StatusPending, StatusRunning} {
		assert.False(t, s.IsTerminal(), "expected %s to be non-terminal", s)
	}
}

func TestTaskStatus_NothingReturnsToPending(t *testing.T) {
	for _, s := range AllStatuses() {
		assert.False(t, s.CanTransitionTo(StatusPending),
			"no status may transition back to pending, got %s", s)
	}
}

func TestTaskStatus_IsValid(t *testing.T) {
	for _, s := range AllStatuses() {
		assert.True(t, s.IsValid())
	}
	assert.False(t, TaskStatus("done").IsValid())
	assert.False(t, TaskStatus("").IsValid())
}
