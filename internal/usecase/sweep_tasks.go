package usecase

import (
	"context"
	"fmt"

	"github.com/flotilla-dev/flotilla/internal/domain"
)

// SweepTasksOutput contains the result of sweeping old tasks.
type SweepTasksOutput struct {
	Removed int // Number of task records removed
}

// SweepTasks is the use case for pruning old terminal task records.
type SweepTasks struct {
	executor domain.TaskExecutor
	logger   domain.Logger
}

// NewSweepTasks creates a new SweepTasks use case.
func NewSweepTasks(executor domain.TaskExecutor, logger domain.Logger) *SweepTasks {
	return &SweepTasks{
		executor: executor,
		logger:   logger,
	}
}

// Execute removes terminal tasks past the retention window.
func (uc *SweepTasks) Execute(_ context.Context) (*SweepTasksOutput, error) {
	removed := uc.executor.Sweep()
	if removed > 0 && uc.logger != nil {
		uc.logger.Info("", "task", fmt.Sprintf("swept %d old task records", removed))
	}
	return &SweepTasksOutput{Removed: removed}, nil
}
