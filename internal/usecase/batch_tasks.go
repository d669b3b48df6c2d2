package usecase

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/flotilla-dev/flotilla/internal/domain"
)

// BatchTasksInput contains the parameters for starting tasks from a manifest.
type BatchTasksInput struct {
	Content         []byte // YAML manifest content (required)
	CreateWorktrees bool   // Create worktrees named in the manifest if missing
}

// BatchEntryResult reports the outcome of one manifest entry.
// Fields are ordered to minimize memory padding.
type BatchEntryResult struct {
	Worktree string
	TaskID   string // Empty when Err is set
	Err      error
}

// BatchTasksOutput contains the per-entry results. Entries keep manifest
// order; failed entries do not prevent later ones from starting.
type BatchTasksOutput struct {
	Results []BatchEntryResult
	Started int
}

// batchManifest is the YAML shape of a task manifest.
type batchManifest struct {
	Tasks []batchEntry `yaml:"tasks"`
}

type batchEntry struct {
	Worktree    string `yaml:"worktree"`
	Branch      string `yaml:"branch"`
	Description string `yaml:"description"`
}

// BatchTasks is the use case for starting several agent tasks from a
// YAML manifest.
type BatchTasks struct {
	worktrees domain.WorktreeManager
	executor  domain.TaskExecutor
	logger    domain.Logger
}

// NewBatchTasks creates a new BatchTasks use case.
func NewBatchTasks(worktrees domain.WorktreeManager, executor domain.TaskExecutor, logger domain.Logger) *BatchTasks {
	return &BatchTasks{
		worktrees: worktrees,
		executor:  executor,
		logger:    logger,
	}
}

// Execute starts one task per manifest entry. A malformed manifest fails
// the whole call; individual entry failures are reported per entry.
func (uc *BatchTasks) Execute(ctx context.Context, in BatchTasksInput) (*BatchTasksOutput, error) {
	var manifest batchManifest
	if err := yaml.Unmarshal(in.Content, &manifest); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if len(manifest.Tasks) == 0 {
		return nil, fmt.Errorf("manifest contains no tasks")
	}

	start := NewStartTask(uc.worktrees, uc.executor, uc.logger)
	create := NewCreateWorktree(uc.worktrees, uc.logger)

	out := &BatchTasksOutput{Results: make([]BatchEntryResult, 0, len(manifest.Tasks))}
	for i, entry := range manifest.Tasks {
		result := BatchEntryResult{Worktree: entry.Worktree}

		if strings.TrimSpace(entry.Worktree) == "" {
			result.Err = fmt.Errorf("entry %d: missing worktree name", i+1)
			out.Results = append(out.Results, result)
			continue
		}

		if in.CreateWorktrees {
			if err := uc.ensureWorktree(ctx, create, entry); err != nil {
				result.Err = err
				out.Results = append(out.Results, result)
				continue
			}
		}

		started, err := start.Execute(ctx, StartTaskInput{
			WorktreeName: entry.Worktree,
			Description:  entry.Description,
		})
		if err != nil {
			result.Err = err
		} else {
			result.TaskID = started.TaskID
			out.Started++
		}
		out.Results = append(out.Results, result)
	}
	return out, nil
}

// ensureWorktree creates the entry's worktree unless it already exists.
func (uc *BatchTasks) ensureWorktree(ctx context.Context, create *CreateWorktree, entry batchEntry) error {
	wts, err := uc.worktrees.List()
	if err != nil {
		return fmt.Errorf("list worktrees: %w", err)
	}
	for _, wt := range wts {
		if wt.Name == entry.Worktree {
			return nil
		}
	}

	_, err = create.Execute(ctx, CreateWorktreeInput{
		Name:   entry.Worktree,
		Branch: entry.Branch,
	})
	return err
}
