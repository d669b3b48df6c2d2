package domain

import "time"

// WorktreeManager manages the repository's worktrees.
type WorktreeManager interface {
	// Create allocates the worktree directory, ensures the branch exists
	// (creating it from HEAD if needed) and registers the worktree.
	Create(name, branch string) (*Worktree, error)

	// List enumerates every registered worktree. Entries that cannot be
	// opened are skipped rather than failing the whole call.
	List() ([]Worktree, error)

	// Delete removes the worktree directory and prunes its registration.
	// Not safe while a task still runs in that worktree; callers must
	// guarantee no concurrent task targets it.
	Delete(name string) error

	// Status returns human-readable status lines for every changed path.
	Status(name string) ([]string, error)

	// ModifiedFiles returns the paths relevant to overlap detection:
	// working-tree new/modified and index new/modified.
	ModifiedFiles(name string) ([]string, error)
}

// TaskExecutor supervises bounded-concurrency agent processes.
type TaskExecutor interface {
	// Start admits and asynchronously executes a new task, returning its
	// id immediately. Rejects with ErrCapacityExceeded when the ceiling
	// is reached.
	Start(worktreeName, workingDir, description string) (string, error)

	// Get returns a snapshot of the task, or ErrTaskNotFound.
	Get(id string) (*AgentTask, error)

	// List returns snapshots of all tracked tasks.
	List() []*AgentTask

	// Cancel marks a running task cancelled and kills its process.
	Cancel(id string) error

	// Sweep removes terminal tasks older than the retention window and
	// returns how many were removed.
	Sweep() int
}

// Logger writes categorized log lines, optionally bound to a task.
type Logger interface {
	Debug(taskID, category, msg string)
	Info(taskID, category, msg string)
	Warn(taskID, category, msg string)
	Error(taskID, category, msg string)
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (defaults, global, repo).
	Load() (*Config, error)
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
