// Package domain contains core business entities and interfaces.
package domain

import "time"

// TaskRetention is how long terminal tasks are kept before a sweep
// removes them from the table.
const TaskRetention = time.Hour

// AgentTask represents one invocation of an agent process bound to a
// worktree's working directory.
// Fields are ordered to minimize memory padding.
type AgentTask struct {
	StartedAt    time.Time  `json:"startedAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"` // Set exactly once, on the first terminal transition
	ID           string     `json:"id"`
	Description  string     `json:"description"`
	WorkingDir   string     `json:"workingDir"`
	WorktreeName string     `json:"worktreeName"`
	Output       []string   `json:"output"` // Captured lines, append-only; stderr lines carry a "stderr: " prefix
	Status       TaskStatus `json:"status"`
}

// IsActive returns true if the task has not reached a terminal state.
func (t *AgentTask) IsActive() bool {
	return !t.Status.IsTerminal()
}

// Clone returns a deep copy of the task. The executor hands out clones so
// callers never observe the table's record mid-mutation.
func (t *AgentTask) Clone() *AgentTask {
	c := *t
	if t.CompletedAt != nil {
		done := *t.CompletedAt
		c.CompletedAt = &done
	}
	c.Output = make([]string, len(t.Output))
	copy(c.Output, t.Output)
	return &c
}
