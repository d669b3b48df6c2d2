package domain

import (
	"strings"
	"time"
)

// WorktreeState describes whether a worktree is usable or locked.
type WorktreeState string

const (
	WorktreeActive WorktreeState = "active"
	WorktreeLocked WorktreeState = "locked"
)

// Worktree is an isolated working copy backed by the shared repository.
// Fields are ordered to minimize memory padding.
type Worktree struct {
	CreatedAt    time.Time     `json:"createdAt"`
	LastActivity time.Time     `json:"lastActivity"`
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Branch       string        `json:"branch"` // "unknown" if detached or unresolvable
	Path         string        `json:"path"`
	Status       WorktreeState `json:"status"`
}

// ValidateWorktreeName rejects names that are empty or would escape the
// worktrees directory.
func ValidateWorktreeName(name string) error {
	if name == "" || name == "." || name == ".." {
		return ErrInvalidWorktreeName
	}
	if strings.ContainsAny(name, "/\\") {
		return ErrInvalidWorktreeName
	}
	return nil
}
