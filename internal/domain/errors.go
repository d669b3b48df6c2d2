package domain

import "errors"

// Domain errors.
var (
	ErrWorktreeNotFound    = errors.New("worktree not found")
	ErrWorktreeExists      = errors.New("worktree already exists")
	ErrInvalidWorktreeName = errors.New("invalid worktree name")
	ErrWorktreeBusy        = errors.New("worktree has active tasks")
	ErrUnbornHEAD          = errors.New("repository HEAD is unborn (create an initial commit first)")
	ErrNotGitRepository    = errors.New("not a git repository (or any of the parent directories)")
	ErrTaskNotFound        = errors.New("task not found")
	ErrCapacityExceeded    = errors.New("maximum concurrent tasks reached")
	ErrEmptyDescription    = errors.New("task description cannot be empty")
	ErrInvalidTransition   = errors.New("invalid status transition")
)
