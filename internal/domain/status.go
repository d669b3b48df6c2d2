package domain

// TaskStatus represents the lifecycle state of an agent task.
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"   // Admitted, process not yet spawned
	StatusRunning   TaskStatus = "running"   // Agent process alive
	StatusCompleted TaskStatus = "completed" // Process exited with code 0
	StatusFailed    TaskStatus = "failed"    // Spawn error, nonzero exit, or timeout
	StatusCancelled TaskStatus = "cancelled" // Cancelled by the caller
)

// AllStatuses returns all valid status values.
func AllStatuses() []TaskStatus {
	return []TaskStatus{
		StatusPending,
		StatusRunning,
		StatusCompleted,
		StatusFailed,
		StatusCancelled,
	}
}

// transitions defines the allowed status transitions.
// Flow: pending → running → {completed, failed, cancelled}.
// Pending may fail directly on a spawn error and may be cancelled
// before the process comes up. Nothing transitions back to pending.
var transitions = map[TaskStatus][]TaskStatus{
	StatusPending:   {StatusRunning, StatusFailed, StatusCancelled},
	StatusRunning:   {StatusCompleted, StatusFailed, StatusCancelled},
	StatusCompleted: {},
	StatusFailed:    {},
	StatusCancelled: {},
}

// CanTransitionTo returns true if the status can transition to the target status.
func (s TaskStatus) CanTransitionTo(target TaskStatus) bool {
	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if the status is a terminal state.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// IsValid returns true if the status is a known value.
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusRunning, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// Display returns a human-readable representation of the status.
func (s TaskStatus) Display() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusRunning:
		return "Running"
	case StatusCompleted:
		return "Completed"
	case StatusFailed:
		return "Failed"
	case StatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}
