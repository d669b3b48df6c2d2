// Package executor supervises concurrent agent processes, one per task.
package executor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flotilla-dev/flotilla/internal/domain"
)

// maxLineSize bounds a single captured output line.
const maxLineSize = 1024 * 1024

// Config holds the executor settings.
type Config struct {
	Command       string        // Agent binary
	Args          []string      // Arguments placed before the task description
	MaxConcurrent int           // Admission ceiling
	Timeout       time.Duration // Per-task process timeout
}

// NewConfig builds an executor config from the application config.
func NewConfig(cfg *domain.Config) Config {
	return Config{
		Command:       cfg.Agent.Command,
		Args:          cfg.Agent.Args,
		MaxConcurrent: cfg.Tasks.MaxConcurrent,
		Timeout:       cfg.Tasks.Timeout(),
	}
}

// Executor runs agent tasks against worktree working directories.
//
// The task table, and the cancel-function side table keyed by task id, form
// a single consistency domain guarded by mu: output appends, status
// transitions and sweeps never interleave into a torn record. Everything
// handed out is a clone.
type Executor struct {
	cfg     Config
	clock   domain.Clock
	logger  domain.Logger
	mu      sync.RWMutex
	tasks   map[string]*domain.AgentTask
	cancels map[string]context.CancelFunc
}

// New creates an executor. Zero config fields fall back to the domain
// defaults.
func New(cfg Config, clock domain.Clock, logger domain.Logger) *Executor {
	def := domain.NewDefaultConfig()
	if cfg.Command == "" {
		cfg.Command = def.Agent.Command
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = def.Tasks.MaxConcurrent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Tasks.Timeout()
	}
	return &Executor{
		cfg:     cfg,
		clock:   clock,
		logger:  logger,
		tasks:   make(map[string]*domain.AgentTask),
		cancels: make(map[string]context.CancelFunc),
	}
}

// Ensure Executor implements domain.TaskExecutor.
var _ domain.TaskExecutor = (*Executor)(nil)

// Start admits a new task and begins executing it without blocking the
// caller. The admission check and the insertion happen under one lock so
// two concurrent starts can never both take the last slot.
//
// Admission counts every non-terminal task, not just running ones; a task
// admitted as pending is about to run, and counting it keeps the running
// ceiling unexceedable.
func (e *Executor) Start(worktreeName, workingDir, description string) (string, error) {
	task := &domain.AgentTask{
		ID:           uuid.NewString(),
		Description:  description,
		Status:       domain.StatusPending,
		StartedAt:    e.clock.Now().UTC(),
		Output:       []string{},
		WorkingDir:   workingDir,
		WorktreeName: worktreeName,
	}

	e.mu.Lock()
	active := 0
	for _, t := range e.tasks {
		if t.IsActive() {
			active++
		}
	}
	if active >= e.cfg.MaxConcurrent {
		e.mu.Unlock()
		return "", fmt.Errorf("%d tasks active: %w", active, domain.ErrCapacityExceeded)
	}
	e.tasks[task.ID] = task
	e.mu.Unlock()

	e.logInfo(task.ID, "task", fmt.Sprintf("admitted in worktree %q", worktreeName))
	go e.run(task.ID, workingDir, description)
	return task.ID, nil
}

// run drives one task from spawn to a terminal state.
func (e *Executor) run(id, workingDir, description string) {
	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.Timeout)
	defer cancel()

	// Registration and the liveness check share one critical section: a
	// Cancel that sealed the record before this point must prevent the
	// spawn, not race it.
	e.mu.Lock()
	t, ok := e.tasks[id]
	if !ok || t.Status.IsTerminal() {
		e.mu.Unlock()
		return
	}
	e.cancels[id] = cancel
	e.mu.Unlock()

	args := append(append([]string{}, e.cfg.Args...), description)
	// #nosec G204 - command comes from trusted configuration
	cmd := exec.CommandContext(ctx, e.cfg.Command, args...)
	cmd.Dir = workingDir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		e.finishSpawnError(id, err)
		return
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		e.finishSpawnError(id, err)
		return
	}

	if err := cmd.Start(); err != nil {
		e.finishSpawnError(id, err)
		return
	}

	e.markRunning(id)

	var pumps sync.WaitGroup
	pumps.Add(2)
	go e.pump(id, stdout, "", &pumps)
	go e.pump(id, stderr, "stderr: ", &pumps)

	pumps.Wait()
	waitErr := cmd.Wait()

	e.finish(id, ctx.Err(), waitErr)
}

// pump appends lines from one stream to the task output as they arrive, so
// concurrent status queries observe partial progress.
func (e *Executor) pump(id string, r io.Reader, prefix string, wg *sync.WaitGroup) {
	defer wg.Done()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		e.appendOutput(id, prefix+scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		// Usually a line past maxLineSize. Record it, then keep draining
		// so the process cannot block on a full pipe.
		e.appendOutput(id, prefix+fmt.Sprintf("Error: read agent output: %v", err))
		_, _ = io.Copy(io.Discard, r)
	}
}

// appendOutput appends one line. Append-only; a line is never rewritten.
func (e *Executor) appendOutput(id, line string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if t, ok := e.tasks[id]; ok {
		t.Output = append(t.Output, line)
	}
}

// markRunning moves a pending task to running. A task cancelled before the
// process came up stays cancelled.
func (e *Executor) markRunning(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if t, ok := e.tasks[id]; ok && t.Status == domain.StatusPending {
		t.Status = domain.StatusRunning
	}
}

// finishSpawnError fails a task that never entered running.
func (e *Executor) finishSpawnError(id string, err error) {
	now := e.clock.Now().UTC()

	e.mu.Lock()
	if t, ok := e.tasks[id]; ok && !t.Status.IsTerminal() {
		t.Status = domain.StatusFailed
		t.CompletedAt = &now
		t.Output = append(t.Output, fmt.Sprintf("Error: spawn agent process: %v", err))
	}
	delete(e.cancels, id)
	e.mu.Unlock()

	e.logError(id, "task", fmt.Sprintf("spawn failed: %v", err))
}

// finish records the terminal state after the process has been reaped.
func (e *Executor) finish(id string, ctxErr, waitErr error) {
	now := e.clock.Now().UTC()

	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.cancels, id)

	t, ok := e.tasks[id]
	if !ok || t.Status.IsTerminal() {
		// Cancel already sealed the record; the process kill is the
		// only thing left, and it just happened.
		return
	}

	switch {
	case errors.Is(ctxErr, context.DeadlineExceeded):
		t.Status = domain.StatusFailed
		t.Output = append(t.Output, fmt.Sprintf("Error: agent timed out after %s", e.cfg.Timeout))
		e.logWarn(id, "task", "timed out")
	case waitErr != nil:
		t.Status = domain.StatusFailed
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			t.Output = append(t.Output, fmt.Sprintf("Error: agent exited with code %d", exitErr.ExitCode()))
		} else {
			t.Output = append(t.Output, fmt.Sprintf("Error: wait for agent: %v", waitErr))
		}
		e.logWarn(id, "task", fmt.Sprintf("failed: %v", waitErr))
	default:
		t.Status = domain.StatusCompleted
		e.logInfo(id, "task", "completed")
	}
	t.CompletedAt = &now
}

// Get returns a snapshot of the task.
func (e *Executor) Get(id string) (*domain.AgentTask, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	t, ok := e.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %q: %w", id, domain.ErrTaskNotFound)
	}
	return t.Clone(), nil
}

// List returns snapshots of all tracked tasks, oldest first.
func (e *Executor) List() []*domain.AgentTask {
	e.mu.RLock()
	tasks := make([]*domain.AgentTask, 0, len(e.tasks))
	for _, t := range e.tasks {
		tasks = append(tasks, t.Clone())
	}
	e.mu.RUnlock()

	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].StartedAt.Equal(tasks[j].StartedAt) {
			return tasks[i].ID < tasks[j].ID
		}
		return tasks[i].StartedAt.Before(tasks[j].StartedAt)
	})
	return tasks
}

// Cancel marks an active task cancelled and kills its process through the
// retained cancel handle. Flipping the status without the kill would leak
// an orphaned agent process.
func (e *Executor) Cancel(id string) error {
	now := e.clock.Now().UTC()

	e.mu.Lock()
	t, ok := e.tasks[id]
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("task %q: %w", id, domain.ErrTaskNotFound)
	}
	if t.Status.IsTerminal() {
		e.mu.Unlock()
		return nil
	}
	t.Status = domain.StatusCancelled
	t.CompletedAt = &now
	t.Output = append(t.Output, "Task cancelled")
	cancel := e.cancels[id]
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	e.logInfo(id, "task", "cancelled")
	return nil
}

// Sweep removes terminal tasks whose completion time is older than the
// retention window. Pending and running tasks are never removed.
func (e *Executor) Sweep() int {
	cutoff := e.clock.Now().Add(-domain.TaskRetention)

	e.mu.Lock()
	defer e.mu.Unlock()
	removed := 0
	for id, t := range e.tasks {
		if t.Status.IsTerminal() && t.CompletedAt != nil && t.CompletedAt.Before(cutoff) {
			delete(e.tasks, id)
			delete(e.cancels, id)
			removed++
		}
	}
	return removed
}

func (e *Executor) logInfo(taskID, category, msg string) {
	if e.logger != nil {
		e.logger.Info(taskID, category, msg)
	}
}

func (e *Executor) logWarn(taskID, category, msg string) {
	if e.logger != nil {
		e.logger.Warn(taskID, category, msg)
	}
}

func (e *Executor) logError(taskID, category, msg string) {
	if e.logger != nil {
		e.logger.Error(taskID, category, msg)
	}
}
