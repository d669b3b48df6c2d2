// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"sync"
	"time"

	"github.com/flotilla-dev/flotilla/internal/domain"
)

// MockClock is a test double for domain.Clock. It is safe for
// concurrent use so background goroutines can read it while a test
// advances it.
type MockClock struct {
	NowTime time.Time
	mu      sync.Mutex
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.NowTime
}

// Advance moves the clock forward.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NowTime = m.NowTime.Add(d)
}

// NopLogger is a domain.Logger that discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, string, string) {}
func (NopLogger) Info(string, string, string)  {}
func (NopLogger) Warn(string, string, string)  {}
func (NopLogger) Error(string, string, string) {}

// MockWorktreeManager is a test double for domain.WorktreeManager.
// Fields are ordered to minimize memory padding.
type MockWorktreeManager struct {
	Worktrees    []domain.Worktree
	Modified     map[string][]string // worktree name → modified files
	StatusLines  map[string][]string
	CreateErr    error
	ListErr      error
	DeleteErr    error
	ModifiedErr  map[string]error
	Created      []domain.Worktree
	Deleted      []string
	CreateCalled bool
	DeleteCalled bool
}

// NewMockWorktreeManager creates a MockWorktreeManager with initialized maps.
func NewMockWorktreeManager() *MockWorktreeManager {
	return &MockWorktreeManager{
		Modified:    make(map[string][]string),
		StatusLines: make(map[string][]string),
		ModifiedErr: make(map[string]error),
	}
}

// Create records the call and returns a worktree echoing the arguments.
func (m *MockWorktreeManager) Create(name, branch string) (*domain.Worktree, error) {
	m.CreateCalled = true
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	wt := domain.Worktree{
		ID:     "id-" + name,
		Name:   name,
		Branch: branch,
		Path:   "/worktrees/" + name,
		Status: domain.WorktreeActive,
	}
	m.Created = append(m.Created, wt)
	m.Worktrees = append(m.Worktrees, wt)
	return &wt, nil
}

// List returns the configured worktrees.
func (m *MockWorktreeManager) List() ([]domain.Worktree, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Worktrees, nil
}

// Delete records the call.
func (m *MockWorktreeManager) Delete(name string) error {
	m.DeleteCalled = true
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.Deleted = append(m.Deleted, name)
	return nil
}

// Status returns the configured status lines.
func (m *MockWorktreeManager) Status(name string) ([]string, error) {
	lines, ok := m.StatusLines[name]
	if !ok {
		return nil, domain.ErrWorktreeNotFound
	}
	return lines, nil
}

// ModifiedFiles returns the configured modified files.
func (m *MockWorktreeManager) ModifiedFiles(name string) ([]string, error) {
	if err, ok := m.ModifiedErr[name]; ok {
		return nil, err
	}
	return m.Modified[name], nil
}

// MockTaskExecutor is a test double for domain.TaskExecutor.
// Fields are ordered to minimize memory padding.
type MockTaskExecutor struct {
	Tasks        map[string]*domain.AgentTask
	StartErr     error
	CancelErr    error
	NextID       string
	StartCalls   []StartCall
	SweepReturn  int
	CancelCalled bool
}

// StartCall records one Start invocation.
type StartCall struct {
	WorktreeName string
	WorkingDir   string
	Description  string
}

// NewMockTaskExecutor creates a MockTaskExecutor with initialized maps.
func NewMockTaskExecutor() *MockTaskExecutor {
	return &MockTaskExecutor{
		Tasks:  make(map[string]*domain.AgentTask),
		NextID: "task-1",
	}
}

// Start records the call and returns the configured id.
func (m *MockTaskExecutor) Start(worktreeName, workingDir, description string) (string, error) {
	m.StartCalls = append(m.StartCalls, StartCall{
		WorktreeName: worktreeName,
		WorkingDir:   workingDir,
		Description:  description,
	})
	if m.StartErr != nil {
		return "", m.StartErr
	}
	return m.NextID, nil
}

// Get returns the configured task.
func (m *MockTaskExecutor) Get(id string) (*domain.AgentTask, error) {
	t, ok := m.Tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return t.Clone(), nil
}

// List returns all configured tasks.
func (m *MockTaskExecutor) List() []*domain.AgentTask {
	tasks := make([]*domain.AgentTask, 0, len(m.Tasks))
	for _, t := range m.Tasks {
		tasks = append(tasks, t.Clone())
	}
	return tasks
}

// Cancel records the call.
func (m *MockTaskExecutor) Cancel(id string) error {
	m.CancelCalled = true
	if m.CancelErr != nil {
		return m.CancelErr
	}
	if _, ok := m.Tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	return nil
}

// Sweep returns the configured count.
func (m *MockTaskExecutor) Sweep() int {
	return m.SweepReturn
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config  *domain.Config
	LoadErr error
}

// NewMockConfigLoader creates a loader returning the default config.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{Config: domain.NewDefaultConfig()}
}

// Load returns the configured config.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}
