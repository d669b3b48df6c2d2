// Package app provides the dependency injection container for the application.
package app

import (
	"github.com/flotilla-dev/flotilla/internal/domain"
	"github.com/flotilla-dev/flotilla/internal/infra/config"
	"github.com/flotilla-dev/flotilla/internal/infra/executor"
	"github.com/flotilla-dev/flotilla/internal/infra/git"
	"github.com/flotilla-dev/flotilla/internal/infra/logging"
	"github.com/flotilla-dev/flotilla/internal/infra/worktree"
	"github.com/flotilla-dev/flotilla/internal/usecase"
)

// Paths holds the resolved filesystem layout of the repository.
type Paths struct {
	RepoRoot    string // Root directory of the git repository
	GitDir      string // Common .git directory
	FlotillaDir string // Path to .git/flotilla directory
	WorktreeDir string // Path to the managed worktrees directory
}

// newPaths derives the application paths from the git client.
func newPaths(gitClient *git.Client) Paths {
	return Paths{
		RepoRoot:    gitClient.RepoRoot(),
		GitDir:      gitClient.GitDir(),
		FlotillaDir: domain.FlotillaDir(gitClient.GitDir()),
		WorktreeDir: domain.WorktreesDir(gitClient.RepoRoot()),
	}
}

// Container provides dependency injection for the application. It holds
// all port implementations and factory methods for use cases. The task
// executor in particular is owned here: one instance per process, passed
// explicitly to everything that needs it.
type Container struct {
	// Ports (interfaces bound to implementations)
	Clock        domain.Clock
	Worktrees    domain.WorktreeManager
	Executor     domain.TaskExecutor
	ConfigLoader domain.ConfigLoader
	Logger       domain.Logger

	// Resolved configuration
	AppConfig *domain.Config
	Paths     Paths

	fileLogger *logging.Logger
}

// New creates a new Container by detecting the git repository from the
// given directory.
func New(dir string) (*Container, error) {
	gitClient, err := git.NewClient(dir)
	if err != nil {
		return nil, err
	}
	paths := newPaths(gitClient)

	configLoader := config.NewLoader(paths.FlotillaDir)
	appConfig, err := configLoader.Load()
	if err != nil {
		return nil, err
	}

	fileLogger := logging.New(paths.FlotillaDir, logging.ParseLevel(appConfig.Log.Level))
	clock := domain.RealClock{}

	worktrees := worktree.NewStore(paths.RepoRoot, paths.FlotillaDir, clock)
	exec := executor.New(executor.NewConfig(appConfig), clock, fileLogger)

	return &Container{
		Clock:        clock,
		Worktrees:    worktrees,
		Executor:     exec,
		ConfigLoader: configLoader,
		Logger:       fileLogger,
		AppConfig:    appConfig,
		Paths:        paths,
		fileLogger:   fileLogger,
	}, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(paths Paths, worktrees domain.WorktreeManager, exec domain.TaskExecutor, loader domain.ConfigLoader, clock domain.Clock, logger domain.Logger) *Container {
	return &Container{
		Clock:        clock,
		Worktrees:    worktrees,
		Executor:     exec,
		ConfigLoader: loader,
		Logger:       logger,
		Paths:        paths,
	}
}

// Close releases resources held by the container.
func (c *Container) Close() error {
	if c.fileLogger != nil {
		return c.fileLogger.Close()
	}
	return nil
}

// UseCase factory methods

// CreateWorktreeUseCase returns a new CreateWorktree use case.
func (c *Container) CreateWorktreeUseCase() *usecase.CreateWorktree {
	return usecase.NewCreateWorktree(c.Worktrees, c.Logger)
}

// ListWorktreesUseCase returns a new ListWorktrees use case.
func (c *Container) ListWorktreesUseCase() *usecase.ListWorktrees {
	return usecase.NewListWorktrees(c.Worktrees)
}

// DeleteWorktreeUseCase returns a new DeleteWorktree use case.
func (c *Container) DeleteWorktreeUseCase() *usecase.DeleteWorktree {
	return usecase.NewDeleteWorktree(c.Worktrees, c.Executor, c.Logger)
}

// WorktreeStatusUseCase returns a new WorktreeStatus use case.
func (c *Container) WorktreeStatusUseCase() *usecase.WorktreeStatus {
	return usecase.NewWorktreeStatus(c.Worktrees)
}

// StartTaskUseCase returns a new StartTask use case.
func (c *Container) StartTaskUseCase() *usecase.StartTask {
	return usecase.NewStartTask(c.Worktrees, c.Executor, c.Logger)
}

// GetTaskUseCase returns a new GetTask use case.
func (c *Container) GetTaskUseCase() *usecase.GetTask {
	return usecase.NewGetTask(c.Executor)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Executor)
}

// CancelTaskUseCase returns a new CancelTask use case.
func (c *Container) CancelTaskUseCase() *usecase.CancelTask {
	return usecase.NewCancelTask(c.Executor, c.Logger)
}

// SweepTasksUseCase returns a new SweepTasks use case.
func (c *Container) SweepTasksUseCase() *usecase.SweepTasks {
	return usecase.NewSweepTasks(c.Executor, c.Logger)
}

// BatchTasksUseCase returns a new BatchTasks use case.
func (c *Container) BatchTasksUseCase() *usecase.BatchTasks {
	return usecase.NewBatchTasks(c.Worktrees, c.Executor, c.Logger)
}

// AnalyzeOverlapsUseCase returns a new AnalyzeOverlaps use case.
func (c *Container) AnalyzeOverlapsUseCase() *usecase.AnalyzeOverlaps {
	return usecase.NewAnalyzeOverlaps(c.Worktrees, c.Logger)
}

// AnalyzeDependenciesUseCase returns a new AnalyzeDependencies use case.
func (c *Container) AnalyzeDependenciesUseCase() *usecase.AnalyzeDependencies {
	return usecase.NewAnalyzeDependencies(c.Paths.RepoRoot)
}
