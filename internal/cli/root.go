// Package cli provides the command-line interface for flotilla.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/flotilla-dev/flotilla/internal/app"
)

// Command group IDs.
const (
	groupWorktree = "worktree"
	groupTask     = "task"
	groupAnalyze  = "analyze"
)

// NewRootCommand creates the root command for flotilla.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "flotilla",
		Short: "Parallel coding-agent orchestration over git worktrees",
		Long: `flotilla runs several autonomous coding agents against one repository
at the same time. Each task gets its own git worktree and branch, agent
processes run under a concurrency ceiling with streamed output, and the
analyze commands report which files the worktrees are about to conflict on.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
	}

	root.AddGroup(
		&cobra.Group{ID: groupWorktree, Title: "Worktree Management:"},
		&cobra.Group{ID: groupTask, Title: "Agent Tasks:"},
		&cobra.Group{ID: groupAnalyze, Title: "Conflict Analysis:"},
	)

	worktreeCmd := newWorktreeCommand(c)
	worktreeCmd.GroupID = groupWorktree

	taskCmd := newTaskCommand(c)
	taskCmd.GroupID = groupTask

	analyzeCmd := newAnalyzeCommand(c)
	analyzeCmd.GroupID = groupAnalyze

	root.AddCommand(worktreeCmd, taskCmd, analyzeCmd)
	return root
}
