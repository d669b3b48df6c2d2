package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/flotilla-dev/flotilla/internal/app"
	"github.com/flotilla-dev/flotilla/internal/domain"
	"github.com/flotilla-dev/flotilla/internal/usecase"
)

// newTaskCommand creates the task command group.
func newTaskCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Run and supervise agent tasks",
	}
	cmd.AddCommand(
		newTaskStartCommand(c),
		newTaskListCommand(c),
		newTaskShowCommand(c),
		newTaskCancelCommand(c),
		newTaskSweepCommand(c),
		newTaskBatchCommand(c),
	)
	return cmd
}

// newTaskStartCommand creates the task start command.
func newTaskStartCommand(c *app.Container) *cobra.Command {
	var workingDir string

	cmd := &cobra.Command{
		Use:   "start <worktree> <description>",
		Short: "Start an agent task in a worktree",
		Long: `Launch the configured agent with the given task description, running
inside the worktree's directory. The task id is printed immediately;
use 'flotilla task show' to follow output.

Rejected when the concurrent-task ceiling (tasks.max_concurrent) is
already reached.

Examples:
  flotilla task start feature-auth "implement OAuth login flow"
  flotilla task start feature-api "add pagination" --dir worktrees/feature-api/server`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.StartTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.StartTaskInput{
				WorktreeName: args[0],
				Description:  args[1],
				WorkingDir:   workingDir,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Started task %s\n", out.TaskID)
			return nil
		},
	}

	cmd.Flags().StringVar(&workingDir, "dir", "", "Working directory override (default: worktree path)")
	return cmd
}

// newTaskListCommand creates the task list command.
func newTaskListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Worktree string
		Active   bool
		JSON     bool
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List agent tasks",
		Long: `Display tracked tasks, oldest first.

Terminal task records are kept for an hour after completion and then
swept; see 'flotilla task sweep'.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.ListTasksUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ListTasksInput{
				WorktreeName: opts.Worktree,
				ActiveOnly:   opts.Active,
			})
			if err != nil {
				return err
			}

			if opts.JSON {
				return printJSON(cmd.OutOrStdout(), out.Tasks)
			}
			printTaskList(cmd.OutOrStdout(), out.Tasks, c.Clock)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Worktree, "worktree", "w", "", "Show only tasks of this worktree")
	cmd.Flags().BoolVarP(&opts.Active, "active", "a", false, "Show only pending and running tasks")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output as JSON")
	return cmd
}

// newTaskShowCommand creates the task show command.
func newTaskShowCommand(c *app.Container) *cobra.Command {
	var opts struct {
		JSON bool
		Tail int
	}

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task with its output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.GetTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.GetTaskInput{TaskID: args[0]})
			if err != nil {
				return err
			}

			if opts.JSON {
				return printJSON(cmd.OutOrStdout(), out.Task)
			}
			printTask(cmd.OutOrStdout(), out.Task, opts.Tail)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output as JSON")
	cmd.Flags().IntVar(&opts.Tail, "tail", 0, "Show only the last N output lines")
	return cmd
}

// newTaskCancelCommand creates the task cancel command.
func newTaskCancelCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a task and kill its agent process",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.CancelTaskUseCase()
			if err := uc.Execute(cmd.Context(), usecase.CancelTaskInput{TaskID: args[0]}); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cancelled task %s\n", args[0])
			return nil
		},
	}
	return cmd
}

// newTaskSweepCommand creates the task sweep command.
func newTaskSweepCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Remove finished task records past the retention window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.SweepTasksUseCase()
			out, err := uc.Execute(cmd.Context())
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d task records\n", out.Removed)
			return nil
		},
	}
	return cmd
}

// newTaskBatchCommand creates the task batch command.
func newTaskBatchCommand(c *app.Container) *cobra.Command {
	var opts struct {
		From            string
		CreateWorktrees bool
	}

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Start several tasks from a YAML manifest",
		Long: `Start one agent task per manifest entry. Entries that fail (unknown
worktree, capacity reached) are reported individually and do not stop
the rest.

Manifest format:
  tasks:
    - worktree: feature-auth
      branch: feat/oauth     # used with --create-worktrees
      description: implement OAuth login
    - worktree: feature-api
      description: add pagination

Examples:
  flotilla task batch --from tasks.yaml
  flotilla task batch --from tasks.yaml --create-worktrees`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			content, err := os.ReadFile(opts.From)
			if err != nil {
				return fmt.Errorf("read manifest: %w", err)
			}

			uc := c.BatchTasksUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.BatchTasksInput{
				Content:         content,
				CreateWorktrees: opts.CreateWorktrees,
			})
			if err != nil {
				return err
			}

			for _, result := range out.Results {
				if result.Err != nil {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: error: %v\n", result.Worktree, result.Err)
				} else {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: started task %s\n", result.Worktree, result.TaskID)
				}
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Started %d of %d tasks\n", out.Started, len(out.Results))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "YAML manifest file (required)")
	cmd.Flags().BoolVar(&opts.CreateWorktrees, "create-worktrees", false, "Create worktrees named in the manifest if missing")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}

// printTaskList prints tasks in tabular format.
func printTaskList(w io.Writer, tasks []*domain.AgentTask, clock domain.Clock) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "ID\tWORKTREE\tSTATUS\tDESCRIPTION")
	for _, task := range tasks {
		statusStr := task.Status.Display()
		if task.Status == domain.StatusRunning {
			elapsed := clock.Now().Sub(task.StartedAt)
			statusStr = fmt.Sprintf("%s (%s)", statusStr, formatDuration(elapsed))
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			task.ID, task.WorktreeName, statusStr, truncate(task.Description, 60))
	}
}

// printTask prints one task with its captured output.
func printTask(w io.Writer, task *domain.AgentTask, tail int) {
	_, _ = fmt.Fprintf(w, "Task:        %s\n", task.ID)
	_, _ = fmt.Fprintf(w, "Worktree:    %s\n", task.WorktreeName)
	_, _ = fmt.Fprintf(w, "Status:      %s\n", task.Status.Display())
	_, _ = fmt.Fprintf(w, "Started:     %s\n", task.StartedAt.Local().Format(time.RFC3339))
	if task.CompletedAt != nil {
		_, _ = fmt.Fprintf(w, "Completed:   %s\n", task.CompletedAt.Local().Format(time.RFC3339))
	}
	_, _ = fmt.Fprintf(w, "Description: %s\n", task.Description)

	output := task.Output
	if tail > 0 && len(output) > tail {
		output = output[len(output)-tail:]
	}
	if len(output) > 0 {
		_, _ = fmt.Fprintln(w, "\nOutput:")
		for _, line := range output {
			_, _ = fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

// formatDuration renders d as a compact human-readable string.
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Hour:
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	case d >= time.Minute:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(strings.ReplaceAll(s, "\n", " "))
	if len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n-1]) + "…"
}
