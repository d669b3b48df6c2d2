package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/flotilla-dev/flotilla/internal/app"
	"github.com/flotilla-dev/flotilla/internal/domain"
	"github.com/flotilla-dev/flotilla/internal/usecase"
)

// newWorktreeCommand creates the worktree command group.
func newWorktreeCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worktree",
		Short: "Manage per-task git worktrees",
	}
	cmd.AddCommand(
		newWorktreeCreateCommand(c),
		newWorktreeListCommand(c),
		newWorktreeDeleteCommand(c),
		newWorktreeStatusCommand(c),
	)
	return cmd
}

// newWorktreeCreateCommand creates the worktree create command.
func newWorktreeCreateCommand(c *app.Container) *cobra.Command {
	var branch string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a worktree with its own branch",
		Long: `Create an isolated worktree under the repository's worktrees directory.

The branch is created from the current HEAD if it does not exist yet.
Without --branch, the branch is named after the worktree.

Examples:
  # Worktree and branch both named feature-auth
  flotilla worktree create feature-auth

  # Worktree feature-auth on branch feat/oauth
  flotilla worktree create feature-auth --branch feat/oauth`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.CreateWorktreeUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.CreateWorktreeInput{
				Name:   args[0],
				Branch: branch,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created worktree %q on branch %q at %s\n",
				out.Worktree.Name, out.Worktree.Branch, out.Worktree.Path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&branch, "branch", "b", "", "Branch to check out (default: worktree name)")
	return cmd
}

// newWorktreeListCommand creates the worktree list command.
func newWorktreeListCommand(c *app.Container) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered worktrees",
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.ListWorktreesUseCase()
			out, err := uc.Execute(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), out.Worktrees)
			}
			printWorktreeList(cmd.OutOrStdout(), out.Worktrees)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

// newWorktreeDeleteCommand creates the worktree delete command.
func newWorktreeDeleteCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a worktree and prune its registration",
		Long: `Delete the worktree directory and prune its git registration.

Fails if an agent task is still running in the worktree; cancel the
task first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.DeleteWorktreeUseCase()
			if err := uc.Execute(cmd.Context(), usecase.DeleteWorktreeInput{Name: args[0]}); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted worktree %q\n", args[0])
			return nil
		},
	}
	return cmd
}

// newWorktreeStatusCommand creates the worktree status command.
func newWorktreeStatusCommand(c *app.Container) *cobra.Command {
	var filesOnly bool

	cmd := &cobra.Command{
		Use:   "status <name>",
		Short: "Show a worktree's changed paths",
		Long: `Show every changed path in the worktree, classified by its
working-tree and index state.

With --files, print only the bare paths relevant to overlap detection
(new and modified files, unstaged or staged).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.WorktreeStatusUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.WorktreeStatusInput{
				Name:          args[0],
				ModifiedFiles: filesOnly,
			})
			if err != nil {
				return err
			}

			if len(out.Lines) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "clean")
				return nil
			}
			for _, line := range out.Lines {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&filesOnly, "files", false, "Print only modified file paths")
	return cmd
}

// printWorktreeList prints worktrees in tabular format.
func printWorktreeList(w io.Writer, worktrees []domain.Worktree) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "NAME\tBRANCH\tSTATUS\tLAST ACTIVITY\tPATH")
	for _, wt := range worktrees {
		activity := "-"
		if !wt.LastActivity.IsZero() {
			activity = wt.LastActivity.Local().Format("2006-01-02 15:04")
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			wt.Name, wt.Branch, wt.Status, activity, wt.Path)
	}
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
