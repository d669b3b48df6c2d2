package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/flotilla-dev/flotilla/internal/app"
	"github.com/flotilla-dev/flotilla/internal/domain"
	"github.com/flotilla-dev/flotilla/internal/usecase"
)

// Risk tier styles for the overlap report.
var (
	styleRiskLow    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	styleRiskMedium = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow
	styleRiskHigh   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	styleHeading    = lipgloss.NewStyle().Bold(true)
)

// newAnalyzeCommand creates the analyze command group.
func newAnalyzeCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Detect cross-worktree conflicts before merging",
	}
	cmd.AddCommand(
		newAnalyzeOverlapsCommand(c),
		newAnalyzeDepsCommand(c),
	)
	return cmd
}

// newAnalyzeOverlapsCommand creates the analyze overlaps command.
func newAnalyzeOverlapsCommand(c *app.Container) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "overlaps",
		Short: "Report files modified by more than one worktree",
		Long: `Scan every worktree's modified files, group files touched by two or
more worktrees, and score each overlap's conflict risk (low, medium,
high) from its file type, change volume and worktree count.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.AnalyzeOverlapsUseCase()
			out, err := uc.Execute(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), out.Report)
			}
			printOverlapReport(cmd.OutOrStdout(), out.Report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

// newAnalyzeDepsCommand creates the analyze deps command.
func newAnalyzeDepsCommand(c *app.Container) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "deps <path>...",
		Short: "Probe files for declared imports and impact",
		Long: `Extract import-like declarations from the given files (paths relative
to the repository root) and compute a naive impact score from the
dependency count and file size. Unreadable paths are skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.AnalyzeDependenciesUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.AnalyzeDependenciesInput{Paths: args})
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), out.Records)
			}
			printDependencyRecords(cmd.OutOrStdout(), out.Records)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

// printOverlapReport renders the overlap report for terminals.
func printOverlapReport(w io.Writer, report *domain.OverlapReport) {
	_, _ = fmt.Fprintln(w, styleHeading.Render(fmt.Sprintf("%d overlapping files", report.TotalOverlaps)))
	_, _ = fmt.Fprintf(w, "Risk: %s %s %s\n\n",
		styleRiskHigh.Render(fmt.Sprintf("%d high", report.Risk.High)),
		styleRiskMedium.Render(fmt.Sprintf("%d medium", report.Risk.Medium)),
		styleRiskLow.Render(fmt.Sprintf("%d low", report.Risk.Low)),
	)

	if len(report.Overlaps) > 0 {
		tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintln(tw, "RISK\tFILE\tWORKTREES\tCHANGED LINES")
		for _, overlap := range report.Overlaps {
			total := 0
			for _, summary := range overlap.LineChanges {
				total += summary.Total()
			}
			names := append([]string{}, overlap.Worktrees...)
			sort.Strings(names)
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n",
				renderRisk(overlap.Risk), overlap.Path, strings.Join(names, ","), total)
		}
		_ = tw.Flush()
		_, _ = fmt.Fprintln(w)
	}

	for _, rec := range report.Recommendations {
		_, _ = fmt.Fprintf(w, "- %s\n", rec)
	}
}

// renderRisk colors a risk level for terminal output.
func renderRisk(risk domain.RiskLevel) string {
	switch risk {
	case domain.RiskHigh:
		return styleRiskHigh.Render(string(risk))
	case domain.RiskMedium:
		return styleRiskMedium.Render(string(risk))
	default:
		return styleRiskLow.Render(string(risk))
	}
}

// printDependencyRecords renders dependency probe results.
func printDependencyRecords(w io.Writer, records []domain.DependencyRecord) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "FILE\tIMPACT\tDEPENDENCIES")
	for _, record := range records {
		deps := "-"
		if len(record.Dependencies) > 0 {
			deps = strings.Join(record.Dependencies, ", ")
		}
		_, _ = fmt.Fprintf(tw, "%s\t%.1f\t%s\n", record.Path, record.ImpactScore, deps)
	}
}
