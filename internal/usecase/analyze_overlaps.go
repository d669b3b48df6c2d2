package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/flotilla-dev/flotilla/internal/domain"
	"github.com/flotilla-dev/flotilla/internal/usecase/shared"
)

// AnalyzeOverlapsOutput contains the cross-worktree overlap report.
type AnalyzeOverlapsOutput struct {
	Report *domain.OverlapReport
}

// AnalyzeOverlaps is the use case for detecting files modified by more
// than one worktree and scoring their conflict risk.
type AnalyzeOverlaps struct {
	worktrees domain.WorktreeManager
	logger    domain.Logger
}

// NewAnalyzeOverlaps creates a new AnalyzeOverlaps use case.
func NewAnalyzeOverlaps(worktrees domain.WorktreeManager, logger domain.Logger) *AnalyzeOverlaps {
	return &AnalyzeOverlaps{
		worktrees: worktrees,
		logger:    logger,
	}
}

// Execute computes a fresh overlap report across all worktrees.
func (uc *AnalyzeOverlaps) Execute(_ context.Context) (*AnalyzeOverlapsOutput, error) {
	wts, err := uc.worktrees.List()
	if err != nil {
		return nil, fmt.Errorf("list worktrees: %w", err)
	}

	paths := make(map[string]string, len(wts)) // worktree name → path
	touched := make(map[string][]string)       // file path → worktree names
	for _, wt := range wts {
		paths[wt.Name] = wt.Path

		files, err := uc.worktrees.ModifiedFiles(wt.Name)
		if err != nil {
			return nil, fmt.Errorf("modified files of %q: %w", wt.Name, err)
		}
		for _, file := range files {
			touched[file] = append(touched[file], wt.Name)
		}
	}

	var overlaps []domain.FileOverlap
	for file, names := range touched {
		if len(names) < 2 {
			continue
		}
		overlaps = append(overlaps, uc.analyzeFile(file, names, paths))
	}
	sort.Slice(overlaps, func(i, j int) bool { return overlaps[i].Path < overlaps[j].Path })

	report := &domain.OverlapReport{
		Overlaps:      overlaps,
		TotalOverlaps: len(overlaps),
	}
	for _, o := range overlaps {
		switch o.Risk {
		case domain.RiskLow:
			report.Risk.Low++
		case domain.RiskMedium:
			report.Risk.Medium++
		case domain.RiskHigh:
			report.Risk.High++
		}
	}
	report.Recommendations = recommendations(overlaps)

	if uc.logger != nil {
		uc.logger.Info("", "analyze", fmt.Sprintf("found %d overlapping files across %d worktrees",
			report.TotalOverlaps, len(wts)))
	}
	return &AnalyzeOverlapsOutput{Report: report}, nil
}

// analyzeFile builds the per-file overlap record. Worktrees where the
// file no longer exists on disk contribute no timestamp or line summary
// but still count toward the risk score.
func (uc *AnalyzeOverlaps) analyzeFile(file string, names []string, paths map[string]string) domain.FileOverlap {
	overlap := domain.FileOverlap{
		Path:         file,
		Worktrees:    names,
		LastModified: make(map[string]time.Time),
		LineChanges:  make(map[string]domain.LineChangeSummary),
	}

	totalChanges := 0
	for _, name := range names {
		full := filepath.Join(paths[name], file)

		info, err := os.Stat(full)
		if err != nil {
			continue
		}
		overlap.LastModified[name] = info.ModTime().UTC()

		summary, err := shared.EstimateLineChanges(full)
		if err != nil {
			continue
		}
		overlap.LineChanges[name] = summary
		totalChanges += summary.Total()
	}

	overlap.Risk = shared.AssessConflictRisk(file, totalChanges, len(names))
	return overlap
}

// recommendations derives the ordered advice list from the overlap set.
func recommendations(overlaps []domain.FileOverlap) []string {
	if len(overlaps) == 0 {
		return []string{"No file overlaps detected. All worktrees are working on separate files."}
	}

	var recs []string
	high := 0
	medium := 0
	for _, o := range overlaps {
		switch o.Risk {
		case domain.RiskHigh:
			high++
		case domain.RiskMedium:
			medium++
		case domain.RiskLow:
		}
	}

	if high > 0 {
		recs = append(recs, fmt.Sprintf(
			"%d files have high conflict risk. Consider coordinating changes or merging frequently.", high))
	}
	if medium > 0 {
		recs = append(recs, fmt.Sprintf(
			"%d files have medium conflict risk. Review changes before merging.", medium))
	}

	if worst := mostAffectedHighRisk(overlaps); worst != nil {
		recs = append(recs, fmt.Sprintf(
			"Most problematic file: %s (modified in %d worktrees)", worst.Path, len(worst.Worktrees)))
	}

	if len(overlaps) > 5 {
		recs = append(recs,
			"Consider splitting work into smaller, more focused branches to reduce overlap.")
	}

	for _, o := range overlaps {
		if len(o.Worktrees) > 3 {
			recs = append(recs,
				"Some files are being modified in 3+ worktrees. Consider designating ownership.")
			break
		}
	}
	return recs
}

// mostAffectedHighRisk returns the high-risk overlap touched by the most
// worktrees, or nil when there is none. Ties resolve to the first seen.
func mostAffectedHighRisk(overlaps []domain.FileOverlap) *domain.FileOverlap {
	var worst *domain.FileOverlap
	for i := range overlaps {
		o := &overlaps[i]
		if o.Risk != domain.RiskHigh {
			continue
		}
		if worst == nil || len(o.Worktrees) > len(worst.Worktrees) {
			worst = o
		}
	}
	return worst
}
