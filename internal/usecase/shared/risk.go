// Package shared contains helpers used by multiple use cases.
package shared

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/flotilla-dev/flotilla/internal/domain"
)

// AssessConflictRisk scores a file overlap into a risk tier. The score
// combines extension-based base risk, the total changed line count across
// worktrees, and how many worktrees touch the file.
func AssessConflictRisk(path string, totalChanges, worktreeCount int) domain.RiskLevel {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")

	var base int
	switch ext {
	case "json", "yaml", "toml", "xml":
		base = 3 // Shared config files conflict the hardest
	case "md", "txt":
		base = 1
	default:
		base = 2 // Code and everything else
	}

	var changeRisk int
	switch {
	case totalChanges > 100:
		changeRisk = 2
	case totalChanges > 50:
		changeRisk = 1
	}

	var worktreeRisk int
	switch {
	case worktreeCount > 3:
		worktreeRisk = 2
	case worktreeCount > 2:
		worktreeRisk = 1
	}

	switch total := base + changeRisk + worktreeRisk; {
	case total <= 3:
		return domain.RiskLow
	case total <= 6:
		return domain.RiskMedium
	default:
		return domain.RiskHigh
	}
}

// EstimateLineChanges derives a line-change summary from a file's current
// line count. This is a heuristic placeholder for a real diff against the
// merge base; the proportions keep risk scoring deterministic.
func EstimateLineChanges(path string) (domain.LineChangeSummary, error) {
	lines, err := CountLines(path)
	if err != nil {
		return domain.LineChangeSummary{}, err
	}

	region := domain.ChangeRegion{
		Kind:      domain.ChangeModified,
		StartLine: 1,
		EndLine:   min(lines, 10),
	}
	return domain.LineChangeSummary{
		LinesAdded:    lines / 10,
		LinesRemoved:  lines / 20,
		LinesModified: lines / 15,
		Regions:       []domain.ChangeRegion{region},
	}, nil
}

// CountLines counts the lines of a file.
func CountLines(path string) (int, error) {
	f, err := os.Open(path) //nolint:gosec // Paths come from git status output
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lines := 0
	for scanner.Scan() {
		lines++
	}
	return lines, scanner.Err()
}

// ExtractDependencies scans file content for import-like declarations and
// returns the referenced module strings, in order of appearance.
func ExtractDependencies(content string) []string {
	var deps []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "import ") &&
			!strings.HasPrefix(trimmed, "use ") &&
			!strings.HasPrefix(trimmed, "require(") {
			continue
		}
		if dep, ok := extractQuoted(trimmed); ok {
			deps = append(deps, dep)
		}
	}
	return deps
}

// extractQuoted returns the first double- or single-quoted token in line.
func extractQuoted(line string) (string, bool) {
	if strings.Contains(line, `"`) {
		if parts := strings.Split(line, `"`); len(parts) >= 2 {
			return parts[1], true
		}
	}
	if strings.Contains(line, "'") {
		if parts := strings.Split(line, "'"); len(parts) >= 2 {
			return parts[1], true
		}
	}
	return "", false
}

// ImpactScore weighs a file by its dependency fan-out and size.
func ImpactScore(depCount, lineCount int) float64 {
	return float64(depCount)*0.5 + float64(lineCount)*0.1
}
