package usecase

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flotilla-dev/flotilla/internal/domain"
	"github.com/flotilla-dev/flotilla/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// overlapFixture wires a MockWorktreeManager whose worktrees are real
// temp directories, so stat and line counting operate on disk.
type overlapFixture struct {
	wm *testutil.MockWorktreeManager
	t  *testing.T
}

func newOverlapFixture(t *testing.T) *overlapFixture {
	return &overlapFixture{wm: testutil.NewMockWorktreeManager(), t: t}
}

func (f *overlapFixture) addWorktree(name string, files map[string]int) {
	f.t.Helper()
	dir := f.t.TempDir()
	f.wm.Worktrees = append(f.wm.Worktrees, domain.Worktree{Name: name, Path: dir})

	for file, lines := range files {
		full := filepath.Join(dir, file)
		require.NoError(f.t, os.MkdirAll(filepath.Dir(full), 0o750))
		content := strings.Repeat("line\n", lines)
		require.NoError(f.t, os.WriteFile(full, []byte(content), 0o600))
		f.wm.Modified[name] = append(f.wm.Modified[name], file)
	}
}

func TestAnalyzeOverlaps_NoOverlap(t *testing.T) {
	f := newOverlapFixture(t)
	f.addWorktree("alpha", map[string]int{"a.go": 10})
	f.addWorktree("beta", map[string]int{"b.go": 10})

	uc := NewAnalyzeOverlaps(f.wm, testutil.NopLogger{})
	out, err := uc.Execute(context.Background())
	require.NoError(t, err)

	report := out.Report
	assert.Equal(t, 0, report.TotalOverlaps)
	assert.Empty(t, report.Overlaps)
	assert.Equal(t, []string{
		"No file overlaps detected. All worktrees are working on separate files.",
	}, report.Recommendations)
}

func TestAnalyzeOverlaps_TwoWorktreesSameFile(t *testing.T) {
	f := newOverlapFixture(t)
	f.addWorktree("alpha", map[string]int{"shared.md": 30, "only-alpha.go": 10})
	f.addWorktree("beta", map[string]int{"shared.md": 30})

	uc := NewAnalyzeOverlaps(f.wm, testutil.NopLogger{})
	out, err := uc.Execute(context.Background())
	require.NoError(t, err)

	report := out.Report
	require.Equal(t, 1, report.TotalOverlaps)

	overlap := report.Overlaps[0]
	assert.Equal(t, "shared.md", overlap.Path)
	assert.ElementsMatch(t, []string{"alpha", "beta"}, overlap.Worktrees)
	assert.Equal(t, domain.RiskLow, overlap.Risk)
	assert.Len(t, overlap.LastModified, 2)

	// 30 lines → 3 added, 1 removed, 2 modified per worktree.
	summary := overlap.LineChanges["alpha"]
	assert.Equal(t, 3, summary.LinesAdded)
	assert.Equal(t, 1, summary.LinesRemoved)
	assert.Equal(t, 2, summary.LinesModified)

	assert.Equal(t, domain.RiskAssessment{Low: 1}, report.Risk)
}

func TestAnalyzeOverlaps_HighRiskConfigFile(t *testing.T) {
	f := newOverlapFixture(t)
	// Config extension (base 3) + >100 total changed lines (+2) +
	// 4 worktrees (+2) lands in the high tier.
	for _, name := range []string{"w1", "w2", "w3", "w4"} {
		f.addWorktree(name, map[string]int{"deploy.json": 200})
	}

	uc := NewAnalyzeOverlaps(f.wm, testutil.NopLogger{})
	out, err := uc.Execute(context.Background())
	require.NoError(t, err)

	report := out.Report
	require.Equal(t, 1, report.TotalOverlaps)
	assert.Equal(t, domain.RiskHigh, report.Overlaps[0].Risk)
	assert.Equal(t, domain.RiskAssessment{High: 1}, report.Risk)

	assert.Contains(t, report.Recommendations,
		"1 files have high conflict risk. Consider coordinating changes or merging frequently.")
	assert.Contains(t, report.Recommendations,
		"Most problematic file: deploy.json (modified in 4 worktrees)")
	assert.Contains(t, report.Recommendations,
		"Some files are being modified in 3+ worktrees. Consider designating ownership.")
}

func TestAnalyzeOverlaps_MissingFileSkipsTimestamps(t *testing.T) {
	f := newOverlapFixture(t)
	f.addWorktree("alpha", map[string]int{"gone.go": 20})
	f.addWorktree("beta", nil)
	// beta reports the file as modified but never wrote it (deleted since).
	f.wm.Modified["beta"] = append(f.wm.Modified["beta"], "gone.go")

	uc := NewAnalyzeOverlaps(f.wm, testutil.NopLogger{})
	out, err := uc.Execute(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, out.Report.TotalOverlaps)
	overlap := out.Report.Overlaps[0]
	assert.Len(t, overlap.Worktrees, 2)
	assert.Len(t, overlap.LastModified, 1)
	assert.Len(t, overlap.LineChanges, 1)
}

func TestAnalyzeOverlaps_SplitWorkSuggestion(t *testing.T) {
	f := newOverlapFixture(t)
	filesA := make(map[string]int)
	filesB := make(map[string]int)
	for _, name := range []string{"a.go", "b.go", "c.go", "d.go", "e.go", "f.go"} {
		filesA[name] = 5
		filesB[name] = 5
	}
	f.addWorktree("alpha", filesA)
	f.addWorktree("beta", filesB)

	uc := NewAnalyzeOverlaps(f.wm, testutil.NopLogger{})
	out, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, out.Report.TotalOverlaps)
	assert.Contains(t, out.Report.Recommendations,
		"Consider splitting work into smaller, more focused branches to reduce overlap.")
}

func TestAnalyzeOverlaps_OverlapsSortedByPath(t *testing.T) {
	f := newOverlapFixture(t)
	f.addWorktree("alpha", map[string]int{"z.go": 5, "a.go": 5, "m.go": 5})
	f.addWorktree("beta", map[string]int{"z.go": 5, "a.go": 5, "m.go": 5})

	uc := NewAnalyzeOverlaps(f.wm, testutil.NopLogger{})
	out, err := uc.Execute(context.Background())
	require.NoError(t, err)

	require.Len(t, out.Report.Overlaps, 3)
	assert.Equal(t, "a.go", out.Report.Overlaps[0].Path)
	assert.Equal(t, "m.go", out.Report.Overlaps[1].Path)
	assert.Equal(t, "z.go", out.Report.Overlaps[2].Path)
}

func TestAnalyzeOverlaps_MostAffectedPrefersMoreWorktrees(t *testing.T) {
	f := newOverlapFixture(t)
	// Both files are high risk; settings.json is touched by more worktrees.
	for _, name := range []string{"w1", "w2", "w3", "w4"} {
		f.addWorktree(name, map[string]int{"settings.json": 200})
	}
	for i, name := range []string{"w1", "w2", "w3"} {
		full := filepath.Join(f.wm.Worktrees[i].Path, "other.xml")
		require.NoError(t, os.WriteFile(full, []byte(strings.Repeat("x\n", 200)), 0o600))
		f.wm.Modified[name] = append(f.wm.Modified[name], "other.xml")
	}

	uc := NewAnalyzeOverlaps(f.wm, testutil.NopLogger{})
	out, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Contains(t, out.Report.Recommendations,
		"Most problematic file: settings.json (modified in 4 worktrees)")
}
