package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flotilla-dev/flotilla/internal/app"
	"github.com/flotilla-dev/flotilla/internal/domain"
	"github.com/flotilla-dev/flotilla/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeOverlapsCommand_NoOverlaps(t *testing.T) {
	wm := testutil.NewMockWorktreeManager()
	wm.Worktrees = []domain.Worktree{
		{Name: "alpha", Path: t.TempDir()},
		{Name: "beta", Path: t.TempDir()},
	}
	container := newTestContainer(wm, testutil.NewMockTaskExecutor())

	cmd := newAnalyzeOverlapsCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	require.NoError(t, cmd.Execute())
	out := buf.String()
	assert.Contains(t, out, "0 overlapping files")
	assert.Contains(t, out, "No file overlaps detected")
}

func TestAnalyzeOverlapsCommand_ReportsOverlap(t *testing.T) {
	wm := testutil.NewMockWorktreeManager()
	for _, name := range []string{"alpha", "beta"} {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "shared.go"),
			[]byte(strings.Repeat("x\n", 20)), 0o600))
		wm.Worktrees = append(wm.Worktrees, domain.Worktree{Name: name, Path: dir})
		wm.Modified[name] = []string{"shared.go"}
	}
	container := newTestContainer(wm, testutil.NewMockTaskExecutor())

	cmd := newAnalyzeOverlapsCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	require.NoError(t, cmd.Execute())
	out := buf.String()
	assert.Contains(t, out, "1 overlapping files")
	assert.Contains(t, out, "shared.go")
	assert.Contains(t, out, "alpha,beta")
}

func TestAnalyzeOverlapsCommand_JSON(t *testing.T) {
	wm := testutil.NewMockWorktreeManager()
	container := newTestContainer(wm, testutil.NewMockTaskExecutor())

	cmd := newAnalyzeOverlapsCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--json"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), `"totalOverlaps": 0`)
}

func TestAnalyzeDepsCommand(t *testing.T) {
	repoRoot := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(repoRoot, "main.go"),
		[]byte("import \"fmt\"\nimport \"os\"\n"), 0o600))

	container := app.NewWithDeps(
		app.Paths{RepoRoot: repoRoot},
		testutil.NewMockWorktreeManager(),
		testutil.NewMockTaskExecutor(),
		testutil.NewMockConfigLoader(),
		domain.RealClock{},
		testutil.NopLogger{},
	)

	cmd := newAnalyzeDepsCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"main.go"})

	require.NoError(t, cmd.Execute())
	out := buf.String()
	assert.Contains(t, out, "main.go")
	assert.Contains(t, out, "fmt, os")
}

func TestAnalyzeDepsCommand_JSON(t *testing.T) {
	repoRoot := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(repoRoot, "a.go"),
		[]byte("import \"strings\"\n"), 0o600))

	container := app.NewWithDeps(
		app.Paths{RepoRoot: repoRoot},
		testutil.NewMockWorktreeManager(),
		testutil.NewMockTaskExecutor(),
		testutil.NewMockConfigLoader(),
		domain.RealClock{},
		testutil.NopLogger{},
	)

	cmd := newAnalyzeDepsCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"a.go", "--json"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), `"impactScore"`)
	assert.Contains(t, buf.String(), `"strings"`)
}

func TestRootCommand_HasCommandGroups(t *testing.T) {
	container := newTestContainer(testutil.NewMockWorktreeManager(), testutil.NewMockTaskExecutor())

	root := NewRootCommand(container, "test")
	assert.True(t, root.SilenceUsage)
	assert.True(t, root.SilenceErrors)

	names := make([]string, 0)
	for _, sub := range root.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "worktree")
	assert.Contains(t, names, "task")
	assert.Contains(t, names, "analyze")
}
