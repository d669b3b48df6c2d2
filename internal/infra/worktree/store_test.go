package worktree

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/flotilla-dev/flotilla/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRepo creates a temporary git repository with one commit.
func setupTestRepo(t *testing.T) (repoRoot, flotillaDir string) {
	t.Helper()

	tmpDir := t.TempDir()
	repoRoot = filepath.Join(tmpDir, "repo")
	flotillaDir = filepath.Join(tmpDir, "state")
	require.NoError(t, os.MkdirAll(repoRoot, 0o755))

	runGit(t, repoRoot, "init")
	runGit(t, repoRoot, "config", "user.email", "test@example.com")
	runGit(t, repoRoot, "config", "user.name", "Test User")

	readme := filepath.Join(repoRoot, "README.md")
	require.NoError(t, os.WriteFile(readme, []byte("# Test\n"), 0o644))
	runGit(t, repoRoot, "add", ".")
	runGit(t, repoRoot, "commit", "-m", "initial commit")

	return repoRoot, flotillaDir
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
}

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	repoRoot, flotillaDir := setupTestRepo(t)
	return NewStore(repoRoot, flotillaDir, domain.RealClock{}), repoRoot
}

func TestStore_Create_NewBranch(t *testing.T) {
	store, repoRoot := newTestStore(t)

	wt, err := store.Create("feature-a", "feature-a")
	require.NoError(t, err)

	assert.NotEmpty(t, wt.ID)
	assert.Equal(t, "feature-a", wt.Name)
	assert.Equal(t, "feature-a", wt.Branch)
	assert.Equal(t, filepath.Join(repoRoot, "worktrees", "feature-a"), wt.Path)
	assert.Equal(t, domain.WorktreeActive, wt.Status)
	assert.False(t, wt.CreatedAt.IsZero())
	assert.DirExists(t, wt.Path)
}

func TestStore_Create_DuplicateName(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Create("feature-a", "feature-a")
	require.NoError(t, err)

	_, err = store.Create("feature-a", "feature-b")
	assert.ErrorIs(t, err, domain.ErrWorktreeExists)
}

func TestStore_Create_InvalidName(t *testing.T) {
	store, _ := newTestStore(t)

	for _, name := range []string{"", "..", "a/b"} {
		_, err := store.Create(name, "branch")
		assert.ErrorIs(t, err, domain.ErrInvalidWorktreeName, "name %q", name)
	}
}

func TestStore_Create_UnbornHEAD(t *testing.T) {
	tmpDir := t.TempDir()
	repoRoot := filepath.Join(tmpDir, "repo")
	require.NoError(t, os.MkdirAll(repoRoot, 0o755))
	runGit(t, repoRoot, "init")

	store := NewStore(repoRoot, filepath.Join(tmpDir, "state"), domain.RealClock{})
	_, err := store.Create("feature-a", "feature-a")
	assert.ErrorIs(t, err, domain.ErrUnbornHEAD)
}

func TestStore_List(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Create("feature-a", "feature-a")
	require.NoError(t, err)
	_, err = store.Create("feature-b", "feature-b")
	require.NoError(t, err)

	worktrees, err := store.List()
	require.NoError(t, err)
	require.Len(t, worktrees, 2)

	byName := map[string]domain.Worktree{}
	for _, wt := range worktrees {
		byName[wt.Name] = wt
	}
	assert.Equal(t, "feature-a", byName["feature-a"].Branch)
	assert.Equal(t, "feature-b", byName["feature-b"].Branch)
	assert.Equal(t, domain.WorktreeActive, byName["feature-a"].Status)
}

func TestStore_List_StableIdentities(t *testing.T) {
	store, _ := newTestStore(t)

	created, err := store.Create("feature-a", "feature-a")
	require.NoError(t, err)

	first, err := store.List()
	require.NoError(t, err)
	second, err := store.List()
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, created.ID, first[0].ID)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, first[0].CreatedAt, second[0].CreatedAt)
}

func TestStore_Delete(t *testing.T) {
	store, _ := newTestStore(t)

	wt, err := store.Create("feature-a", "feature-a")
	require.NoError(t, err)

	require.NoError(t, store.Delete("feature-a"))
	assert.NoDirExists(t, wt.Path)

	worktrees, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, worktrees)
}

func TestStore_Delete_NotFound(t *testing.T) {
	store, _ := newTestStore(t)
	assert.ErrorIs(t, store.Delete("missing"), domain.ErrWorktreeNotFound)
}

func TestStore_Delete_AllowsRecreate(t *testing.T) {
	store, _ := newTestStore(t)

	first, err := store.Create("feature-a", "feature-a")
	require.NoError(t, err)
	require.NoError(t, store.Delete("feature-a"))

	second, err := store.Create("feature-a", "feature-a")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestStore_StatusAndModifiedFiles(t *testing.T) {
	store, _ := newTestStore(t)

	wt, err := store.Create("feature-a", "feature-a")
	require.NoError(t, err)

	// Untracked file plus a modification of a committed file.
	require.NoError(t, os.WriteFile(filepath.Join(wt.Path, "new.go"), []byte("package main\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(wt.Path, "README.md"), []byte("# Changed\n"), 0o644))

	status, err := store.Status("feature-a")
	require.NoError(t, err)
	assert.Contains(t, status, "new: new.go")
	assert.Contains(t, status, "modified: README.md")

	files, err := store.ModifiedFiles("feature-a")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"new.go", "README.md"}, files)
}

func TestStore_ModifiedFiles_ExcludesDeleted(t *testing.T) {
	store, _ := newTestStore(t)

	wt, err := store.Create("feature-a", "feature-a")
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(wt.Path, "README.md")))

	status, err := store.Status("feature-a")
	require.NoError(t, err)
	assert.Contains(t, status, "deleted: README.md")

	files, err := store.ModifiedFiles("feature-a")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestParseWorktreeList(t *testing.T) {
	output := `worktree /repo
HEAD 1111111111111111111111111111111111111111
branch refs/heads/main

worktree /repo/worktrees/feature-a
HEAD 2222222222222222222222222222222222222222
branch refs/heads/feature-a

worktree /repo/worktrees/feature-b
HEAD 3333333333333333333333333333333333333333
branch refs/heads/feature-b
locked agent running
`

	entries, err := parseWorktreeList(output)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "/repo", entries[0].path)
	assert.Equal(t, "main", entries[0].branch)
	assert.False(t, entries[0].locked)

	assert.Equal(t, "feature-a", entries[1].name)
	assert.Equal(t, "feature-a", entries[1].branch)

	assert.Equal(t, "feature-b", entries[2].name)
	assert.True(t, entries[2].locked)
}

func TestParseWorktreeList_Detached(t *testing.T) {
	output := `worktree /repo/worktrees/x
HEAD 2222222222222222222222222222222222222222
detached
`
	entries, err := parseWorktreeList(output)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].branch)
}
