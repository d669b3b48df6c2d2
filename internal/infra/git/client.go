// Package git locates the repository a command operates on.
package git

import (
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/flotilla-dev/flotilla/internal/domain"
)

// Client describes the detected repository layout.
type Client struct {
	repoRoot   string // Main repository root (parent of .git)
	gitDir     string // Common .git directory
	workingDir string // Toplevel of the current worktree
}

// NewClient creates a new git client by detecting the repository root from
// the given directory. It works both in the main repository and inside a
// linked worktree.
func NewClient(dir string) (*Client, error) {
	repoRoot, gitDir, workingDir, err := findGitRoot(dir)
	if err != nil {
		return nil, err
	}
	return &Client{
		repoRoot:   repoRoot,
		gitDir:     gitDir,
		workingDir: workingDir,
	}, nil
}

// RepoRoot returns the repository root directory.
func (c *Client) RepoRoot() string {
	return c.repoRoot
}

// GitDir returns the common .git directory path.
func (c *Client) GitDir() string {
	return c.gitDir
}

// WorkingDir returns the toplevel of the worktree dir was inside.
func (c *Client) WorkingDir() string {
	return c.workingDir
}

// findGitRoot resolves the main repository root, the common .git directory
// and the current worktree toplevel for dir.
func findGitRoot(dir string) (repoRoot, gitDir, workingDir string, err error) {
	cmd := exec.Command("git", "rev-parse", "--git-common-dir")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", "", "", domain.ErrNotGitRepository
	}
	gitDir = strings.TrimSpace(string(out))

	cmd = exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = dir
	toplevel, err := cmd.Output()
	if err != nil {
		return "", "", "", domain.ErrNotGitRepository
	}
	workingDir = strings.TrimSpace(string(toplevel))

	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(dir, gitDir)
	}
	gitDir = filepath.Clean(gitDir)

	// repoRoot is the parent of the common .git directory, which is the
	// main repository even when dir is inside a linked worktree.
	repoRoot = filepath.Dir(gitDir)

	return repoRoot, gitDir, workingDir, nil
}
