// Package worktree manages the repository's isolated working copies.
package worktree

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/flotilla-dev/flotilla/internal/domain"
)

// Store creates, enumerates and removes worktrees under
// <repoRoot>/worktrees. Branch bookkeeping goes through go-git; worktree
// registration shells out to git, which owns that metadata.
type Store struct {
	repoRoot string
	ids      *idStore
	clock    domain.Clock
}

// NewStore creates a worktree store for the repository at repoRoot.
// flotillaDir is the per-repo state directory holding the identity
// side-store.
func NewStore(repoRoot, flotillaDir string, clock domain.Clock) *Store {
	return &Store{
		repoRoot: repoRoot,
		ids:      newIDStore(domain.WorktreeIDsPath(flotillaDir), clock),
		clock:    clock,
	}
}

// Ensure Store implements domain.WorktreeManager.
var _ domain.WorktreeManager = (*Store)(nil)

// Create allocates the worktree directory, ensures branch exists (creating
// it from HEAD if needed) and registers the worktree with the repository.
func (s *Store) Create(name, branch string) (*domain.Worktree, error) {
	if err := domain.ValidateWorktreeName(name); err != nil {
		return nil, err
	}

	path := domain.WorktreePath(s.repoRoot, name)
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("worktree %q: %w", name, domain.ErrWorktreeExists)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("check worktree directory: %w", err)
	}

	if err := os.MkdirAll(domain.WorktreesDir(s.repoRoot), 0o750); err != nil {
		return nil, fmt.Errorf("create worktrees directory: %w", err)
	}

	if err := s.ensureBranch(branch); err != nil {
		return nil, err
	}

	if err := s.addWorktree(path, branch); err != nil {
		return nil, err
	}

	rec, err := s.ids.ensure(name)
	if err != nil {
		return nil, fmt.Errorf("record worktree identity: %w", err)
	}

	return &domain.Worktree{
		ID:           rec.ID,
		Name:         name,
		Branch:       branch,
		Path:         path,
		Status:       domain.WorktreeActive,
		CreatedAt:    rec.CreatedAt,
		LastActivity: rec.CreatedAt,
	}, nil
}

// ensureBranch creates branch from the current HEAD commit when it does not
// exist yet.
func (s *Store) ensureBranch(branch string) error {
	repo, err := gogit.PlainOpen(s.repoRoot)
	if err != nil {
		return fmt.Errorf("open repository: %w", err)
	}

	ref := plumbing.NewBranchReferenceName(branch)
	if _, err := repo.Reference(ref, true); err == nil {
		return nil
	} else if !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return fmt.Errorf("resolve branch %q: %w", branch, err)
	}

	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return domain.ErrUnbornHEAD
		}
		return fmt.Errorf("resolve HEAD: %w", err)
	}

	if err := repo.Storer.SetReference(plumbing.NewHashReference(ref, head.Hash())); err != nil {
		return fmt.Errorf("create branch %q: %w", branch, err)
	}
	return nil
}

// addWorktree registers the worktree directory with git. A stale
// registration from an earlier removal is pruned and the add is retried.
func (s *Store) addWorktree(path, branch string) error {
	args := []string{"worktree", "add", path, branch}
	cmd := exec.Command("git", args...)
	cmd.Dir = s.repoRoot
	out, err := cmd.CombinedOutput()
	if err == nil {
		return nil
	}

	if strings.Contains(string(out), "already registered") {
		if pruneErr := s.pruneRegistrations(); pruneErr != nil {
			return pruneErr
		}
		cmd = exec.Command("git", args...)
		cmd.Dir = s.repoRoot
		if out, err = cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("register worktree after prune: %w: %s", err, string(out))
		}
		return nil
	}

	return fmt.Errorf("register worktree: %w: %s", err, string(out))
}

// List enumerates every registered worktree. Each worktree is opened as an
// independent repository to resolve its current branch; entries that cannot
// be opened are skipped.
func (s *Store) List() ([]domain.Worktree, error) {
	entries, err := s.registered()
	if err != nil {
		return nil, err
	}

	worktrees := make([]domain.Worktree, 0, len(entries))
	for _, e := range entries {
		rec, err := s.ids.ensure(e.name)
		if err != nil {
			continue
		}

		status := domain.WorktreeActive
		if e.locked {
			status = domain.WorktreeLocked
		}

		lastActivity := rec.CreatedAt
		if fi, statErr := os.Stat(e.path); statErr == nil {
			lastActivity = fi.ModTime()
		}

		worktrees = append(worktrees, domain.Worktree{
			ID:           rec.ID,
			Name:         e.name,
			Branch:       s.resolveBranch(e.path),
			Path:         e.path,
			Status:       status,
			CreatedAt:    rec.CreatedAt,
			LastActivity: lastActivity,
		})
	}
	return worktrees, nil
}

// resolveBranch opens the worktree as its own repository and reads the
// checked-out branch. Detached or unreadable worktrees report "unknown".
func (s *Store) resolveBranch(path string) string {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return "unknown"
	}
	head, err := repo.Head()
	if err != nil || !head.Name().IsBranch() {
		return "unknown"
	}
	return head.Name().Short()
}

// Delete removes the worktree's directory tree and prunes its registration.
// Callers must guarantee no agent task is still running in the worktree.
func (s *Store) Delete(name string) error {
	path, err := s.resolvePath(name)
	if err != nil {
		return err
	}

	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("remove worktree directory: %w", err)
	}
	if err := s.pruneRegistrations(); err != nil {
		return err
	}
	s.ids.drop(name)
	return nil
}

// Status classifies every changed path of the worktree by its
// working-tree and index state.
func (s *Store) Status(name string) ([]string, error) {
	status, err := s.worktreeStatus(name)
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(status))
	for _, path := range sortedPaths(status) {
		fs := status[path]
		// go-git's StatusCode cannot represent type changes
		// (file<->symlink); those classify as "unknown:".
		switch {
		case fs.Worktree == gogit.Untracked:
			lines = append(lines, "new: "+path)
		case fs.Worktree == gogit.Modified:
			lines = append(lines, "modified: "+path)
		case fs.Worktree == gogit.Deleted:
			lines = append(lines, "deleted: "+path)
		case fs.Worktree == gogit.Renamed:
			lines = append(lines, "renamed: "+path)
		case fs.Staging == gogit.Added:
			lines = append(lines, "staged new: "+path)
		case fs.Staging == gogit.Modified:
			lines = append(lines, "staged modified: "+path)
		case fs.Staging == gogit.Deleted:
			lines = append(lines, "staged deleted: "+path)
		default:
			lines = append(lines, "unknown: "+path)
		}
	}
	return lines, nil
}

// ModifiedFiles returns the subset of changed paths relevant to overlap
// detection: working-tree new/modified and index new/modified.
func (s *Store) ModifiedFiles(name string) ([]string, error) {
	status, err := s.worktreeStatus(name)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(status))
	for _, path := range sortedPaths(status) {
		fs := status[path]
		if fs.Worktree == gogit.Untracked || fs.Worktree == gogit.Modified ||
			fs.Staging == gogit.Added || fs.Staging == gogit.Modified {
			files = append(files, path)
		}
	}
	return files, nil
}

// worktreeStatus opens the named worktree as an independent repository and
// returns its full status.
func (s *Store) worktreeStatus(name string) (gogit.Status, error) {
	path, err := s.resolvePath(name)
	if err != nil {
		return nil, err
	}

	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("open worktree %q: %w", name, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("worktree %q: %w", name, err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("status of worktree %q: %w", name, err)
	}
	return status, nil
}

// resolvePath finds the registered path of a named worktree.
func (s *Store) resolvePath(name string) (string, error) {
	entries, err := s.registered()
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.name == name {
			return e.path, nil
		}
	}
	return "", fmt.Errorf("worktree %q: %w", name, domain.ErrWorktreeNotFound)
}

// pruneRegistrations drops stale worktree registrations.
func (s *Store) pruneRegistrations() error {
	cmd := exec.Command("git", "worktree", "prune")
	cmd.Dir = s.repoRoot
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("prune worktrees: %w: %s", err, string(out))
	}
	return nil
}

// entry is one parsed worktree registration.
type entry struct {
	path   string
	name   string
	branch string
	locked bool
}

// registered lists the linked worktrees known to git, excluding the main
// working tree.
func (s *Store) registered() ([]entry, error) {
	cmd := exec.Command("git", "worktree", "list", "--porcelain")
	cmd.Dir = s.repoRoot
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("list worktrees: %w", err)
	}

	entries, err := parseWorktreeList(string(out))
	if err != nil {
		return nil, err
	}

	// The porcelain output includes the main working tree; only linked
	// worktrees are managed here.
	linked := entries[:0]
	for _, e := range entries {
		if e.path == s.repoRoot {
			continue
		}
		linked = append(linked, e)
	}
	return linked, nil
}

// parseWorktreeList parses the porcelain output of git worktree list.
// Format:
//
//	worktree /path/to/worktree
//	HEAD abc123
//	branch refs/heads/branch-name
//	locked <reason>       (optional)
//	<blank line>
func parseWorktreeList(output string) ([]entry, error) {
	var entries []entry
	var current entry

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "worktree "):
			current.path = strings.TrimPrefix(line, "worktree ")
			current.name = filepath.Base(current.path)
		case strings.HasPrefix(line, "branch "):
			ref := strings.TrimPrefix(line, "branch ")
			current.branch = strings.TrimPrefix(ref, "refs/heads/")
		case line == "locked" || strings.HasPrefix(line, "locked "):
			current.locked = true
		case line == "":
			if current.path != "" {
				entries = append(entries, current)
			}
			current = entry{}
		}
	}
	if current.path != "" {
		entries = append(entries, current)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("parse worktree list: %w", err)
	}
	return entries, nil
}

func sortedPaths(status gogit.Status) []string {
	paths := make([]string, 0, len(status))
	for path := range status {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
