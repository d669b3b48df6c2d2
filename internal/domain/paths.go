package domain

import "path/filepath"

// ConfigFileName is the configuration file name, both global and per-repo.
const ConfigFileName = "config.toml"

// FlotillaDir returns the per-repository state directory inside .git.
func FlotillaDir(gitDir string) string {
	return filepath.Join(gitDir, "flotilla")
}

// GlobalConfigDir returns the global config directory under configHome.
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, "flotilla")
}

// WorktreesDir returns the directory that holds all managed worktrees.
func WorktreesDir(repoRoot string) string {
	return filepath.Join(repoRoot, "worktrees")
}

// WorktreePath returns the directory of a named worktree.
func WorktreePath(repoRoot, name string) string {
	return filepath.Join(WorktreesDir(repoRoot), name)
}

// WorktreeIDsPath returns the side-store file that pins worktree identities.
func WorktreeIDsPath(flotillaDir string) string {
	return filepath.Join(flotillaDir, "worktrees.json")
}

// GlobalLogPath returns the path of the global log file.
func GlobalLogPath(flotillaDir string) string {
	return filepath.Join(flotillaDir, "logs", "flotilla.log")
}

// TaskLogPath returns the path of a task's log file.
func TaskLogPath(flotillaDir, taskID string) string {
	return filepath.Join(flotillaDir, "logs", "task-"+taskID+".log")
}
