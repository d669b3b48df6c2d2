// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/flotilla-dev/flotilla/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	flotillaDir   string // Path to .git/flotilla directory
	globalConfDir string // Path to global config directory (e.g., ~/.config/flotilla)
}

// NewLoader creates a new Loader.
func NewLoader(flotillaDir string) *Loader {
	return &Loader{
		flotillaDir:   flotillaDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config
// directory. This is useful for testing.
func NewLoaderWithGlobalDir(flotillaDir, globalConfDir string) *Loader {
	return &Loader{
		flotillaDir:   flotillaDir,
		globalConfDir: globalConfDir,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// fileConfig mirrors domain.Config with optional fields so that absent
// keys do not clobber values from lower-precedence sources.
type fileConfig struct {
	Agent struct {
		Command *string   `toml:"command"`
		Args    *[]string `toml:"args"`
	} `toml:"agent"`
	Tasks struct {
		MaxConcurrent  *int `toml:"max_concurrent"`
		TimeoutSeconds *int `toml:"timeout_seconds"`
	} `toml:"tasks"`
	Log struct {
		Level *string `toml:"level"`
	} `toml:"log"`
}

// Load returns the merged configuration.
// Precedence: defaults <- global config <- repository config.
func (l *Loader) Load() (*domain.Config, error) {
	base := domain.NewDefaultConfig()

	global, err := l.loadFile(l.globalPath())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if global != nil {
		applyFile(base, global)
	}

	repo, err := l.loadFile(l.repoPath())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if repo != nil {
		applyFile(base, repo)
	}

	if err := validate(base); err != nil {
		return nil, err
	}
	return base, nil
}

func (l *Loader) globalPath() string {
	if l.globalConfDir == "" {
		return ""
	}
	return filepath.Join(l.globalConfDir, domain.ConfigFileName)
}

func (l *Loader) repoPath() string {
	return filepath.Join(l.flotillaDir, domain.ConfigFileName)
}

// loadFile parses one TOML configuration file.
func (l *Loader) loadFile(path string) (*fileConfig, error) {
	if path == "" {
		return nil, os.ErrNotExist
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &fc, nil
}

// applyFile overlays the keys present in fc onto cfg.
func applyFile(cfg *domain.Config, fc *fileConfig) {
	if fc.Agent.Command != nil {
		cfg.Agent.Command = *fc.Agent.Command
	}
	if fc.Agent.Args != nil {
		cfg.Agent.Args = append([]string{}, (*fc.Agent.Args)...)
	}
	if fc.Tasks.MaxConcurrent != nil {
		cfg.Tasks.MaxConcurrent = *fc.Tasks.MaxConcurrent
	}
	if fc.Tasks.TimeoutSeconds != nil {
		cfg.Tasks.TimeoutSeconds = *fc.Tasks.TimeoutSeconds
	}
	if fc.Log.Level != nil {
		cfg.Log.Level = *fc.Log.Level
	}
}

// validate rejects configurations the executor cannot honor.
func validate(cfg *domain.Config) error {
	if cfg.Agent.Command == "" {
		return errors.New("agent.command must not be empty")
	}
	if cfg.Tasks.MaxConcurrent < 1 {
		return fmt.Errorf("tasks.max_concurrent must be positive, got %d", cfg.Tasks.MaxConcurrent)
	}
	if cfg.Tasks.TimeoutSeconds < 1 {
		return fmt.Errorf("tasks.timeout_seconds must be positive, got %d", cfg.Tasks.TimeoutSeconds)
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug/info/warn/error, got %q", cfg.Log.Level)
	}
	return nil
}
