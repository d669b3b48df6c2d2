package domain

import "time"

// Config represents the application configuration.
type Config struct {
	Agent AgentConfig // [agent] settings
	Tasks TasksConfig // [tasks] settings
	Log   LogConfig   // [log] settings
}

// AgentConfig holds agent invocation settings from the [agent] section.
// The task description is appended as the final argument.
type AgentConfig struct {
	Command string   // Agent binary (default "claude")
	Args    []string // Arguments placed before the description
}

// TasksConfig holds executor settings from the [tasks] section.
type TasksConfig struct {
	MaxConcurrent  int // Concurrency ceiling for agent tasks
	TimeoutSeconds int // Per-task process timeout
}

// Timeout returns the task timeout as a duration.
func (c TasksConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogConfig holds logging settings from the [log] section.
type LogConfig struct {
	Level string // debug, info, warn, error
}

// NewDefaultConfig returns the built-in defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Agent: AgentConfig{
			Command: "claude",
		},
		Tasks: TasksConfig{
			MaxConcurrent:  3,
			TimeoutSeconds: 3600,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
