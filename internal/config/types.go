package config

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskmgr/internal/logging"
	"github.com/nibzard/taskmgr/internal/store"
)

// Default values.
const (
	DefaultTasksFile = "tasks.json"
	DefaultIDPolicy  = string(store.IDPolicyMax)
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// Config holds the full configuration for taskmgr.
type Config struct {
	// Paths
	TasksFile  string `toml:"tasks_file"`
	SchemaFile string `toml:"schema_file"`

	// Id assignment: "max" or "last"
	IDPolicy string `toml:"id_policy"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Working directory (computed)
	WorkDir string `toml:"-"`
}

// Policy returns the parsed id policy. Load has already rejected bad values.
func (c *Config) Policy() store.IDPolicy {
	policy, err := store.ParseIDPolicy(c.IDPolicy)
	if err != nil {
		return store.IDPolicyMax
	}
	return policy
}

// Logger builds the console logger described by the logging fields.
func (c *Config) Logger(w io.Writer) *log.Logger {
	return logging.FromStrings(w, c.LogLevel, c.LogFormat, c.LogTimestamps, c.LogCaller)
}

// Store opens the task store described by the config.
func (c *Config) Store(logger *log.Logger) *store.Store {
	return store.New(c.TasksFile, store.WithIDPolicy(c.Policy()), store.WithLogger(logger))
}
