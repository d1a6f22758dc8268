package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/taskmgr/internal/logging"
	"github.com/nibzard/taskmgr/internal/store"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.taskmgr/taskmgr.toml or OS-specific config dir)
// 3. Project config file (taskmgr.toml or .taskmgr.toml in current directory)
// 4. Environment variables
// 5. CLI flags
//
// Flags are defined on fs, which may already carry caller-specific flags.
// Positional arguments remain available through fs.Args().
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. Try to load from user config file
	userConfigFile := findUserConfigFile()
	if userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
	}

	// 3. Try to load from project config file (overrides user config)
	projectConfigFile := findProjectConfigFile()
	if projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
	}

	// 4. Override from environment
	loadFromEnv(cfg)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cfg, nil
}

// ConfigFiles returns the config files Load reads, in merge order.
func ConfigFiles() []string {
	var files []string
	if f := findUserConfigFile(); f != "" {
		files = append(files, f)
	}
	if f := findProjectConfigFile(); f != "" {
		files = append(files, f)
	}
	return files
}

// loadConfigFile loads TOML config from the given file.
// Keys that are not part of Config are rejected so typos surface early.
func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return nil
}

// finalizeConfig computes derived values and validates settings.
func finalizeConfig(cfg *Config) error {
	if cfg.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.WorkDir = wd
	}

	if cfg.TasksFile == "" {
		cfg.TasksFile = DefaultTasksFile
	}
	cfg.TasksFile = resolvePath(cfg.WorkDir, cfg.TasksFile)
	if cfg.SchemaFile != "" {
		cfg.SchemaFile = resolvePath(cfg.WorkDir, cfg.SchemaFile)
	}

	policy, err := store.ParseIDPolicy(cfg.IDPolicy)
	if err != nil {
		return err
	}
	cfg.IDPolicy = string(policy)

	if !logging.ValidLevel(cfg.LogLevel) {
		return fmt.Errorf("invalid log level %q, must be one of: debug, info, warn, error, fatal", cfg.LogLevel)
	}
	if !logging.ValidFormat(cfg.LogFormat) {
		return fmt.Errorf("invalid log format %q, must be one of: text, json, logfmt", cfg.LogFormat)
	}

	return nil
}

// resolvePath expands ~ and environment variables and anchors relative paths at dir.
func resolvePath(dir, p string) string {
	p = expandPath(p)
	if !filepath.IsAbs(p) {
		p = filepath.Join(dir, p)
	}
	return filepath.Clean(p)
}
