// Package config provides configuration management for snapback using Viper.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/thoreinstein/snapback/internal/engine/rsync"
	"github.com/thoreinstein/snapback/internal/lock"
	"github.com/thoreinstein/snapback/internal/paths"
	"github.com/thoreinstein/snapback/pkg/fileutil"
)

// AppName is the application name used for config file naming.
const AppName = "snapback"

// CurrentVersion is the only config schema version this build reads.
const CurrentVersion = 1

// DefaultKeepFor is the retention threshold applied when the config
// file does not set one.
const DefaultKeepFor = "365d"

// Config represents the top-level configuration structure.
type Config struct {
	Version        int      `mapstructure:"version" yaml:"version"`
	Verbosity      int      `mapstructure:"verbosity" yaml:"verbosity"`
	KeepFor        string   `mapstructure:"keep_for" yaml:"keep_for"`
	LockName       string   `mapstructure:"lock_name" yaml:"lock_name"`
	PruneOnFailure bool     `mapstructure:"prune_on_failure" yaml:"prune_on_failure"`
	Exclude        []string `mapstructure:"exclude" yaml:"exclude,omitempty"`
	RsyncPath      string   `mapstructure:"rsync_path" yaml:"rsync_path"`
}

// Init initializes Viper with default configuration, clearing any
// state a previous Init left behind.
// Call this once at application startup before accessing config values.
func Init() {
	viper.Reset()

	// Config file settings
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".") // Current directory
	viper.AddConfigPath(paths.ConfigDir())

	// Environment variable support
	viper.SetEnvPrefix("SNAPBACK")
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("version", CurrentVersion)
	viper.SetDefault("verbosity", 0)
	viper.SetDefault("keep_for", DefaultKeepFor)
	viper.SetDefault("lock_name", lock.DefaultName)
	viper.SetDefault("prune_on_failure", false)
	viper.SetDefault("rsync_path", rsync.DefaultBinary)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		// An explicit file is read directly, so a miss comes back as
		// fs.ErrNotExist; only the search path reports its own type.
		_, searchMiss := err.(viper.ConfigFileNotFoundError)
		switch {
		case path != "" && errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("config file not found at %s: %w", path, err)
		case searchMiss:
			// Nothing in the search locations; defaults apply.
		default:
			// Real read error (parsing, permissions, etc)
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, fmt.Errorf("validating config: %w", errs[0])
	}

	return &cfg, nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Version:   CurrentVersion,
		KeepFor:   DefaultKeepFor,
		LockName:  lock.DefaultName,
		RsyncPath: rsync.DefaultBinary,
	}
}

// Save writes cfg to path as YAML, creating parent directories as
// needed. The write is atomic.
func Save(cfg *Config, path string) error {
	if errs := Validate(cfg); len(errs) > 0 {
		return fmt.Errorf("validating config: %w", errs[0])
	}
	if err := paths.EnsureDir(filepath.Dir(path), paths.DefaultDirPerm); err != nil {
		return err
	}
	return fileutil.AtomicWriteYAML(path, cfg)
}
