// Package config provides configuration management for pyscout using Viper.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/thoreinstein/pyscout/internal/errors"
	"github.com/thoreinstein/pyscout/internal/paths"
)

// AppName is the application name used for config file naming.
const AppName = "pyscout"

// Config represents the top-level configuration structure.
type Config struct {
	Version         int           `mapstructure:"version" yaml:"version"`
	CacheDir        string        `mapstructure:"cache_dir" yaml:"cache_dir"`
	WorkspaceDirs   []string      `mapstructure:"workspace_dirs" yaml:"workspace_dirs"`
	EnvironmentDirs []string      `mapstructure:"environment_dirs" yaml:"environment_dirs"`
	SkipProbe       bool          `mapstructure:"skip_probe" yaml:"skip_probe"`
	ProbeTimeout    time.Duration `mapstructure:"probe_timeout" yaml:"probe_timeout"`

	// CondaExecutable and PoetryExecutable point discovery at manager
	// binaries installed outside PATH and the conventional locations.
	CondaExecutable  string `mapstructure:"conda_executable" yaml:"conda_executable"`
	PoetryExecutable string `mapstructure:"poetry_executable" yaml:"poetry_executable"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	viper.Reset()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	if dir := os.Getenv("PYSCOUT_CONFIG_DIR"); dir != "" {
		viper.AddConfigPath(dir)
	}
	viper.AddConfigPath(filepath.Join(paths.ConfigHome(), AppName))

	// Environment variable support
	viper.SetEnvPrefix("PYSCOUT")
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("version", 1)
	viper.SetDefault("cache_dir", paths.DefaultCacheDir())
	viper.SetDefault("probe_timeout", "10s")
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found
// (when path is empty). The result is always validated.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// An explicit path that does not exist is an error; an
			// implicit load falls back to defaults.
			if path != "" {
				return nil, errors.Wrapf(err, "config file not found at %s", path)
			}
		} else {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	cfg.expand()

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Mark(errors.Wrap(errs[0], "validating config"), errors.ErrInvalidConfig)
	}

	return &cfg, nil
}

// Default returns a configuration populated with default values only.
func Default() *Config {
	return &Config{
		Version:      1,
		CacheDir:     paths.DefaultCacheDir(),
		ProbeTimeout: 10 * time.Second,
	}
}

// expand normalizes user-supplied paths, replacing a leading ~ with the
// home directory.
func (c *Config) expand() {
	c.CacheDir = paths.ExpandUser(c.CacheDir)
	for i, dir := range c.WorkspaceDirs {
		c.WorkspaceDirs[i] = paths.ExpandUser(dir)
	}
	for i, dir := range c.EnvironmentDirs {
		c.EnvironmentDirs[i] = paths.ExpandUser(dir)
	}
	c.CondaExecutable = paths.ExpandUser(c.CondaExecutable)
	c.PoetryExecutable = paths.ExpandUser(c.PoetryExecutable)
}
