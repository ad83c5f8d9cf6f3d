// Package config provides configuration management for the pyscout CLI.
//
// This package handles loading and validating the tool's own configuration
// file. It is distinct from the per-request configuration a JSON-RPC client
// sends over the wire; CLI commands translate this file into discovery
// settings at startup.
//
// # Configuration File
//
// The default configuration file location is ~/.config/pyscout/config.yaml.
// The configuration file uses YAML format with the following structure:
//
//	version: 1
//	cache_dir: ~/.cache/pyscout   # optional
//	workspace_dirs:
//	  - ~/src/myproject
//	environment_dirs:
//	  - /opt/venvs
//	skip_probe: false
//	probe_timeout: 10s
//
// # Loading Configuration
//
// Call [Init] once at startup, then [Load]:
//
//	config.Init()
//	cfg, err := config.Load("")
//	if err != nil {
//	    return fmt.Errorf("loading config: %w", err)
//	}
//
// Passing a non-empty path to [Load] reads that specific file and fails if
// it does not exist. With an empty path, missing files fall back to the
// defaults from [Default].
//
// # Validation
//
// All loaded configurations are validated automatically. You can also
// validate a configuration manually:
//
//	errs := config.Validate(cfg)
//	for _, e := range errs {
//	    fmt.Println(e)
//	}
//
// Environment variables with the PYSCOUT_ prefix override file values, so
// PYSCOUT_CACHE_DIR=/tmp/cache takes precedence over cache_dir in the file.
package config
