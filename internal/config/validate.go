package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/thoreinstein/pyscout/internal/errors"
)

// Validation errors for configuration fields.
var (
	// ErrVersionUnsupported indicates the version field is not a known
	// config schema version.
	ErrVersionUnsupported = errors.New("unsupported config version")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrNegativeTimeout indicates probe_timeout is negative.
	ErrNegativeTimeout = errors.New("probe_timeout must not be negative")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version != 1 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrVersionUnsupported, cfg.Version))
	}

	if cfg.ProbeTimeout < 0 {
		errs = append(errs, ErrNegativeTimeout)
	}

	if cfg.CacheDir != "" {
		if err := validatePath(cfg.CacheDir); err != nil {
			errs = append(errs, &PathError{Field: "cache_dir", Path: cfg.CacheDir, Err: err})
		}
	}

	for _, dir := range cfg.WorkspaceDirs {
		if err := validatePath(dir); err != nil {
			errs = append(errs, &PathError{Field: "workspace_dirs", Path: dir, Err: err})
		}
	}

	for _, dir := range cfg.EnvironmentDirs {
		if err := validatePath(dir); err != nil {
			errs = append(errs, &PathError{Field: "environment_dirs", Path: dir, Err: err})
		}
	}

	if err := validatePath(cfg.CondaExecutable); err != nil {
		errs = append(errs, &PathError{Field: "conda_executable", Path: cfg.CondaExecutable, Err: err})
	}
	if err := validatePath(cfg.PoetryExecutable); err != nil {
		errs = append(errs, &PathError{Field: "poetry_executable", Path: cfg.PoetryExecutable, Err: err})
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	if path == "" {
		return nil
	}

	// Null bytes are never valid in paths.
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	cleaned := filepath.Clean(path)
	if cleaned == "" || cleaned == "." {
		return ErrInvalidPath
	}

	return nil
}

// PathError represents an error for a specific path field.
type PathError struct {
	Field string
	Path  string
	Err   error
}

func (e *PathError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Path
}

func (e *PathError) Unwrap() error {
	return e.Err
}
