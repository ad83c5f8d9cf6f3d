package doctor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/thoreinstein/pyscout/internal/config"
	"github.com/thoreinstein/pyscout/internal/paths"
	"github.com/thoreinstein/pyscout/internal/python"
)

// ConfigCheck validates that the pyscout configuration file loads cleanly.
type ConfigCheck struct {
	// Path is an explicit config file path. Empty means the default
	// search locations.
	Path string
}

var _ Check = (*ConfigCheck)(nil)

// NewConfigCheck creates a new configuration check.
func NewConfigCheck(path string) *ConfigCheck {
	return &ConfigCheck{Path: path}
}

// Name returns the unique identifier for this check.
func (c *ConfigCheck) Name() string {
	return "config"
}

// Category returns the grouping for this check.
func (c *ConfigCheck) Category() string {
	return "config"
}

// Run loads and validates the configuration.
func (c *ConfigCheck) Run() *CheckResult {
	config.Init()
	cfg, err := config.Load(c.Path)
	if err != nil {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityError,
			Message:  fmt.Sprintf("configuration failed to load: %v", err),
			FixHint:  "fix or remove " + filepath.Join(paths.ConfigHome(), config.AppName, "config.yaml"),
		}
	}

	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityPass,
		Message:  "configuration is valid",
		Details: map[string]any{
			"cache_dir":        cfg.CacheDir,
			"workspace_dirs":   len(cfg.WorkspaceDirs),
			"environment_dirs": len(cfg.EnvironmentDirs),
			"skip_probe":       cfg.SkipProbe,
		},
	}
}

// CacheDirCheck validates that the resolve cache directory is usable.
type CacheDirCheck struct {
	// Dir is the cache directory to inspect.
	Dir string

	missing    bool
	unwritable bool
}

var _ Check = (*CacheDirCheck)(nil)
var _ Fixer = (*CacheDirCheck)(nil)

// NewCacheDirCheck creates a new cache directory check.
func NewCacheDirCheck(dir string) *CacheDirCheck {
	if dir == "" {
		dir = paths.DefaultCacheDir()
	}
	return &CacheDirCheck{Dir: dir}
}

// Name returns the unique identifier for this check.
func (c *CacheDirCheck) Name() string {
	return "cache-dir"
}

// Category returns the grouping for this check.
func (c *CacheDirCheck) Category() string {
	return "cache"
}

// Run inspects the cache directory for existence and writability.
func (c *CacheDirCheck) Run() *CheckResult {
	c.missing = false
	c.unwritable = false

	info, err := os.Stat(c.Dir)
	if os.IsNotExist(err) {
		c.missing = true
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityInfo,
			Message:  "cache directory does not exist yet: " + c.Dir,
			Fixable:  true,
			FixHint:  "run with --fix to create it, or it will be created on first use",
		}
	}
	if err != nil {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityError,
			Message:  fmt.Sprintf("cannot stat cache directory: %v", err),
		}
	}
	if !info.IsDir() {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityError,
			Message:  "cache path exists but is not a directory: " + c.Dir,
			FixHint:  "remove " + c.Dir + " and let pyscout recreate it",
		}
	}

	// Probe writability with a throwaway file.
	f, err := os.CreateTemp(c.Dir, ".doctor-*")
	if err != nil {
		c.unwritable = true
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityError,
			Message:  "cache directory is not writable: " + c.Dir,
			Fixable:  true,
			FixHint:  "chmod u+w " + c.Dir,
		}
	}
	name := f.Name()
	f.Close()
	os.Remove(name)

	entries, _ := filepath.Glob(filepath.Join(c.Dir, "*.json"))

	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityPass,
		Message:  "cache directory is writable",
		Details: map[string]any{
			"path":    c.Dir,
			"entries": len(entries),
		},
	}
}

// managerBinaries are the environment manager executables doctor looks for
// on PATH.
var managerBinaries = []string{"conda", "pyenv", "poetry", "pipenv", "uv", "pixi", "virtualenv"}

// ManagerCheck reports which Python environment managers are installed.
type ManagerCheck struct {
	// lookPath is swappable for tests.
	lookPath func(string) (string, error)
}

var _ Check = (*ManagerCheck)(nil)

// NewManagerCheck creates a new environment manager check.
func NewManagerCheck() *ManagerCheck {
	return &ManagerCheck{lookPath: exec.LookPath}
}

// Name returns the unique identifier for this check.
func (c *ManagerCheck) Name() string {
	return "managers"
}

// Category returns the grouping for this check.
func (c *ManagerCheck) Category() string {
	return "toolchain"
}

// Run looks up each known manager binary on PATH.
func (c *ManagerCheck) Run() *CheckResult {
	found := make(map[string]any)
	var names []string
	for _, bin := range managerBinaries {
		path, err := c.lookPath(bin)
		if err != nil {
			continue
		}
		found[bin] = path
		names = append(names, bin)
	}

	if len(found) == 0 {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityInfo,
			Message:  "no environment managers found on PATH",
		}
	}

	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityPass,
		Message:  "found " + strings.Join(names, ", "),
		Details:  found,
	}
}

// InterpreterCheck looks for Python interpreters on the search path.
type InterpreterCheck struct {
	// SearchPaths are the directories to scan. Usually paths.Env.SearchPaths().
	SearchPaths []string
}

var _ Check = (*InterpreterCheck)(nil)

// NewInterpreterCheck creates a new interpreter check.
func NewInterpreterCheck(searchPaths []string) *InterpreterCheck {
	return &InterpreterCheck{SearchPaths: searchPaths}
}

// Name returns the unique identifier for this check.
func (c *InterpreterCheck) Name() string {
	return "interpreters"
}

// Category returns the grouping for this check.
func (c *InterpreterCheck) Category() string {
	return "toolchain"
}

// Run scans each search path directory for python executables.
func (c *InterpreterCheck) Run() *CheckResult {
	seen := make(map[string]bool)
	var interpreters []string
	for _, dir := range c.SearchPaths {
		if python.IsPyenvShimsDir(dir) {
			continue
		}
		for _, exe := range python.FindExecutables(dir) {
			resolved, err := filepath.EvalSymlinks(exe)
			if err != nil {
				resolved = exe
			}
			if seen[resolved] {
				continue
			}
			seen[resolved] = true
			interpreters = append(interpreters, exe)
		}
	}

	if len(interpreters) == 0 {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityWarning,
			Message:  "no python interpreters found on PATH",
			FixHint:  "install python or add its directory to PATH",
		}
	}

	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityPass,
		Message:  fmt.Sprintf("found %d interpreter(s)", len(interpreters)),
		Details: map[string]any{
			"interpreters": interpreters,
		},
	}
}
