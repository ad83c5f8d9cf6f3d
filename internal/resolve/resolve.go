// Package resolve turns a single path into a full environment record
// on demand, as opposed to the broad sweep of package discovery. It
// answers for interpreters discovery never saw, such as one the user
// typed into an interpreter picker.
package resolve

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/thoreinstein/pyscout/internal/cache"
	"github.com/thoreinstein/pyscout/internal/envs"
	"github.com/thoreinstein/pyscout/internal/errors"
	"github.com/thoreinstein/pyscout/internal/locators"
	"github.com/thoreinstein/pyscout/internal/python"
)

// Resolver resolves individual interpreters: cache first, file
// inference second, a bounded interpreter spawn last.
type Resolver struct {
	registry     *locators.Registry
	store        *cache.Store
	probeTimeout time.Duration
	logger       *slog.Logger
}

func New(registry *locators.Registry, store *cache.Store, logger *slog.Logger) *Resolver {
	return &Resolver{
		registry:     registry,
		store:        store,
		probeTimeout: python.DefaultProbeTimeout,
		logger:       logger,
	}
}

// SetProbeTimeout overrides the per-spawn deadline. Non-positive values
// are ignored. Call before the resolver is shared across goroutines.
func (r *Resolver) SetProbeTimeout(d time.Duration) {
	if d > 0 {
		r.probeTimeout = d
	}
}

// Resolve returns the record for path, which may be an interpreter
// executable or an environment root directory. The result always
// carries an executable and a version; when neither inference nor
// probing can produce those, resolution fails rather than guessing.
func (r *Resolver) Resolve(ctx context.Context, path string) (*envs.Environment, error) {
	exe, err := r.executableFor(path)
	if err != nil {
		return nil, err
	}

	if env, ok := r.store.Get(exe); ok {
		r.logger.Debug("resolve cache hit", "executable", exe)
		return env, nil
	}

	env := r.registry.Identify(locators.NewCandidate(exe))
	if env == nil {
		unknown := envs.NewBuilder(envs.KindUnknown).Executable(exe).Build()
		env = &unknown
	}

	if env.Version == "" || env.Prefix == "" || env.Arch == "" {
		if err := r.completeWithProbe(ctx, env); err != nil {
			if env.Version == "" {
				return nil, errors.Wrapf(errors.ErrResolveFailed, "%s: %v", exe, err)
			}
			// Inference got us a version; a failed probe only costs
			// the fields it would have filled.
			r.logger.Debug("probe failed after inference", "executable", exe, "error", err)
		}
	}

	if err := r.store.Put(*env); err != nil {
		r.logger.Warn("caching resolved environment", "executable", exe, "error", err)
	}
	return env, nil
}

func (r *Resolver) executableFor(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", errors.Wrapf(errors.ErrResolveFailed, "%s: %v", path, err)
	}
	if !info.IsDir() {
		if !python.IsPythonExecutableName(filepath.Base(path)) {
			return "", errors.Wrapf(errors.ErrNotExecutable, "%s", path)
		}
		return path, nil
	}
	exe := python.FindExecutable(path)
	if exe == "" {
		return "", errors.Wrapf(errors.ErrResolveFailed, "%s: no interpreter in directory", path)
	}
	return exe, nil
}

func (r *Resolver) completeWithProbe(ctx context.Context, env *envs.Environment) error {
	report, err := python.ProbeWithTimeout(ctx, env.Executable, r.probeTimeout)
	if err != nil {
		return err
	}

	b := envs.FromEnvironment(*env)
	if env.Version == "" {
		b.Version(report.Version)
	}
	if env.Prefix == "" {
		b.Prefix(report.SysPrefix)
	}
	if env.Arch == "" {
		if report.Is64Bit {
			b.Arch(envs.ArchX64)
		} else {
			b.Arch(envs.ArchX86)
		}
	}
	// The interpreter reporting its own sys.executable is another
	// alias worth remembering.
	if report.Executable != "" {
		b.Symlinks(report.Executable)
	}
	*env = b.Build()
	return nil
}

// Find locates the environment a path belongs to within an already
// discovered set: an exact executable or alias match first, then
// prefix containment. Returns nil when nothing contains the path.
func Find(path string, known []envs.Environment) *envs.Environment {
	for i := range known {
		env := &known[i]
		if env.Executable == path {
			return env
		}
		for _, link := range env.Symlinks {
			if link == path {
				return env
			}
		}
	}
	for i := range known {
		env := &known[i]
		if env.Prefix != "" && isWithin(env.Prefix, path) {
			return env
		}
	}
	return nil
}

func isWithin(dir, path string) bool {
	if dir == path {
		return true
	}
	if len(path) <= len(dir) {
		return false
	}
	return path[:len(dir)] == dir && (path[len(dir)] == '/' || path[len(dir)] == '\\')
}
