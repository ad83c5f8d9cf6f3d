package discovery

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/thoreinstein/pyscout/internal/envs"
	"github.com/thoreinstein/pyscout/internal/locators"
	"github.com/thoreinstein/pyscout/internal/paths"
	"github.com/thoreinstein/pyscout/internal/python"
	"github.com/thoreinstein/pyscout/internal/reporter"
)

// Config scopes a sweep.
type Config struct {
	// Env is the process environment view the scanners consult.
	Env paths.Env
	// Workspaces are project folders whose local environments should
	// be found.
	Workspaces []string
	// EnvironmentDirs are extra directories of environments beyond the
	// conventional ones.
	EnvironmentDirs []string
	// SkipProbe disables the interpreter spawns for candidates file
	// inference cannot classify; they are reported as unknown instead.
	SkipProbe bool
	// ProbeTimeout bounds each interpreter spawn. Zero means the
	// default.
	ProbeTimeout time.Duration
}

// Summary reports what a sweep cost.
type Summary struct {
	Total      time.Duration
	Locators   time.Duration
	GlobalDirs time.Duration
	Path       time.Duration
	Workspaces time.Duration
}

// Reporter is the sink a sweep feeds: the usual reporter plus the
// fast-path query the scanners use to skip already-claimed paths.
type Reporter interface {
	reporter.Interface
	Seen(path string) bool
}

// Scanner coordinates sweeps over one locator registry.
type Scanner struct {
	registry *locators.Registry
	logger   *slog.Logger
}

func New(registry *locators.Registry, logger *slog.Logger) *Scanner {
	return &Scanner{registry: registry, logger: logger}
}

// Discover runs the full sweep. Locator enumerations claim their own
// territory first-hand; the shared scans feed everything else through
// the registry. Phase errors do not exist: an unreadable directory is
// an empty directory.
func (s *Scanner) Discover(ctx context.Context, cfg Config, rep Reporter) Summary {
	var summary Summary
	start := time.Now()

	// Unclaimed candidates are probed after the cheap phases, so the
	// spawns never hold up file based discovery.
	pending := make(chan *locators.Candidate, 64)

	// The errgroup cancels its derived context once Wait returns; keep
	// the caller's context for the probe phase that runs after Wait.
	parent := ctx
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer timeTaken(&summary.Locators)()
		s.enumerateLocators(ctx, s.registry.Locators(), rep)
		return nil
	})
	g.Go(func() error {
		defer timeTaken(&summary.GlobalDirs)()
		dirs := append(cfg.Env.GlobalVirtualEnvDirs(), cfg.EnvironmentDirs...)
		s.scanEnvironmentDirs(ctx, dirs, rep, pending)
		return nil
	})
	g.Go(func() error {
		defer timeTaken(&summary.Path)()
		s.scanSearchPaths(ctx, cfg.Env, rep, pending)
		return nil
	})
	g.Go(func() error {
		defer timeTaken(&summary.Workspaces)()
		s.scanWorkspaces(ctx, cfg.Workspaces, rep, pending)
		return nil
	})

	done := make(chan struct{})
	var unclaimed []*locators.Candidate
	go func() {
		defer close(done)
		for c := range pending {
			unclaimed = append(unclaimed, c)
		}
	}()

	g.Wait()
	close(pending)
	<-done

	s.probeUnclaimed(parent, cfg, unclaimed, rep)

	summary.Total = time.Since(start)
	s.logger.Debug("discovery finished",
		"total", summary.Total,
		"locators", summary.Locators,
		"globalDirs", summary.GlobalDirs,
		"path", summary.Path,
		"workspaces", summary.Workspaces,
	)
	return summary
}

func timeTaken(d *time.Duration) func() {
	start := time.Now()
	return func() { *d = time.Since(start) }
}

func (s *Scanner) enumerateLocators(ctx context.Context, locs []locators.Locator, rep Reporter) {
	g, ctx := errgroup.WithContext(ctx)
	for _, loc := range locs {
		g.Go(func() error {
			loc.Enumerate(ctx, rep)
			return nil
		})
	}
	g.Wait()
}

// identify pushes a candidate through the registry. Unclaimed
// candidates either fall back to the given kind (PATH interpreters) or
// go to the probe queue.
func (s *Scanner) identify(c *locators.Candidate, fallback envs.Kind, rep Reporter, pending chan<- *locators.Candidate) {
	if c.Executable == "" || rep.Seen(c.Executable) {
		return
	}
	if env := s.registry.Identify(c); env != nil {
		rep.ReportEnvironment(*env)
		return
	}
	if fallback != "" {
		rep.ReportEnvironment(fallbackEnvironment(fallback, c))
		return
	}
	if pending != nil {
		select {
		case pending <- c:
		default:
			// Queue full; report unknown rather than block a scan.
			rep.ReportEnvironment(fallbackEnvironment(envs.KindUnknown, c))
		}
	}
}

func fallbackEnvironment(kind envs.Kind, c *locators.Candidate) envs.Environment {
	version := c.Version
	if version == "" {
		version = python.VersionFromFilename(c.Executable)
	}
	return envs.NewBuilder(kind).
		Executable(c.Executable).
		Symlinks(c.Symlinks...).
		Version(version).
		Build()
}

// scanEnvironmentDirs treats every child of each directory as a
// potential environment prefix.
func (s *Scanner) scanEnvironmentDirs(ctx context.Context, dirs []string, rep Reporter, pending chan<- *locators.Candidate) {
	for _, dir := range dirs {
		if ctx.Err() != nil {
			return
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			s.scanPrefix(filepath.Join(dir, entry.Name()), rep, pending)
		}
	}
}

// scanPrefix checks one directory for an environment rooted there.
func (s *Scanner) scanPrefix(prefix string, rep Reporter, pending chan<- *locators.Candidate) {
	exe, broken := python.FindExecutableOrBroken(prefix)
	if exe == "" {
		// A conda env can exist without an interpreter.
		if env := s.registry.Identify(locators.NewPrefixCandidate("", prefix)); env != nil {
			rep.ReportEnvironment(*env)
		}
		return
	}
	if broken {
		s.reportBroken(prefix, exe, rep)
		return
	}
	s.identify(locators.NewPrefixCandidate(exe, prefix), "", rep, pending)
}

// reportBroken surfaces an environment whose interpreter symlink
// dangles instead of silently dropping it.
func (s *Scanner) reportBroken(prefix, exe string, rep Reporter) {
	if rep.Seen(exe) {
		return
	}
	c := locators.NewPrefixCandidate(exe, prefix)
	env := s.registry.Identify(c)
	if env == nil {
		e := fallbackEnvironment(envs.KindUnknown, c)
		env = &e
	}
	if env.Error == "" {
		annotated := envs.FromEnvironment(*env).Error("interpreter is a dangling symlink: " + exe).Build()
		env = &annotated
	}
	rep.ReportEnvironment(*env)
}

func (s *Scanner) scanSearchPaths(ctx context.Context, env paths.Env, rep Reporter, pending chan<- *locators.Candidate) {
	for _, dir := range env.SearchPaths() {
		if ctx.Err() != nil {
			return
		}
		if python.IsPyenvShimsDir(dir) {
			continue
		}
		for _, exe := range python.FindExecutables(dir) {
			s.identify(locators.NewCandidate(exe), envs.KindGlobalPaths, rep, pending)
		}
	}
}

// probeUnclaimed spawns the interpreters no locator claimed and
// re-dispatches them with the self-reported prefix; what still defies
// classification is reported unknown, with whatever the probe learned.
func (s *Scanner) probeUnclaimed(ctx context.Context, cfg Config, unclaimed []*locators.Candidate, rep Reporter) {
	timeout := cfg.ProbeTimeout
	if timeout <= 0 {
		timeout = python.DefaultProbeTimeout
	}
	for _, c := range unclaimed {
		if ctx.Err() != nil {
			return
		}
		if rep.Seen(c.Executable) {
			continue
		}
		if cfg.SkipProbe {
			rep.ReportEnvironment(fallbackEnvironment(envs.KindUnknown, c))
			continue
		}

		report, err := python.ProbeWithTimeout(ctx, c.Executable, timeout)
		if err != nil {
			s.logger.Debug("probe failed", "executable", c.Executable, "error", err)
			rep.ReportEnvironment(fallbackEnvironment(envs.KindUnknown, c))
			continue
		}

		// The interpreter's own idea of its prefix can reveal markers
		// the candidate path did not.
		retry := locators.NewPrefixCandidate(c.Executable, report.SysPrefix)
		if env := s.registry.Identify(retry); env != nil {
			rep.ReportEnvironment(*env)
			continue
		}

		arch := envs.ArchX86
		if report.Is64Bit {
			arch = envs.ArchX64
		}
		rep.ReportEnvironment(envs.NewBuilder(envs.KindUnknown).
			Executable(c.Executable).
			Symlinks(report.Executable).
			Prefix(report.SysPrefix).
			Version(report.Version).
			Arch(arch).
			Build())
	}
}
