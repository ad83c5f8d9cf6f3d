package locators

import (
	"context"
	"os"
	"path/filepath"

	"github.com/thoreinstein/pyscout/internal/envs"
	"github.com/thoreinstein/pyscout/internal/paths"
	"github.com/thoreinstein/pyscout/internal/python"
	"github.com/thoreinstein/pyscout/internal/reporter"
)

// VenvUv claims venvs created by uv: either the pyvenv.cfg carries the
// uv marker, or the env lives in uv's environments cache. Runs before
// the plain venv locator so uv envs keep their more specific kind.
type VenvUv struct {
	env paths.Env
}

func NewVenvUv(env paths.Env) *VenvUv {
	return &VenvUv{env: env}
}

func (l *VenvUv) Kind() envs.Kind { return envs.KindVenvUv }
func (l *VenvUv) Categories() []envs.Kind { return []envs.Kind{envs.KindVenvUv} }

func (l *VenvUv) Confirm(c *Candidate) *envs.Environment {
	cfg := c.PyVenvCfg()
	if cfg == nil {
		return nil
	}
	if !cfg.Uv && !l.inUvDir(c.Prefix()) {
		return nil
	}
	env := venvEnvironment(envs.KindVenvUv, c, cfg)
	return &env
}

// Enumerate walks uv's tool environment directories; interpreters
// managed by `uv python install` surface through PATH and the global
// scan instead.
func (l *VenvUv) Enumerate(ctx context.Context, rep reporter.Interface) {
	for _, dir := range l.env.UvEnvironmentDirs() {
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
			prefix := filepath.Join(dir, entry.Name())
			cfg := python.FindPyVenvCfg(prefix)
			if cfg == nil {
				continue
			}
			exe, _ := python.FindExecutableOrBroken(prefix)
			c := NewPrefixCandidate(exe, prefix)
			rep.ReportEnvironment(venvEnvironment(envs.KindVenvUv, c, cfg))
		}
	}
}

func (l *VenvUv) inUvDir(prefix string) bool {
	for _, dir := range l.env.UvEnvironmentDirs() {
		if filepath.Dir(prefix) == filepath.Clean(dir) {
			return true
		}
	}
	return false
}

// Venv claims any remaining environment carrying a pyvenv.cfg. Nearly
// every tool-specific locator runs first, so what reaches this one is
// a plain `python -m venv` creation.
type Venv struct{}

func NewVenv() *Venv { return &Venv{} }

func (l *Venv) Kind() envs.Kind { return envs.KindVenv }
func (l *Venv) Categories() []envs.Kind { return []envs.Kind{envs.KindVenv} }

func (l *Venv) Confirm(c *Candidate) *envs.Environment {
	cfg := c.PyVenvCfg()
	if cfg == nil {
		return nil
	}
	env := venvEnvironment(envs.KindVenv, c, cfg)
	return &env
}

func (l *Venv) Enumerate(ctx context.Context, rep reporter.Interface) {}

// venvEnvironment builds the record every venv-family locator shares.
func venvEnvironment(kind envs.Kind, c *Candidate, cfg *python.PyVenvCfg) envs.Environment {
	prefix := c.Prefix()
	b := envs.NewBuilder(kind).
		Prefix(prefix).
		Name(filepath.Base(prefix)).
		Executable(c.Executable).
		Symlinks(c.Symlinks...)
	if cfg != nil {
		if cfg.Prompt != "" {
			b.DisplayName(cfg.Prompt)
		}
		version := cfg.Version
		if version == "" {
			version = python.VersionForVirtualEnv(prefix)
		}
		b.Version(version)
	}
	return b.Build()
}
