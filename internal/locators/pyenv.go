package locators

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/thoreinstein/pyscout/internal/envs"
	"github.com/thoreinstein/pyscout/internal/paths"
	"github.com/thoreinstein/pyscout/internal/python"
	"github.com/thoreinstein/pyscout/internal/reporter"
	"github.com/thoreinstein/pyscout/pkg/fileutil"
)

// A pyenv version directory named like a CPython release:
// 3.11.4, 3.13.0a2, 3.12-dev.
var (
	pyenvVersionDirRe  = regexp.MustCompile(`^(\d+)(\.\d+){0,2}((a|b|rc)\d*)?(-dev)?(t)?$`)
	pyenvToolVersionRe = regexp.MustCompile(`pyenv[/\\](\d+\.\d+\.\d+)[/\\]`)
)

// Pyenv finds interpreters installed under a pyenv root. The versions
// directory mixes three families: plain CPython builds, virtualenvs
// created with pyenv-virtualenv, and full conda/miniconda installs
// that pyenv can install as named versions.
type Pyenv struct {
	env paths.Env
}

func NewPyenv(env paths.Env) *Pyenv {
	return &Pyenv{env: env}
}

func (l *Pyenv) Kind() envs.Kind { return envs.KindPyenv }

func (l *Pyenv) Categories() []envs.Kind {
	return []envs.Kind{envs.KindPyenv, envs.KindPyenvVirtualEnv, envs.KindConda}
}

func (l *Pyenv) Confirm(c *Candidate) *envs.Environment {
	_, versions := l.env.PyenvDirs()
	prefix := c.Prefix()
	if versions == "" || !isUnder(versions, prefix) {
		return nil
	}
	env := l.environmentAt(prefix)
	return &env
}

func (l *Pyenv) Enumerate(ctx context.Context, rep reporter.Interface) {
	root, versions := l.env.PyenvDirs()
	if root == "" {
		return
	}
	if mgr := l.manager(root); mgr != nil {
		rep.ReportManager(*mgr)
	}
	entries, err := os.ReadDir(versions)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}
		if !entry.IsDir() && entry.Type()&os.ModeSymlink == 0 {
			continue
		}
		rep.ReportEnvironment(l.environmentAt(filepath.Join(versions, entry.Name())))
	}
}

func (l *Pyenv) environmentAt(prefix string) envs.Environment {
	name := filepath.Base(prefix)

	// Conda installed through pyenv is still conda.
	if isCondaPrefix(prefix) {
		return NewConda(l.env).environmentAt(prefix)
	}

	kind := envs.KindPyenvVirtualEnv
	if pyenvVersionDirRe.MatchString(name) {
		kind = envs.KindPyenv
	}

	b := envs.NewBuilder(kind).Prefix(prefix).Name(name)
	if exe, broken := python.FindExecutableOrBroken(prefix); exe != "" {
		b.Executable(exe)
		if broken {
			b.Error("interpreter is a dangling symlink: " + exe)
		}
	}

	version := python.VersionFromPrefix(prefix)
	if version == "" && kind == envs.KindPyenv {
		// The directory name is the installed version for plain
		// builds; strip the dev/threaded decorations.
		version = strings.TrimSuffix(strings.TrimSuffix(name, "t"), "-dev")
	}
	b.Version(version)
	return b.Build()
}

func (l *Pyenv) manager(root string) *envs.Manager {
	exe := filepath.Join(root, "bin", "pyenv")
	if info, err := os.Stat(exe); err != nil || !info.Mode().IsRegular() {
		return nil
	}
	mgr := &envs.Manager{Executable: exe, Tool: envs.ToolPyenv}
	// Package-manager installs route the binary through a versioned
	// directory (Cellar/pyenv/2.3.35/...); that is the only place the
	// tool version is visible without spawning it.
	if resolved := fileutil.ResolveSymlink(exe); resolved != "" {
		if m := pyenvToolVersionRe.FindStringSubmatch(resolved); m != nil {
			mgr.Version = m[1]
		}
	}
	return mgr
}

// isUnder reports whether path is dir or inside dir.
func isUnder(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
