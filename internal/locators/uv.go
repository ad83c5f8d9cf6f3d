package locators

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/thoreinstein/pyscout/internal/envs"
	"github.com/thoreinstein/pyscout/internal/paths"
	"github.com/thoreinstein/pyscout/internal/python"
	"github.com/thoreinstein/pyscout/internal/reporter"
)

// Uv finds the standalone interpreters uv installs under its python
// directory, one per directory named like
// cpython-3.12.1-linux-x86_64-gnu. Virtual environments created by uv
// are a different kind (venvUv) and carry a pyvenv.cfg marker instead.
type Uv struct {
	env paths.Env
}

func NewUv(env paths.Env) *Uv {
	return &Uv{env: env}
}

func (l *Uv) Kind() envs.Kind { return envs.KindUv }

func (l *Uv) Categories() []envs.Kind { return []envs.Kind{envs.KindUv} }

func (l *Uv) Confirm(c *Candidate) *envs.Environment {
	install := l.env.UvPythonInstallDir()
	prefix := c.Prefix()
	if install == "" || !isUnder(install, prefix) {
		return nil
	}

	// Candidates may sit one level deeper than the install entry
	// (<install>/<entry>/bin/python resolves its prefix to <entry>).
	for filepath.Dir(prefix) != install {
		parent := filepath.Dir(prefix)
		if parent == prefix {
			return nil
		}
		prefix = parent
	}

	env := l.environmentAt(prefix)
	return &env
}

func (l *Uv) Enumerate(ctx context.Context, rep reporter.Interface) {
	install := l.env.UvPythonInstallDir()
	if install == "" {
		return
	}
	entries, err := os.ReadDir(install)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}
		if !entry.IsDir() || uvInstallVersion(entry.Name()) == "" {
			continue
		}
		rep.ReportEnvironment(l.environmentAt(filepath.Join(install, entry.Name())))
	}
}

func (l *Uv) environmentAt(prefix string) envs.Environment {
	name := filepath.Base(prefix)
	version := uvInstallVersion(name)
	if v := python.VersionFromPrefix(prefix); v != "" {
		version = v
	}

	b := envs.NewBuilder(envs.KindUv).
		Prefix(prefix).
		Name(name).
		Version(version)

	if exe, broken := python.FindExecutableOrBroken(prefix); exe != "" {
		b.Executable(exe)
		if broken {
			b.Error("interpreter is a dangling symlink: " + exe)
		}
	}

	return b.Build()
}

// uvInstallVersion extracts the version from an install directory name
// such as cpython-3.12.1-linux-x86_64-gnu. Returns "" when the name
// does not follow uv's scheme.
func uvInstallVersion(name string) string {
	parts := strings.Split(name, "-")
	if len(parts) < 3 {
		return ""
	}
	version := parts[1]
	// Free-threaded builds carry a +freethreaded variant tag.
	version, _, _ = strings.Cut(version, "+")
	if version == "" || version[0] < '0' || version[0] > '9' {
		return ""
	}
	return version
}
