package locators

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/thoreinstein/pyscout/internal/envs"
	"github.com/thoreinstein/pyscout/internal/paths"
	"github.com/thoreinstein/pyscout/internal/python"
	"github.com/thoreinstein/pyscout/internal/reporter"
	"github.com/thoreinstein/pyscout/pkg/fileutil"
)

// LinuxGlobal finds distribution-provided interpreters in the standard
// system binary directories. It runs last on linux: anything with a
// pyvenv.cfg or a manager marker was claimed upstream.
type LinuxGlobal struct {
	// root is "" in production; tests point it at a fixture tree.
	root string
}

func NewLinuxGlobal(env paths.Env) *LinuxGlobal {
	return &LinuxGlobal{root: env.SystemRoot}
}

func (l *LinuxGlobal) Kind() envs.Kind { return envs.KindLinuxGlobal }
func (l *LinuxGlobal) Categories() []envs.Kind { return []envs.Kind{envs.KindLinuxGlobal} }

func (l *LinuxGlobal) binDirs() []string {
	return []string{
		filepath.Join(l.root, "/usr/bin"),
		filepath.Join(l.root, "/usr/local/bin"),
		filepath.Join(l.root, "/bin"),
	}
}

func (l *LinuxGlobal) Confirm(c *Candidate) *envs.Environment {
	if c.PyVenvCfg() != nil {
		return nil
	}
	dir := filepath.Dir(c.Executable)
	for _, bin := range l.binDirs() {
		if dir == bin {
			env := l.environmentFor(c.Executable)
			return &env
		}
	}
	return nil
}

func (l *LinuxGlobal) Enumerate(ctx context.Context, rep reporter.Interface) {
	for _, bin := range l.binDirs() {
		if ctx.Err() != nil {
			return
		}
		entries, err := os.ReadDir(bin)
		if err != nil {
			continue
		}

		byTarget := make(map[string][]string)
		for _, entry := range entries {
			if !python.IsPythonExecutableName(entry.Name()) {
				continue
			}
			exe := filepath.Join(bin, entry.Name())
			target := fileutil.ResolveSymlink(exe)
			if target == "" {
				target = exe
			}
			byTarget[target] = append(byTarget[target], exe)
		}

		targets := make([]string, 0, len(byTarget))
		for target := range byTarget {
			targets = append(targets, target)
		}
		sort.Strings(targets)
		for _, target := range targets {
			env := l.environmentFor(envs.ShortestPath(byTarget[target]))
			env = envs.FromEnvironment(env).Symlinks(byTarget[target]...).Symlinks(target).Build()
			rep.ReportEnvironment(env)
		}
	}
}

func (l *LinuxGlobal) environmentFor(exe string) envs.Environment {
	// /usr/bin/python3 has its prefix at /usr; headers may live in
	// /usr/include/python3.x when the dev package is installed.
	prefix := filepath.Dir(filepath.Dir(exe))
	version := python.VersionFromHeaders(prefix)
	if version == "" {
		version = python.VersionFromFilename(exe)
		if version == "" {
			if target := fileutil.ResolveSymlink(exe); target != "" {
				version = python.VersionFromFilename(target)
			}
		}
	}
	return envs.NewBuilder(envs.KindLinuxGlobal).
		Executable(exe).
		Prefix(prefix).
		Version(version).
		Build()
}
