package locators

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/thoreinstein/pyscout/internal/envs"
	"github.com/thoreinstein/pyscout/internal/paths"
	"github.com/thoreinstein/pyscout/internal/python"
	"github.com/thoreinstein/pyscout/internal/reporter"
	"github.com/thoreinstein/pyscout/pkg/fileutil"
)

// Homebrew finds brew-installed Pythons. The bin directory exposes
// python3.x symlinks that resolve into the Cellar (or into the opt
// tree, which itself points at the Cellar); the resolved target is
// what identifies a candidate as Homebrew's.
type Homebrew struct {
	// prefixes are the brew installation roots for the platform.
	prefixes []string
}

func NewHomebrew(env paths.Env, goos string) *Homebrew {
	var defaults []string
	switch goos {
	case "darwin":
		defaults = []string{"/opt/homebrew", "/usr/local"}
	default:
		defaults = []string{"/home/linuxbrew/.linuxbrew"}
	}
	var prefixes []string
	if env.HomebrewPrefix != "" {
		prefixes = append(prefixes, env.HomebrewPrefix)
	}
	for _, dir := range defaults {
		prefixes = append(prefixes, filepath.Join(env.SystemRoot, dir))
	}
	return &Homebrew{prefixes: prefixes}
}

func (l *Homebrew) Kind() envs.Kind { return envs.KindHomebrew }
func (l *Homebrew) Categories() []envs.Kind { return []envs.Kind{envs.KindHomebrew} }

func (l *Homebrew) Confirm(c *Candidate) *envs.Environment {
	if c.PyVenvCfg() != nil {
		// A venv created from a brew Python is still a venv.
		return nil
	}
	resolved := fileutil.ResolveSymlink(c.Executable)
	if resolved == "" {
		resolved = c.Executable
	}
	if !isBrewPython(resolved) {
		return nil
	}
	env := l.environmentFor(c.Executable, resolved)
	return &env
}

func (l *Homebrew) Enumerate(ctx context.Context, rep reporter.Interface) {
	for _, prefix := range l.prefixes {
		if ctx.Err() != nil {
			return
		}
		bin := filepath.Join(prefix, "bin")
		entries, err := os.ReadDir(bin)
		if err != nil {
			continue
		}

		// Group the aliases by the Cellar interpreter they reach so
		// one formula reports once.
		byTarget := make(map[string][]string)
		for _, entry := range entries {
			if !python.IsPythonExecutableName(entry.Name()) {
				continue
			}
			exe := filepath.Join(bin, entry.Name())
			resolved := fileutil.ResolveSymlink(exe)
			if resolved == "" || !isBrewPython(resolved) {
				continue
			}
			byTarget[resolved] = append(byTarget[resolved], exe)
		}

		targets := make([]string, 0, len(byTarget))
		for target := range byTarget {
			targets = append(targets, target)
		}
		sort.Strings(targets)
		for _, target := range targets {
			aliases := byTarget[target]
			env := l.environmentFor(envs.ShortestPath(aliases), target)
			env = envs.FromEnvironment(env).Symlinks(aliases...).Build()
			rep.ReportEnvironment(env)
		}
	}
}

func (l *Homebrew) environmentFor(exe, resolved string) envs.Environment {
	prefix := brewCellarPrefix(resolved)
	version := python.VersionFromHeaders(prefix)
	if version == "" {
		version = python.VersionFromFilename(resolved)
	}
	return envs.NewBuilder(envs.KindHomebrew).
		Executable(exe).
		Symlinks(resolved).
		Prefix(prefix).
		Version(version).
		Build()
}

func isBrewPython(path string) bool {
	return strings.Contains(path, "/Cellar/python") ||
		strings.Contains(path, "/linuxbrew/.linuxbrew/Cellar/") ||
		strings.Contains(path, "/Python.framework/") && strings.Contains(path, "/Cellar/")
}

// brewCellarPrefix walks up from the resolved executable to the
// versioned Cellar prefix, e.g.
// /opt/homebrew/Cellar/python@3.11/3.11.6/ on linux, or the embedded
// framework prefix on mac.
func brewCellarPrefix(resolved string) string {
	dir := filepath.Dir(resolved)
	if base := filepath.Base(dir); base == "bin" {
		return filepath.Dir(dir)
	}
	return dir
}
