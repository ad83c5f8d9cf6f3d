package envs

import (
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// Environment is the unit of output of a discovery scan. Any populated
// field is known to be accurate; a missing field is unknown, never
// guessed.
type Environment struct {
	// DisplayName as assigned by the owning tool, when it has one.
	DisplayName string `json:"displayName,omitempty"`
	// Name of the environment, e.g. a conda env name or venv prompt.
	Name string `json:"name,omitempty"`
	// Executable is the primary interpreter path: the shortest known
	// alias. Can be empty for conda envs without Python installed.
	Executable string `json:"executable,omitempty"`
	Kind       Kind   `json:"kind"`
	// Version is at least major.minor.patch, possibly with a suffix
	// such as "3.13.0b2".
	Version string `json:"version,omitempty"`
	// Prefix is the installation root (sys.prefix).
	Prefix string       `json:"prefix,omitempty"`
	Arch   Architecture `json:"arch,omitempty"`
	// Symlinks holds every path known to reach this same interpreter,
	// including Executable itself. Sorted, no duplicates.
	Symlinks []string `json:"symlinks,omitempty"`
	// Project is the directory the environment belongs to, for
	// project-scoped kinds such as poetry and pipenv.
	Project string   `json:"project,omitempty"`
	Manager *Manager `json:"manager,omitempty"`
	// Error annotates a known-bad state, e.g. a dangling executable
	// symlink. The environment is still reported.
	Error string `json:"error,omitempty"`
}

// Manager is a detected tool installation, distinct from any single
// environment it manages. It may be reported even when none of its
// environments exist.
type Manager struct {
	Executable string      `json:"executable"`
	Tool       ManagerTool `json:"tool"`
	Version    string      `json:"version,omitempty"`
}

// Key returns the identity key of env for deduplication: the primary
// executable when known, otherwise a path derived from the prefix.
// Returns "" when the record carries neither.
func (e *Environment) Key() string {
	if e.Executable != "" {
		return e.Executable
	}
	if e.Prefix == "" {
		return ""
	}
	// A conda env without Python still has a well-defined spot where
	// the interpreter would live; key on that so a later sighting with
	// an executable merges instead of duplicating.
	if e.Kind == KindConda {
		name := "python"
		if runtime.GOOS == "windows" {
			name = "python.exe"
		}
		return filepath.Join(e.Prefix, "bin", name)
	}
	return e.Prefix
}

// ShortestPath returns the shortest path of the given set, breaking
// length ties lexically so the result is deterministic.
func ShortestPath(paths []string) string {
	best := ""
	for _, p := range paths {
		if p == "" {
			continue
		}
		if best == "" || len(p) < len(best) || (len(p) == len(best) && p < best) {
			best = p
		}
	}
	return best
}

func normalizePaths(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// String renders a human-readable multi-line summary, used by the CLI.
func (e *Environment) String() string {
	var b strings.Builder
	b.WriteString("Environment (" + string(e.Kind) + ")\n")
	write := func(label, value string) {
		if value != "" {
			b.WriteString("  " + label + ": " + value + "\n")
		}
	}
	write("Display-Name", e.DisplayName)
	write("Name        ", e.Name)
	write("Executable  ", e.Executable)
	write("Version     ", e.Version)
	write("Prefix      ", e.Prefix)
	write("Project     ", e.Project)
	write("Architecture", string(e.Arch))
	if e.Manager != nil {
		write("Manager     ", string(e.Manager.Tool)+" "+e.Manager.Executable)
	}
	for i, link := range e.Symlinks {
		if i == 0 {
			write("Symlinks    ", link)
		} else {
			write("            ", link)
		}
	}
	write("Error       ", e.Error)
	return b.String()
}
