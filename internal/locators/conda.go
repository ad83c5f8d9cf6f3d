package locators

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/pyscout/internal/envs"
	"github.com/thoreinstein/pyscout/internal/paths"
	"github.com/thoreinstein/pyscout/internal/python"
	"github.com/thoreinstein/pyscout/internal/reporter"
	"github.com/thoreinstein/pyscout/pkg/fileutil"
)

const condaMetaDir = "conda-meta"

// Conda finds conda/miniconda/miniforge installations, their base
// environment and every named environment. Pixi writes the same
// conda-meta layout; its marker file keeps the two apart.
type Conda struct {
	env paths.Env
}

func NewConda(env paths.Env) *Conda {
	return &Conda{env: env}
}

func (l *Conda) Kind() envs.Kind { return envs.KindConda }
func (l *Conda) Categories() []envs.Kind { return []envs.Kind{envs.KindConda} }

func (l *Conda) Confirm(c *Candidate) *envs.Environment {
	prefix := c.Prefix()
	if !isCondaPrefix(prefix) {
		return nil
	}
	env := l.environmentAt(prefix)
	return &env
}

func (l *Conda) Enumerate(ctx context.Context, rep reporter.Interface) {
	seenMgr := make(map[string]struct{})
	reportMgr := func(mgr envs.Manager) {
		if _, dup := seenMgr[mgr.Executable]; dup {
			return
		}
		seenMgr[mgr.Executable] = struct{}{}
		rep.ReportManager(mgr)
	}

	seen := make(map[string]struct{})
	report := func(prefix string) {
		prefix = filepath.Clean(prefix)
		if _, dup := seen[prefix]; dup {
			return
		}
		seen[prefix] = struct{}{}
		if !isCondaPrefix(prefix) {
			return
		}
		rep.ReportEnvironment(l.environmentAt(prefix))
	}

	// An explicitly configured conda binary is reported first; its
	// install root joins the walk through l.roots().
	if exe := l.env.CondaExecutable; exe != "" {
		if info, err := os.Stat(exe); err == nil && info.Mode().IsRegular() {
			reportMgr(envs.Manager{
				Executable: exe,
				Tool:       envs.ToolConda,
				Version:    condaPackageVersion(filepath.Dir(filepath.Dir(exe)), "conda"),
			})
		}
	}

	for _, root := range l.roots() {
		if ctx.Err() != nil {
			return
		}
		if mgr := condaManager(root); mgr != nil {
			reportMgr(*mgr)
		}
		report(root)
		entries, err := os.ReadDir(filepath.Join(root, "envs"))
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				report(filepath.Join(root, "envs", entry.Name()))
			}
		}
	}

	// environments.txt records envs created at arbitrary prefixes
	// (conda create -p), which no root walk would find.
	for _, prefix := range l.registeredEnvironments() {
		if ctx.Err() != nil {
			return
		}
		report(prefix)
	}
}

// roots returns every plausible conda installation root: well-known
// install locations, CONDA_ROOT, and any envs_dirs parent from
// ~/.condarc.
func (l *Conda) roots() []string {
	roots := l.env.CondaRoots()
	for _, dir := range l.condarcEnvDirs() {
		// envs_dirs entries are <root>/envs; the root is one up.
		if filepath.Base(dir) == "envs" {
			roots = append(roots, filepath.Dir(dir))
		}
	}

	var out []string
	seen := make(map[string]struct{})
	for _, root := range roots {
		root = filepath.Clean(root)
		if _, dup := seen[root]; dup {
			continue
		}
		seen[root] = struct{}{}
		if isCondaRoot(root) {
			out = append(out, root)
		}
	}
	return out
}

func (l *Conda) condarcEnvDirs() []string {
	rc := filepath.Join(l.env.Home, ".condarc")
	data, err := fileutil.ReadFileWithLimit(rc, fileutil.MaxFileSize)
	if err != nil {
		return nil
	}
	var parsed struct {
		EnvsDirs []string `yaml:"envs_dirs"`
	}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil
	}
	var dirs []string
	for _, dir := range parsed.EnvsDirs {
		dirs = append(dirs, paths.ExpandUser(dir))
	}
	return dirs
}

func (l *Conda) registeredEnvironments() []string {
	txt := l.env.CondaEnvironmentsTxt()
	if txt == "" {
		return nil
	}
	data, err := fileutil.ReadFileWithLimit(txt, fileutil.MaxFileSize)
	if err != nil {
		return nil
	}
	var prefixes []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			prefixes = append(prefixes, line)
		}
	}
	return prefixes
}

func (l *Conda) environmentAt(prefix string) envs.Environment {
	b := envs.NewBuilder(envs.KindConda).
		Prefix(prefix).
		Version(condaPackageVersion(prefix, "python"))

	if exe, broken := python.FindExecutableOrBroken(prefix); exe != "" {
		b.Executable(exe)
		if broken {
			b.Error("interpreter is a dangling symlink: " + exe)
		}
	}

	root := prefix
	if filepath.Base(filepath.Dir(prefix)) == "envs" {
		b.Name(filepath.Base(prefix))
		root = filepath.Dir(filepath.Dir(prefix))
	} else {
		b.Name("base")
	}
	b.Manager(condaManager(root))
	return b.Build()
}

// isCondaPrefix reports whether prefix is a conda environment. The
// conda-meta directory is the marker; pixi environments carry the same
// directory plus a pixi file and belong to the pixi locator.
func isCondaPrefix(prefix string) bool {
	info, err := os.Stat(filepath.Join(prefix, condaMetaDir))
	if err != nil || !info.IsDir() {
		return false
	}
	if _, err := os.Stat(filepath.Join(prefix, condaMetaDir, "pixi")); err == nil {
		return false
	}
	return true
}

// isCondaRoot reports whether root is an installation root rather than
// a leaf environment: it carries its own conda-meta plus the install
// machinery (envs or condabin).
func isCondaRoot(root string) bool {
	if !isCondaPrefix(root) {
		return false
	}
	for _, marker := range []string{"envs", "condabin"} {
		if info, err := os.Stat(filepath.Join(root, marker)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

// Conda records every installed package as
// conda-meta/<name>-<version>-<build>.json; the filename alone carries
// the version.
func condaPackageVersion(prefix, pkg string) string {
	entries, err := os.ReadDir(filepath.Join(prefix, condaMetaDir))
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		rest, found := strings.CutPrefix(entry.Name(), pkg+"-")
		if !found {
			continue
		}
		version, build, found := strings.Cut(rest, "-")
		if !found || !strings.HasSuffix(build, ".json") {
			continue
		}
		// Skip packages that merely share the name prefix, such as
		// python-dateutil when asked about python.
		if version == "" || version[0] < '0' || version[0] > '9' {
			continue
		}
		return version
	}
	return ""
}

func condaManager(root string) *envs.Manager {
	for _, dir := range []string{"condabin", "bin", "Scripts"} {
		for _, name := range []string{"conda", "conda.exe"} {
			exe := filepath.Join(root, dir, name)
			if info, err := os.Stat(exe); err == nil && info.Mode().IsRegular() {
				return &envs.Manager{
					Executable: exe,
					Tool:       envs.ToolConda,
					Version:    condaPackageVersion(root, "conda"),
				}
			}
		}
	}
	return nil
}
