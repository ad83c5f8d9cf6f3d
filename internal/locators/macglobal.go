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
	"github.com/thoreinstein/pyscout/pkg/fileutil"
)

// MacPythonOrg finds python.org framework installs under
// /Library/Frameworks/Python.framework, one environment per installed
// version.
type MacPythonOrg struct {
	root string
}

func NewMacPythonOrg(env paths.Env) *MacPythonOrg {
	return &MacPythonOrg{root: env.SystemRoot}
}

func (l *MacPythonOrg) Kind() envs.Kind { return envs.KindMacPythonOrg }
func (l *MacPythonOrg) Categories() []envs.Kind { return []envs.Kind{envs.KindMacPythonOrg} }

func (l *MacPythonOrg) versionsDir() string {
	return filepath.Join(l.root, "/Library/Frameworks/Python.framework/Versions")
}

func (l *MacPythonOrg) Confirm(c *Candidate) *envs.Environment {
	if c.PyVenvCfg() != nil {
		return nil
	}
	target := fileutil.ResolveSymlink(c.Executable)
	if target == "" {
		target = c.Executable
	}
	if !isUnder(l.versionsDir(), target) {
		return nil
	}
	prefix := frameworkVersionPrefix(l.versionsDir(), target)
	env := l.environmentAt(prefix)
	return &env
}

func (l *MacPythonOrg) Enumerate(ctx context.Context, rep reporter.Interface) {
	entries, err := os.ReadDir(l.versionsDir())
	if err != nil {
		return
	}
	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}
		if entry.Name() == "Current" {
			continue
		}
		rep.ReportEnvironment(l.environmentAt(filepath.Join(l.versionsDir(), entry.Name())))
	}
}

func (l *MacPythonOrg) environmentAt(prefix string) envs.Environment {
	b := envs.NewBuilder(envs.KindMacPythonOrg).Prefix(prefix)
	if exe, broken := python.FindExecutableOrBroken(prefix); exe != "" {
		b.Executable(exe)
		if broken {
			b.Error("interpreter is a dangling symlink: " + exe)
		}
	}
	version := python.VersionFromHeaders(prefix)
	if version == "" {
		// The directory name is the series, e.g. Versions/3.12.
		version = filepath.Base(prefix)
	}
	return b.Version(version).Build()
}

// frameworkVersionPrefix maps any path inside Versions/<v>/... back to
// Versions/<v>.
func frameworkVersionPrefix(versionsDir, path string) string {
	rel, err := filepath.Rel(versionsDir, path)
	if err != nil {
		return filepath.Dir(filepath.Dir(path))
	}
	parts := strings.Split(rel, string(filepath.Separator))
	return filepath.Join(versionsDir, parts[0])
}

// MacCommandLineTools finds the Python bundled with the Xcode command
// line tools; /usr/bin/python3 is a shim that executes it.
type MacCommandLineTools struct {
	root string
}

func NewMacCommandLineTools(env paths.Env) *MacCommandLineTools {
	return &MacCommandLineTools{root: env.SystemRoot}
}

func (l *MacCommandLineTools) Kind() envs.Kind { return envs.KindMacCommandLineTools }
func (l *MacCommandLineTools) Categories() []envs.Kind {
	return []envs.Kind{envs.KindMacCommandLineTools}
}

func (l *MacCommandLineTools) toolsDir() string {
	return filepath.Join(l.root, "/Library/Developer/CommandLineTools")
}

func (l *MacCommandLineTools) Confirm(c *Candidate) *envs.Environment {
	if c.PyVenvCfg() != nil {
		return nil
	}
	target := fileutil.ResolveSymlink(c.Executable)
	if target == "" {
		target = c.Executable
	}
	if !isUnder(l.toolsDir(), target) {
		return nil
	}
	env := l.environmentFor(c.Executable, target)
	return &env
}

func (l *MacCommandLineTools) Enumerate(ctx context.Context, rep reporter.Interface) {
	dir := filepath.Join(l.toolsDir(), "usr", "bin")
	for _, exe := range python.FindExecutables(dir) {
		if ctx.Err() != nil {
			return
		}
		target := fileutil.ResolveSymlink(exe)
		if target == "" {
			target = exe
		}
		rep.ReportEnvironment(l.environmentFor(exe, target))
	}
}

func (l *MacCommandLineTools) environmentFor(exe, target string) envs.Environment {
	// The real interpreter sits inside the bundled framework:
	// CommandLineTools/Library/Frameworks/Python3.framework/Versions/3.9
	prefix := filepath.Dir(filepath.Dir(target))
	version := python.VersionFromHeaders(prefix)
	if version == "" {
		version = python.VersionFromFilename(target)
	}
	return envs.NewBuilder(envs.KindMacCommandLineTools).
		Executable(exe).
		Symlinks(target).
		Prefix(prefix).
		Version(version).
		Build()
}

// MacXCode finds the Python embedded in a full Xcode install.
type MacXCode struct {
	root string
}

func NewMacXCode(env paths.Env) *MacXCode {
	return &MacXCode{root: env.SystemRoot}
}

func (l *MacXCode) Kind() envs.Kind { return envs.KindMacXCode }
func (l *MacXCode) Categories() []envs.Kind { return []envs.Kind{envs.KindMacXCode} }

func (l *MacXCode) Confirm(c *Candidate) *envs.Environment {
	target := fileutil.ResolveSymlink(c.Executable)
	if target == "" {
		target = c.Executable
	}
	if !strings.Contains(target, "/Xcode.app/") {
		return nil
	}
	prefix := filepath.Dir(filepath.Dir(target))
	env := envs.NewBuilder(envs.KindMacXCode).
		Executable(c.Executable).
		Symlinks(target).
		Prefix(prefix).
		Version(python.VersionFromHeaders(prefix)).
		Build()
	return &env
}

// Enumerate is a no-op; Xcode interpreters surface through PATH.
func (l *MacXCode) Enumerate(ctx context.Context, rep reporter.Interface) {}
