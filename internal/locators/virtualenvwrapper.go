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

// VirtualEnvWrapper finds environments under the workon home:
// $WORKON_HOME when set, ~/.virtualenvs otherwise.
type VirtualEnvWrapper struct {
	env paths.Env
}

func NewVirtualEnvWrapper(env paths.Env) *VirtualEnvWrapper {
	return &VirtualEnvWrapper{env: env}
}

func (l *VirtualEnvWrapper) Kind() envs.Kind { return envs.KindVirtualEnvWrapper }
func (l *VirtualEnvWrapper) Categories() []envs.Kind { return []envs.Kind{envs.KindVirtualEnvWrapper} }

func (l *VirtualEnvWrapper) Confirm(c *Candidate) *envs.Environment {
	prefix := c.Prefix()
	home := l.workonHome()
	if home == "" || filepath.Dir(prefix) != home {
		return nil
	}
	env := l.environmentAt(prefix, c)
	return &env
}

func (l *VirtualEnvWrapper) Enumerate(ctx context.Context, rep reporter.Interface) {
	home := l.workonHome()
	entries, err := os.ReadDir(home)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}
		if !entry.IsDir() {
			continue
		}
		prefix := filepath.Join(home, entry.Name())
		exe, broken := python.FindExecutableOrBroken(prefix)
		if exe == "" {
			continue
		}
		c := NewPrefixCandidate(exe, prefix)
		env := l.environmentAt(prefix, c)
		if broken {
			env = envs.FromEnvironment(env).Error("interpreter is a dangling symlink: " + exe).Build()
		}
		rep.ReportEnvironment(env)
	}
}

func (l *VirtualEnvWrapper) environmentAt(prefix string, c *Candidate) envs.Environment {
	b := envs.NewBuilder(envs.KindVirtualEnvWrapper).
		Prefix(prefix).
		Name(filepath.Base(prefix)).
		Executable(c.Executable)
	if cfg := c.PyVenvCfg(); cfg != nil {
		b.Version(cfg.Version)
		if cfg.Prompt != "" {
			b.DisplayName(cfg.Prompt)
		}
	} else {
		b.Version(python.VersionFromPrefix(prefix))
	}
	return b.Build()
}

func (l *VirtualEnvWrapper) workonHome() string {
	if l.env.WorkonHome != "" {
		return filepath.Clean(paths.ExpandUser(l.env.WorkonHome))
	}
	if l.env.Home == "" {
		return ""
	}
	return filepath.Join(l.env.Home, ".virtualenvs")
}
