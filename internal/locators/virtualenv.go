package locators

import (
	"context"
	"os"
	"path/filepath"

	"github.com/thoreinstein/pyscout/internal/envs"
	"github.com/thoreinstein/pyscout/internal/python"
	"github.com/thoreinstein/pyscout/internal/reporter"
)

// VirtualEnv claims environments from the old virtualenv tool, which
// predates pyvenv.cfg. The marker is the family of activate scripts
// next to the interpreter. Modern virtualenv writes a pyvenv.cfg and
// is claimed upstream as a venv; only genuinely old environments
// reach this locator.
type VirtualEnv struct{}

func NewVirtualEnv() *VirtualEnv { return &VirtualEnv{} }

func (l *VirtualEnv) Kind() envs.Kind { return envs.KindVirtualEnv }
func (l *VirtualEnv) Categories() []envs.Kind { return []envs.Kind{envs.KindVirtualEnv} }

func (l *VirtualEnv) Confirm(c *Candidate) *envs.Environment {
	binDir := filepath.Dir(c.Executable)
	if !hasActivateScripts(binDir) {
		return nil
	}
	prefix := c.Prefix()
	env := envs.NewBuilder(envs.KindVirtualEnv).
		Prefix(prefix).
		Name(filepath.Base(prefix)).
		Executable(c.Executable).
		Version(python.VersionForVirtualEnv(prefix)).
		Build()
	return &env
}

func (l *VirtualEnv) Enumerate(ctx context.Context, rep reporter.Interface) {}

func hasActivateScripts(binDir string) bool {
	for _, script := range []string{"activate", "activate.csh", "activate.fish", "activate.bat", "activate.ps1"} {
		if _, err := os.Stat(filepath.Join(binDir, script)); err == nil {
			return true
		}
	}
	return false
}
