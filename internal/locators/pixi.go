package locators

import (
	"context"
	"os"
	"path/filepath"

	"github.com/thoreinstein/pyscout/internal/envs"
	"github.com/thoreinstein/pyscout/internal/python"
	"github.com/thoreinstein/pyscout/internal/reporter"
)

// Pixi confirms pixi project environments. They live inside the
// project at .pixi/envs/<name> and use conda's on-disk layout plus a
// conda-meta/pixi marker file; the workspace scan produces the
// candidates, so there is nothing to enumerate globally.
type Pixi struct{}

func NewPixi() *Pixi { return &Pixi{} }

func (l *Pixi) Kind() envs.Kind { return envs.KindPixi }
func (l *Pixi) Categories() []envs.Kind { return []envs.Kind{envs.KindPixi} }

func (l *Pixi) Confirm(c *Candidate) *envs.Environment {
	prefix := c.Prefix()
	if !isPixiPrefix(prefix) {
		return nil
	}

	b := envs.NewBuilder(envs.KindPixi).
		Prefix(prefix).
		Name(filepath.Base(prefix)).
		Version(condaPackageVersion(prefix, "python"))

	if exe, broken := python.FindExecutableOrBroken(prefix); exe != "" {
		b.Executable(exe)
		if broken {
			b.Error("interpreter is a dangling symlink: " + exe)
		}
	}

	// <project>/.pixi/envs/<name>
	if envsDir := filepath.Dir(prefix); filepath.Base(envsDir) == "envs" {
		if pixiDir := filepath.Dir(envsDir); filepath.Base(pixiDir) == ".pixi" {
			b.Project(filepath.Dir(pixiDir))
		}
	}

	env := b.Build()
	return &env
}

func (l *Pixi) Enumerate(ctx context.Context, rep reporter.Interface) {}

func isPixiPrefix(prefix string) bool {
	info, err := os.Stat(filepath.Join(prefix, condaMetaDir, "pixi"))
	return err == nil && info.Mode().IsRegular()
}
