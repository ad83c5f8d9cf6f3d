package locators

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/thoreinstein/pyscout/internal/envs"
	"github.com/thoreinstein/pyscout/internal/python"
	"github.com/thoreinstein/pyscout/internal/reporter"
	"github.com/thoreinstein/pyscout/pkg/fileutil"
)

// Pipenv confirms pipenv-managed environments. Pipenv drops a .project
// file holding the project directory into each env it creates; that
// file is the marker, wherever the env lives. The shared virtualenv
// directory scan produces the candidates.
type Pipenv struct{}

func NewPipenv() *Pipenv { return &Pipenv{} }

func (l *Pipenv) Kind() envs.Kind { return envs.KindPipenv }
func (l *Pipenv) Categories() []envs.Kind { return []envs.Kind{envs.KindPipenv} }

func (l *Pipenv) Confirm(c *Candidate) *envs.Environment {
	prefix := c.Prefix()
	data, err := fileutil.ReadFileWithLimit(filepath.Join(prefix, ".project"), fileutil.MaxFileSize)
	if err != nil {
		return nil
	}
	project := strings.TrimSpace(string(data))
	if project == "" {
		return nil
	}

	b := envs.NewBuilder(envs.KindPipenv).
		Prefix(prefix).
		Name(filepath.Base(prefix)).
		Project(project).
		Executable(c.Executable)
	if cfg := c.PyVenvCfg(); cfg != nil {
		b.Version(cfg.Version)
	} else {
		b.Version(python.VersionFromPrefix(prefix))
	}
	env := b.Build()
	return &env
}

func (l *Pipenv) Enumerate(ctx context.Context, rep reporter.Interface) {}
