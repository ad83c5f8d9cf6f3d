//go:build !windows

package discovery

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/pyscout/internal/envs"
	"github.com/thoreinstein/pyscout/internal/locators"
	"github.com/thoreinstein/pyscout/internal/logging"
	"github.com/thoreinstein/pyscout/internal/paths"
	"github.com/thoreinstein/pyscout/internal/reporter"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o755))
}

func venv(t *testing.T, root, version string) {
	t.Helper()
	write(t, filepath.Join(root, "pyvenv.cfg"), "version = "+version+"\n")
	write(t, filepath.Join(root, "bin", "python"), "")
}

func scan(t *testing.T, cfg Config) (*reporter.Dedup, Summary) {
	t.Helper()
	scanner := New(locators.NewRegistry(cfg.Env), logging.ForTest(t))
	dedup := reporter.NewDedup(reporter.NewCollector())
	summary := scanner.Discover(context.Background(), cfg, dedup)
	return dedup, summary
}

func TestDiscoverSweep(t *testing.T) {
	home := t.TempDir()

	// Workon home env.
	venv(t, filepath.Join(home, ".virtualenvs", "wrapped"), "3.10.2")
	// Conda install.
	conda := filepath.Join(home, "miniconda3")
	write(t, filepath.Join(conda, "conda-meta", "python-3.11.4-h0_0.json"), "{}")
	write(t, filepath.Join(conda, "bin", "python"), "")
	write(t, filepath.Join(conda, "bin", "conda"), "")
	require.NoError(t, os.MkdirAll(filepath.Join(conda, "envs"), 0o755))
	// PATH interpreter.
	pathDir := filepath.Join(home, "usrbin")
	write(t, filepath.Join(pathDir, "python3.12"), "")
	// Workspace with an in-project venv.
	workspace := filepath.Join(home, "src", "api")
	venv(t, filepath.Join(workspace, ".venv"), "3.12.1")
	// Extra environment dir holding an unclassifiable interpreter.
	extra := filepath.Join(home, "exotic")
	write(t, filepath.Join(extra, "mystery", "bin", "python"), "")

	cfg := Config{
		Env:             paths.Env{Home: home, SystemRoot: home, Path: []string{pathDir}},
		Workspaces:      []string{workspace},
		EnvironmentDirs: []string{extra},
		SkipProbe:       true,
	}
	dedup, summary := scan(t, cfg)

	byKind := make(map[envs.Kind][]envs.Environment)
	for _, env := range dedup.Environments() {
		byKind[env.Kind] = append(byKind[env.Kind], env)
	}

	require.Len(t, byKind[envs.KindVirtualEnvWrapper], 1)
	assert.Equal(t, "wrapped", byKind[envs.KindVirtualEnvWrapper][0].Name)

	require.Len(t, byKind[envs.KindConda], 1)
	assert.Equal(t, conda, byKind[envs.KindConda][0].Prefix)

	require.Len(t, byKind[envs.KindGlobalPaths], 1)
	assert.Equal(t, "3.12", byKind[envs.KindGlobalPaths][0].Version)

	require.Len(t, byKind[envs.KindVenv], 1)
	assert.Equal(t, filepath.Join(workspace, ".venv"), byKind[envs.KindVenv][0].Prefix)

	require.Len(t, byKind[envs.KindUnknown], 1)
	assert.Equal(t, filepath.Join(extra, "mystery", "bin", "python"), byKind[envs.KindUnknown][0].Executable)

	assert.Greater(t, summary.Total.Nanoseconds(), int64(0))
}

func TestDiscoverReportsBrokenSymlink(t *testing.T) {
	home := t.TempDir()
	root := filepath.Join(home, ".virtualenvs", "stale")
	write(t, filepath.Join(root, "pyvenv.cfg"), "version = 3.9.0\n")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bin"), 0o755))
	require.NoError(t, os.Symlink(filepath.Join(home, "gone"), filepath.Join(root, "bin", "python")))

	dedup, _ := scan(t, Config{Env: paths.Env{Home: home, SystemRoot: home}, SkipProbe: true})

	got := dedup.Environments()
	require.Len(t, got, 1)
	assert.Equal(t, envs.KindVirtualEnvWrapper, got[0].Kind)
	assert.Contains(t, got[0].Error, "dangling symlink")
}

func TestDiscoverDeduplicatesAcrossPhases(t *testing.T) {
	home := t.TempDir()
	root := filepath.Join(home, ".virtualenvs", "dup")
	venv(t, root, "3.11.0")
	// The same env's bin dir is also on PATH.
	cfg := Config{
		Env:       paths.Env{Home: home, SystemRoot: home, Path: []string{filepath.Join(root, "bin")}},
		SkipProbe: true,
	}
	dedup, _ := scan(t, cfg)
	assert.Len(t, dedup.Environments(), 1)
}

func TestRefreshByKind(t *testing.T) {
	home := t.TempDir()
	venv(t, filepath.Join(home, ".virtualenvs", "wrapped"), "3.10.2")
	conda := filepath.Join(home, "miniconda3")
	write(t, filepath.Join(conda, "conda-meta", "python-3.11.4-h0_0.json"), "{}")
	write(t, filepath.Join(conda, "bin", "python"), "")
	require.NoError(t, os.MkdirAll(filepath.Join(conda, "envs"), 0o755))

	env := paths.Env{Home: home, SystemRoot: home}
	scanner := New(locators.NewRegistry(env), logging.ForTest(t))
	dedup := reporter.NewDedup(reporter.NewCollector())
	scanner.Refresh(context.Background(), Config{Env: env}, Scope{Kinds: []envs.Kind{envs.KindConda}}, dedup)

	got := dedup.Environments()
	require.Len(t, got, 1, "only the conda enumeration ran")
	assert.Equal(t, envs.KindConda, got[0].Kind)
}

func TestRefreshByPathGlob(t *testing.T) {
	home := t.TempDir()
	venv(t, filepath.Join(home, "projects", "a", ".venv"), "3.12.0")
	venv(t, filepath.Join(home, "projects", "b", ".venv"), "3.11.0")
	venv(t, filepath.Join(home, "elsewhere", "c", ".venv"), "3.10.0")

	env := paths.Env{Home: home, SystemRoot: home}
	scanner := New(locators.NewRegistry(env), logging.ForTest(t))
	dedup := reporter.NewDedup(reporter.NewCollector())
	scanner.Refresh(context.Background(), Config{Env: env},
		Scope{Paths: []string{filepath.Join(home, "projects", "**", ".venv")}}, dedup)

	got := dedup.Environments()
	require.Len(t, got, 2)
	for _, e := range got {
		assert.Equal(t, envs.KindVenv, e.Kind)
	}
}
