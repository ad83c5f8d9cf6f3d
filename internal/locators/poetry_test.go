//go:build !windows

package locators

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/pyscout/internal/envs"
	"github.com/thoreinstein/pyscout/internal/paths"
	"github.com/thoreinstein/pyscout/internal/reporter"
)

func TestPoetryEnumerateConfiguredPath(t *testing.T) {
	home := t.TempDir()
	env := paths.Env{Home: home}
	venvs := filepath.Join(home, "poetry-venvs")

	writeFixture(t, filepath.Join(env.PoetryConfigDir(), "config.toml"),
		"[virtualenvs]\npath = \""+venvs+"\"\n")

	name := EnvDirName("demo-api", filepath.Join(home, "src", "demo-api"), "3.11.4")
	prefix := filepath.Join(venvs, name)
	writeFixture(t, filepath.Join(prefix, "pyvenv.cfg"), "version = 3.11.4\nprompt = demo-api\n")
	writeFixture(t, filepath.Join(prefix, "bin", "python"), "")

	sink := reporter.NewCollector()
	NewPoetry(env).Enumerate(context.Background(), sink)

	got := sink.Environments()
	require.Len(t, got, 1)
	assert.Equal(t, envs.KindPoetry, got[0].Kind)
	assert.Equal(t, name, got[0].Name)
	assert.Equal(t, "demo-api", got[0].DisplayName)
	assert.Equal(t, "3.11.4", got[0].Version)
}

func TestPoetryManagerLocations(t *testing.T) {
	home := t.TempDir()

	configured := filepath.Join(home, "tools", "poetry")
	writeFixture(t, configured, "")
	fromHome := filepath.Join(home, "poetry-home", "bin", "poetry")
	writeFixture(t, fromHome, "")

	mgr := poetryManager(paths.Env{Home: home, PoetryExecutable: configured})
	require.NotNil(t, mgr)
	assert.Equal(t, configured, mgr.Executable, "configured path wins")
	assert.Equal(t, envs.ToolPoetry, mgr.Tool)

	mgr = poetryManager(paths.Env{Home: home, PoetryHome: filepath.Join(home, "poetry-home")})
	require.NotNil(t, mgr)
	assert.Equal(t, fromHome, mgr.Executable, "POETRY_HOME install found without PATH")
}

func TestPoetryConfirmCentralized(t *testing.T) {
	home := t.TempDir()
	env := paths.Env{Home: home}
	venvs := filepath.Join(env.PoetryDataDir(), "virtualenvs")

	prefix := filepath.Join(venvs, EnvDirName("demo", "/work/demo", "3.12.0"))
	c := venvFixture(t, prefix, "version = 3.12.0\n")

	got := NewPoetry(env).Confirm(c)
	require.NotNil(t, got)
	assert.Equal(t, envs.KindPoetry, got.Kind)
}

func TestPoetryConfirmInProject(t *testing.T) {
	home := t.TempDir()
	project := filepath.Join(home, "work", "demo")
	writeFixture(t, filepath.Join(project, "pyproject.toml"),
		"[tool.poetry]\nname = \"demo\"\nversion = \"0.1.0\"\n")
	c := venvFixture(t, filepath.Join(project, ".venv"), "version = 3.12.0\n")

	got := NewPoetry(paths.Env{Home: home}).Confirm(c)
	require.NotNil(t, got)
	assert.Equal(t, envs.KindPoetry, got.Kind)
	assert.Equal(t, project, got.Project)
}

func TestPoetryConfirmRejectsPlainVenv(t *testing.T) {
	home := t.TempDir()
	c := venvFixture(t, filepath.Join(home, "env"), "version = 3.12.0\n")
	assert.Nil(t, NewPoetry(paths.Env{Home: home}).Confirm(c))
}

func TestPoetryEnvDirName(t *testing.T) {
	name := EnvDirName("demo api", "/work/demo", "3.11.4")
	assert.Regexp(t, regexp.MustCompile(`^demo_api-[A-Za-z0-9_-]{8}-py3\.11$`), name)
	assert.Equal(t, name, EnvDirName("demo api", "/work/demo", "3.11.9"),
		"name depends on the series, not the patch level")
	assert.NotEqual(t, name, EnvDirName("demo api", "/work/other", "3.11.4"))
}
