package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalVirtualEnvDirs(t *testing.T) {
	home := t.TempDir()
	workon := filepath.Join(home, "workon")
	require.NoError(t, os.MkdirAll(workon, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".virtualenvs"), 0o755))
	// .venvs deliberately absent.

	env := Env{Home: home, WorkonHome: workon}
	dirs := env.GlobalVirtualEnvDirs()

	assert.Contains(t, dirs, workon)
	assert.Contains(t, dirs, filepath.Join(home, ".virtualenvs"))
	assert.NotContains(t, dirs, filepath.Join(home, ".venvs"))
}

func TestGlobalVirtualEnvDirsEmptyEnv(t *testing.T) {
	assert.Empty(t, Env{}.GlobalVirtualEnvDirs())
}

func TestUvEnvironmentDirs(t *testing.T) {
	cache := t.TempDir()
	envDir := filepath.Join(cache, "environments-v2")
	require.NoError(t, os.MkdirAll(envDir, 0o755))

	env := Env{UvCacheDir: cache}
	assert.Equal(t, []string{envDir}, env.UvEnvironmentDirs())

	// UV_CACHE_DIR set but no environments directory inside.
	empty := t.TempDir()
	assert.Empty(t, Env{UvCacheDir: empty}.UvEnvironmentDirs())
}

func TestPyenvDirs(t *testing.T) {
	home := t.TempDir()
	root := filepath.Join(home, ".pyenv")
	require.NoError(t, os.MkdirAll(root, 0o755))

	gotRoot, gotVersions := Env{Home: home}.PyenvDirs()
	assert.Equal(t, root, gotRoot)
	assert.Equal(t, filepath.Join(root, "versions"), gotVersions)

	// PYENV_ROOT wins over ~/.pyenv.
	custom := filepath.Join(home, "custom-pyenv")
	require.NoError(t, os.MkdirAll(custom, 0o755))
	gotRoot, _ = Env{Home: home, PyenvRoot: custom}.PyenvDirs()
	assert.Equal(t, custom, gotRoot)

	// Nonexistent root yields nothing.
	gotRoot, gotVersions = Env{Home: filepath.Join(home, "nope")}.PyenvDirs()
	assert.Empty(t, gotRoot)
	assert.Empty(t, gotVersions)
}

func TestSearchPathsDedup(t *testing.T) {
	dir := t.TempDir()
	env := Env{Path: []string{dir, dir, ""}}
	paths := env.SearchPaths()
	require.Len(t, paths, 1)
}

func TestExpandUser(t *testing.T) {
	home := Home()
	if home == "" {
		t.Skip("no home directory")
	}
	assert.Equal(t, filepath.Join(home, "x"), ExpandUser("~/x"))
	assert.Equal(t, home, ExpandUser("~"))
	assert.Equal(t, "/abs/path", ExpandUser("/abs/path"))
}

func TestBinDirName(t *testing.T) {
	if runtime.GOOS == "windows" {
		assert.Equal(t, "Scripts", BinDirName())
	} else {
		assert.Equal(t, "bin", BinDirName())
	}
}

func TestCondaRootsIncludeHomeInstalls(t *testing.T) {
	env := Env{Home: "/home/u"}
	roots := env.CondaRoots()
	assert.Contains(t, roots, "/home/u/anaconda3")
	assert.Contains(t, roots, "/home/u/miniconda3")
	assert.Contains(t, roots, "/opt/conda")
}

func TestCondaRootsFromExecutableHint(t *testing.T) {
	env := Env{Home: "/home/u", CondaExecutable: "/srv/mambaforge/bin/conda"}
	assert.Contains(t, env.CondaRoots(), "/srv/mambaforge")
}
