//go:build !windows

package locators

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/pyscout/internal/envs"
	"github.com/thoreinstein/pyscout/internal/paths"
	"github.com/thoreinstein/pyscout/internal/reporter"
)

func TestPyenvVersionDirNames(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"3.11.4", true},
		{"3.13.0a2", true},
		{"3.12-dev", true},
		{"3.13.0t", true},
		{"3.10", true},
		{"my-env", false},
		{"miniconda3-latest", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pyenvVersionDirRe.MatchString(tt.name), tt.name)
	}
}

func TestPyenvEnumerate(t *testing.T) {
	home := t.TempDir()
	root := filepath.Join(home, ".pyenv")
	versions := filepath.Join(root, "versions")

	writeFixture(t, filepath.Join(root, "bin", "pyenv"), "")

	// Plain CPython build.
	writeFixture(t, filepath.Join(versions, "3.11.4", "bin", "python"), "")
	writeFixture(t, filepath.Join(versions, "3.11.4", "include", "python3.11", "patchlevel.h"),
		"#define PY_VERSION              \"3.11.4\"\n")
	// pyenv-virtualenv environment.
	writeFixture(t, filepath.Join(versions, "webapp", "pyvenv.cfg"), "version = 3.11.4\n")
	writeFixture(t, filepath.Join(versions, "webapp", "bin", "python"), "")
	// Miniconda installed through pyenv stays conda.
	conda := filepath.Join(versions, "miniconda3-latest")
	writeFixture(t, filepath.Join(conda, "conda-meta", "python-3.10.8-h0_0.json"), "{}")
	writeFixture(t, filepath.Join(conda, "bin", "python"), "")
	writeFixture(t, filepath.Join(conda, "condabin", "conda"), "")

	sink := reporter.NewCollector()
	NewPyenv(paths.Env{Home: home, PyenvRoot: root}).Enumerate(context.Background(), sink)

	got := sink.Environments()
	require.Len(t, got, 3)

	byPrefix := make(map[string]envs.Environment)
	for _, env := range got {
		byPrefix[env.Prefix] = env
	}

	installed := byPrefix[filepath.Join(versions, "3.11.4")]
	assert.Equal(t, envs.KindPyenv, installed.Kind)
	assert.Equal(t, "3.11.4", installed.Version)

	virtual := byPrefix[filepath.Join(versions, "webapp")]
	assert.Equal(t, envs.KindPyenvVirtualEnv, virtual.Kind)
	assert.Equal(t, "webapp", virtual.Name)
	assert.Equal(t, "3.11.4", virtual.Version)

	assert.Equal(t, envs.KindConda, byPrefix[conda].Kind)

	mgrs := sink.Managers()
	require.Len(t, mgrs, 1)
	assert.Equal(t, envs.ToolPyenv, mgrs[0].Tool)
	assert.Equal(t, filepath.Join(root, "bin", "pyenv"), mgrs[0].Executable)
}

func TestPyenvConfirm(t *testing.T) {
	home := t.TempDir()
	root := filepath.Join(home, ".pyenv")
	exe := filepath.Join(root, "versions", "3.12.1", "bin", "python")
	writeFixture(t, exe, "")

	loc := NewPyenv(paths.Env{Home: home, PyenvRoot: root})
	got := loc.Confirm(NewCandidate(exe))
	require.NotNil(t, got)
	assert.Equal(t, envs.KindPyenv, got.Kind)
	assert.Equal(t, "3.12.1", got.Version)

	outside := filepath.Join(t.TempDir(), "bin", "python")
	writeFixture(t, outside, "")
	assert.Nil(t, loc.Confirm(NewCandidate(outside)))
}
