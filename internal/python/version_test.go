//go:build !windows

package python

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionFromPrefix(t *testing.T) {
	prefix := t.TempDir()
	writeFile(t, filepath.Join(prefix, "pyvenv.cfg"), "version = 3.11.4\n")
	writeFile(t, filepath.Join(prefix, "include", "patchlevel.h"), patchlevel)

	assert.Equal(t, "3.11.4", VersionFromPrefix(prefix), "manifest wins over headers")
}

func TestVersionFromPrefixHeadersFallback(t *testing.T) {
	prefix := t.TempDir()
	writeFile(t, filepath.Join(prefix, "include", "patchlevel.h"), patchlevel)

	assert.Equal(t, "3.10.2", VersionFromPrefix(prefix))
}

func TestVersionForVirtualEnvOwnHeaders(t *testing.T) {
	env := t.TempDir()
	writeFile(t, filepath.Join(env, "include", "patchlevel.h"), patchlevel)

	assert.Equal(t, "3.10.2", VersionForVirtualEnv(env))
}

func TestVersionForVirtualEnvCreatorHeaders(t *testing.T) {
	base := t.TempDir()

	install := filepath.Join(base, "install")
	writeFile(t, filepath.Join(install, "bin", "python3.10"), "")
	writeFile(t, filepath.Join(install, "include", "patchlevel.h"), patchlevel)

	env := filepath.Join(base, "env")
	require.NoError(t, os.MkdirAll(filepath.Join(env, "bin"), 0o755))
	require.NoError(t, os.Symlink(
		filepath.Join(install, "bin", "python3.10"),
		filepath.Join(env, "bin", "python"),
	))

	assert.Equal(t, "3.10.2", VersionForVirtualEnv(env))
}

func TestVersionForVirtualEnvNoCreator(t *testing.T) {
	env := t.TempDir()
	writeFile(t, filepath.Join(env, "bin", "python"), "")

	assert.Empty(t, VersionForVirtualEnv(env))
}

func TestVersionFromFilename(t *testing.T) {
	tests := []struct {
		exe  string
		want string
	}{
		{"/usr/bin/python3.11", "3.11"},
		{"/usr/bin/python3", ""},
		{"/usr/bin/python", ""},
		{"/envs/demo/bin/python2.7", "2.7"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, VersionFromFilename(tt.exe), tt.exe)
	}
}
