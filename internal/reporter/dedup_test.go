//go:build !windows

package reporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/pyscout/internal/envs"
)

func TestDedupForwardsFirstSightingOnly(t *testing.T) {
	sink := NewCollector()
	dedup := NewDedup(sink)

	env := envs.NewBuilder(envs.KindVenv).
		Executable("/envs/demo/bin/python").
		Prefix("/envs/demo").
		Build()
	dedup.ReportEnvironment(env)
	dedup.ReportEnvironment(env)

	assert.Len(t, sink.Environments(), 1)
}

func TestDedupMergesLaterSighting(t *testing.T) {
	sink := NewCollector()
	dedup := NewDedup(sink)

	dedup.ReportEnvironment(envs.NewBuilder(envs.KindVenv).
		Executable("/envs/demo/bin/python").
		Prefix("/envs/demo").
		Build())
	dedup.ReportEnvironment(envs.NewBuilder(envs.KindGlobalPaths).
		Executable("/envs/demo/bin/python3").
		Prefix("/envs/demo").
		Version("3.11.4").
		Build())

	// The sink saw only the first sighting.
	require.Len(t, sink.Environments(), 1)

	merged := dedup.Environments()
	require.Len(t, merged, 1)
	assert.Equal(t, envs.KindVenv, merged[0].Kind, "first sighting keeps its kind")
	assert.Equal(t, "3.11.4", merged[0].Version, "empty fields fill in")
	assert.ElementsMatch(t, []string{"/envs/demo/bin/python", "/envs/demo/bin/python3"}, merged[0].Symlinks)
}

func TestDedupSymlinkIdentity(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "python3.11")
	alias := filepath.Join(dir, "python")
	require.NoError(t, os.WriteFile(real, nil, 0o755))
	require.NoError(t, os.Symlink(real, alias))

	sink := NewCollector()
	dedup := NewDedup(sink)

	dedup.ReportEnvironment(envs.NewBuilder(envs.KindLinuxGlobal).Executable(alias).Build())
	dedup.ReportEnvironment(envs.NewBuilder(envs.KindGlobalPaths).Executable(real).Build())

	assert.Len(t, sink.Environments(), 1, "alias and target are one interpreter")
	assert.True(t, dedup.Seen(alias))
	assert.True(t, dedup.Seen(real))
	assert.False(t, dedup.Seen(filepath.Join(dir, "other")))
}

func TestDedupDirectorySymlinkIdentity(t *testing.T) {
	// Debian-style merged /usr: /bin is a symlink to usr/bin, so the
	// same interpreter is reachable through two directory spellings.
	root := t.TempDir()
	usrBin := filepath.Join(root, "usr", "bin")
	require.NoError(t, os.MkdirAll(usrBin, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(usrBin, "python3"), nil, 0o755))
	require.NoError(t, os.Symlink(filepath.Join(root, "usr", "bin"), filepath.Join(root, "bin")))

	sink := NewCollector()
	dedup := NewDedup(sink)

	dedup.ReportEnvironment(envs.NewBuilder(envs.KindLinuxGlobal).
		Executable(filepath.Join(root, "usr", "bin", "python3")).
		Build())
	dedup.ReportEnvironment(envs.NewBuilder(envs.KindGlobalPaths).
		Executable(filepath.Join(root, "bin", "python3")).
		Build())

	assert.Len(t, sink.Environments(), 1, "both spellings reach one file")
	assert.Len(t, dedup.Environments(), 1)
	assert.True(t, dedup.Seen(filepath.Join(root, "bin", "python3")))
	assert.True(t, dedup.Seen(filepath.Join(root, "usr", "bin", "python3")))
}

func TestDedupMergeFillsError(t *testing.T) {
	sink := NewCollector()
	dedup := NewDedup(sink)

	dedup.ReportEnvironment(envs.NewBuilder(envs.KindVenv).
		Executable("/envs/stale/bin/python").
		Prefix("/envs/stale").
		Build())
	dedup.ReportEnvironment(envs.NewBuilder(envs.KindVirtualEnvWrapper).
		Executable("/envs/stale/bin/python").
		Prefix("/envs/stale").
		Error("interpreter is a dangling symlink: /envs/stale/bin/python").
		Build())

	merged := dedup.Environments()
	require.Len(t, merged, 1)
	assert.Contains(t, merged[0].Error, "dangling symlink", "later sighting's error fills in")

	// The clean record already went downstream; the annotated record
	// follows so the sink is not left with a silently broken env.
	forwarded := sink.Environments()
	require.Len(t, forwarded, 2)
	assert.Empty(t, forwarded[0].Error)
	assert.Contains(t, forwarded[1].Error, "dangling symlink")
}

func TestDedupCondaPrefixMerge(t *testing.T) {
	sink := NewCollector()
	dedup := NewDedup(sink)

	// Pythonless conda env first, then the same env seen with its
	// interpreter installed.
	dedup.ReportEnvironment(envs.NewBuilder(envs.KindConda).
		Prefix("/opt/conda/envs/bare").
		Name("bare").
		Build())
	dedup.ReportEnvironment(envs.NewBuilder(envs.KindVenv).
		Executable("/opt/conda/envs/bare/bin/python").
		Prefix("/opt/conda/envs/bare").
		Build())

	merged := dedup.Environments()
	require.Len(t, merged, 1)
	assert.Equal(t, envs.KindConda, merged[0].Kind)
	assert.Equal(t, "/opt/conda/envs/bare/bin/python", merged[0].Executable)
}

func TestDedupManagers(t *testing.T) {
	sink := NewCollector()
	dedup := NewDedup(sink)

	mgr := envs.Manager{Tool: envs.ToolConda, Executable: "/opt/conda/bin/conda"}
	dedup.ReportManager(mgr)
	dedup.ReportManager(mgr)
	dedup.ReportManager(envs.Manager{Tool: envs.ToolPoetry, Executable: "/usr/local/bin/poetry"})

	assert.Len(t, sink.Managers(), 2)
}
