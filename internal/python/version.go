package python

import (
	"path/filepath"
	"regexp"

	"github.com/thoreinstein/pyscout/pkg/fileutil"
)

var filenameVersionRe = regexp.MustCompile(`python(\d+\.\d+)`)

// VersionFromPrefix infers the interpreter version of an installation
// root: the pyvenv.cfg manifest first, then the shipped headers.
func VersionFromPrefix(prefix string) string {
	if cfg := FindPyVenvCfg(prefix); cfg != nil && cfg.Version != "" {
		return cfg.Version
	}
	return VersionFromHeaders(prefix)
}

// VersionForVirtualEnv infers the version of a virtual environment
// without trusting its pyvenv.cfg (tools routinely write the version of
// the creating interpreter at creation time, which goes stale when the
// base install upgrades in place). Headers win when the env ships them;
// otherwise the creator interpreter is located through the executable
// symlink and read from the creator's own headers.
func VersionForVirtualEnv(prefix string) string {
	if v := VersionFromHeaders(prefix); v != "" {
		return v
	}

	creator := creatorExecutable(prefix)
	if creator == "" {
		return ""
	}
	parent := filepath.Dir(creator)
	if base := filepath.Base(parent); base != "bin" && base != "Scripts" {
		// Creator is not inside a conventional install layout; any
		// version we derive from it would be a guess.
		return ""
	}
	return VersionFromHeaders(filepath.Dir(parent))
}

// creatorExecutable resolves the environment's interpreter symlink to
// the executable that created it. Virtual envs created with
// `python -m venv` link bin/python back to the creating interpreter.
func creatorExecutable(prefix string) string {
	exe := FindExecutable(prefix)
	if exe == "" {
		return ""
	}
	resolved := fileutil.ResolveSymlink(exe)
	if resolved == "" {
		return ""
	}
	// Resolution may land on a sibling (bin/python -> bin/python3.10);
	// in that case there is no external creator to learn from.
	if filepath.Dir(resolved) == filepath.Dir(exe) {
		return ""
	}
	return resolved
}

// VersionFromFilename extracts the two-part version embedded in an
// executable name, e.g. "/usr/bin/python3.11" yields "3.11". Returns ""
// for unversioned names.
func VersionFromFilename(exe string) string {
	if m := filenameVersionRe.FindStringSubmatch(filepath.Base(exe)); m != nil {
		return m[1]
	}
	return ""
}
