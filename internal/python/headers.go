package python

import (
	"os"
	"path/filepath"
	"regexp"
)

// The version constant CPython bakes into its own headers:
//
//	/* Version as a string */
//	#define PY_VERSION              "3.10.2"
var pyVersionDefineRe = regexp.MustCompile(`#define\s+PY_VERSION\s+"((\d+\.?)*.*)"`)

// VersionFromHeaders reads the interpreter version from the
// patchlevel.h header shipped inside the installation prefix, without
// spawning anything. Returns "" when the headers are absent.
//
// The file lives at <prefix>/include/patchlevel.h on unix and
// <prefix>/Headers/patchlevel.h on some Windows and mac installs;
// versioned installs nest it one level deeper (include/python3.10/).
func VersionFromHeaders(prefix string) string {
	dir := prefix
	if base := filepath.Base(dir); base == "bin" || base == "Scripts" {
		dir = filepath.Dir(dir)
	}

	for _, headers := range []string{filepath.Join(dir, "Headers"), filepath.Join(dir, "include")} {
		if v := versionFromPatchlevel(filepath.Join(headers, "patchlevel.h")); v != "" {
			return v
		}
		entries, err := os.ReadDir(headers)
		if err != nil {
			continue
		}
		// Sub directories such as include/python3.10 or include/pypy3.9.
		for _, entry := range entries {
			if v := versionFromPatchlevel(filepath.Join(headers, entry.Name(), "patchlevel.h")); v != "" {
				return v
			}
		}
	}
	return ""
}

func versionFromPatchlevel(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	if m := pyVersionDefineRe.FindSubmatch(data); m != nil {
		return string(m[1])
	}
	return ""
}
