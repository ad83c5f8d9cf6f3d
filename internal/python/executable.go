package python

import (
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"

	"github.com/thoreinstein/pyscout/pkg/fileutil"
)

var (
	windowsExeRe = regexp.MustCompile(`^python(\d+(\.\d+)*)?\.exe$`)
	unixExeRe    = regexp.MustCompile(`^python(\d+(\.\d+)*)?$`)
)

// IsPythonExecutableName reports whether name looks like a Python
// interpreter executable (python, python3, python3.11, python.exe...).
func IsPythonExecutableName(name string) bool {
	if runtime.GOOS == "windows" {
		return windowsExeRe.MatchString(strings.ToLower(name))
	}
	return unixExeRe.MatchString(name)
}

// FindExecutable returns the conventional interpreter path inside an
// environment prefix, checking bin/ (Scripts/ on Windows) then the
// prefix itself. Returns "" when no interpreter file exists.
func FindExecutable(envPath string) string {
	for _, candidate := range executableCandidates(envPath) {
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate
		}
	}
	return ""
}

// FindExecutableOrBroken is FindExecutable, but a dangling symlink in
// one of the conventional spots is still returned, flagged broken.
// Environments whose interpreter target was deleted must surface with
// an error annotation rather than vanish.
func FindExecutableOrBroken(envPath string) (exe string, broken bool) {
	candidates := executableCandidates(envPath)
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, false
		}
	}
	for _, candidate := range candidates {
		if fileutil.IsBrokenSymlink(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func executableCandidates(envPath string) []string {
	if runtime.GOOS == "windows" {
		return []string{
			filepath.Join(envPath, "Scripts", "python.exe"),
			filepath.Join(envPath, "Scripts", "python3.exe"),
			filepath.Join(envPath, "bin", "python.exe"),
			filepath.Join(envPath, "bin", "python3.exe"),
			filepath.Join(envPath, "python.exe"),
			filepath.Join(envPath, "python3.exe"),
		}
	}
	return []string{
		filepath.Join(envPath, "bin", "python"),
		filepath.Join(envPath, "bin", "python3"),
		filepath.Join(envPath, "python"),
		filepath.Join(envPath, "python3"),
	}
}

// FindExecutables lists every interpreter executable in an environment
// directory (descending into bin/Scripts when present): python,
// python3, python3.11 and so on. Pyenv's shims directory is excluded,
// its entries are interceptor scripts, not interpreters.
func FindExecutables(envPath string) []string {
	if IsPyenvShimsDir(envPath) {
		return nil
	}

	dir := envPath
	if runtime.GOOS == "windows" {
		if scripts := filepath.Join(dir, "Scripts"); dirExists(scripts) {
			dir = scripts
		}
	}
	if bin := filepath.Join(dir, "bin"); dirExists(bin) {
		dir = bin
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var exes []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !IsPythonExecutableName(entry.Name()) {
			continue
		}
		exes = append(exes, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(exes)
	return exes
}

// IsPyenvShimsDir reports whether dir is a pyenv shims directory.
// Pyenv can live at a custom root, so the check is structural: a
// directory named shims under a pyenv-ish parent.
func IsPyenvShimsDir(dir string) bool {
	if filepath.Base(dir) != "shims" {
		return false
	}
	return strings.Contains(strings.ToLower(filepath.Dir(dir)), "pyenv")
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
