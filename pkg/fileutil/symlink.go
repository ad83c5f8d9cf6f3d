package fileutil

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// IsSymlink reports whether path itself is a symbolic link, without
// following it.
func IsSymlink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}

// IsBrokenSymlink reports whether path is a symlink whose target no
// longer exists.
func IsBrokenSymlink(path string) bool {
	if !IsSymlink(path) {
		return false
	}
	_, err := os.Stat(path)
	return err != nil
}

// ResolveSymlink fully resolves path through any chain of symlinks and
// returns the canonical target. Returns "" when path is not a symlink,
// or when resolution fails (e.g. a dangling link).
func ResolveSymlink(path string) string {
	if !IsSymlink(path) {
		return ""
	}
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil || resolved == path {
		return ""
	}
	return resolved
}

// Canonical returns the canonical form of path: symlinks resolved and
// the path cleaned. When resolution fails the cleaned absolute path is
// returned instead, so the result is always usable as a map key.
func Canonical(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return filepath.Clean(path)
}

// NormCase normalizes path casing on Windows, where the filesystem is
// case-insensitive but string comparison is not. On other systems the
// path is returned unchanged: canonicalizing here breaks Homebrew
// paths, which rely on the symlink form.
func NormCase(path string) string {
	if runtime.GOOS != "windows" {
		return path
	}
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return path
	}
	// Strip the UNC prefix EvalSymlinks can introduce.
	if strings.HasPrefix(resolved, `\\?\`) && !strings.HasPrefix(path, `\\?\`) {
		resolved = strings.TrimPrefix(resolved, `\\?\`)
	}
	return resolved
}
