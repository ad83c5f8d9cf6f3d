package doctor

import (
	"os"

	"github.com/thoreinstein/pyscout/internal/paths"
)

// Fixer is an optional interface that checks can implement to support
// auto-remediation. Checks that implement Fixer can fix issues they detect
// when the --fix flag is used.
type Fixer interface {
	// CanFix returns true if this check has fixable issues.
	// Must be called after Run().
	CanFix() bool

	// Fix attempts to remediate the issues found by Run().
	// Returns a slice of FixResult indicating what was fixed or why it
	// couldn't be fixed. Must be called after Run().
	Fix() []FixResult
}

// FixResult describes the outcome of an attempted fix operation.
type FixResult struct {
	// Path is the file or directory that was targeted for fixing.
	Path string

	// Fixed indicates whether the fix was successfully applied.
	Fixed bool

	// Description explains what was fixed or why it couldn't be fixed.
	Description string

	// Error contains the error if the fix failed.
	Error error
}

// CanFix returns true if the cache directory is missing or unwritable.
func (c *CacheDirCheck) CanFix() bool {
	return c.missing || c.unwritable
}

// Fix creates the cache directory or restores write permission on it.
func (c *CacheDirCheck) Fix() []FixResult {
	switch {
	case c.missing:
		if err := paths.EnsureDir(c.Dir, 0); err != nil {
			return []FixResult{{
				Path:        c.Dir,
				Description: "failed to create cache directory",
				Error:       err,
			}}
		}
		c.missing = false
		return []FixResult{{
			Path:        c.Dir,
			Fixed:       true,
			Description: "created cache directory",
		}}
	case c.unwritable:
		if err := os.Chmod(c.Dir, 0o700); err != nil {
			return []FixResult{{
				Path:        c.Dir,
				Description: "failed to change cache directory permissions",
				Error:       err,
			}}
		}
		c.unwritable = false
		return []FixResult{{
			Path:        c.Dir,
			Fixed:       true,
			Description: "restored write permission on cache directory",
		}}
	}
	return nil
}
