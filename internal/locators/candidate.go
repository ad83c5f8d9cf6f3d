package locators

import (
	"path/filepath"

	"github.com/thoreinstein/pyscout/internal/python"
)

// Candidate is an interpreter executable on its way through the
// registry. The prefix and pyvenv.cfg lookups are done at most once and
// memoized; locators down the chain reuse what an earlier one already
// paid for. A Candidate is owned by a single goroutine.
type Candidate struct {
	// Executable is the interpreter path the scanner found.
	Executable string
	// Symlinks are additional aliases already known for the same
	// interpreter, when the scanner collected any.
	Symlinks []string
	// Version hint, when the source knows it (e.g. a pyenv version
	// directory name). Locators prefer their own inference.
	Version string

	prefix    string
	prefixSet bool
	cfg       *python.PyVenvCfg
	cfgSet    bool
}

// NewCandidate wraps a discovered interpreter executable.
func NewCandidate(executable string) *Candidate {
	return &Candidate{Executable: executable}
}

// NewPrefixCandidate wraps an interpreter whose environment root is
// already known, sparing the derivation.
func NewPrefixCandidate(executable, prefix string) *Candidate {
	return &Candidate{Executable: executable, prefix: prefix, prefixSet: true}
}

// Prefix returns the environment root the executable lives in: the
// pyvenv.cfg directory when one governs the executable, otherwise the
// parent of a conventional bin/Scripts directory, otherwise the
// executable's own directory.
func (c *Candidate) Prefix() string {
	if c.prefixSet {
		return c.prefix
	}
	c.prefixSet = true
	if cfg := c.PyVenvCfg(); cfg != nil {
		c.prefix = filepath.Dir(cfg.Path)
		return c.prefix
	}
	dir := filepath.Dir(c.Executable)
	if base := filepath.Base(dir); base == "bin" || base == "Scripts" {
		c.prefix = filepath.Dir(dir)
		return c.prefix
	}
	c.prefix = dir
	return c.prefix
}

// PyVenvCfg returns the manifest governing the executable, or nil.
func (c *Candidate) PyVenvCfg() *python.PyVenvCfg {
	if c.cfgSet {
		return c.cfg
	}
	c.cfgSet = true
	if c.Executable == "" {
		c.cfg = python.FindPyVenvCfg(c.prefix)
	} else {
		c.cfg = python.FindPyVenvCfgForExecutable(c.Executable)
	}
	return c.cfg
}
