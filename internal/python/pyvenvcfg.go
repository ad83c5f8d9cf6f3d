package python

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

const pyvenvConfigFile = "pyvenv.cfg"

var (
	versionRe     = regexp.MustCompile(`^version\s*=\s*(\d+)\.(\d+)(\.\d+.*)?$`)
	versionInfoRe = regexp.MustCompile(`^version_info\s*=\s*(\d+)\.(\d+)(\.\d+.*)?$`)
)

// PyVenvCfg is the parsed pyvenv.cfg manifest that every venv-style
// environment carries in its prefix. Its presence alone does not
// identify the creating tool: venv, virtualenv, uv, poetry and pipenv
// all write one.
type PyVenvCfg struct {
	// Version is the full interpreter version, e.g. "3.11.4".
	Version string
	// Major/Minor are parsed out for callers that only compare series.
	Major int
	Minor int
	// Prompt is the display name the creating tool recorded, if any.
	Prompt string
	// Uv is true when the file carries a `uv = <version>` entry,
	// i.e. the environment was created by uv.
	Uv bool
	// Path is the location of the pyvenv.cfg file itself.
	Path string
}

// FindPyVenvCfg looks for a pyvenv.cfg at dir, or in its parent when
// dir is a bin/Scripts directory. Returns nil when absent.
//
//	env
//	|__ pyvenv.cfg     <--- found here
//	|__ bin (Scripts)
//	    |__ python     <--- candidate executable
func FindPyVenvCfg(dir string) *PyVenvCfg {
	cfg := filepath.Join(dir, pyvenvConfigFile)
	if _, err := os.Stat(cfg); err == nil {
		return parsePyVenvCfg(cfg)
	}
	base := filepath.Base(dir)
	if base == "bin" || base == "Scripts" {
		cfg := filepath.Join(filepath.Dir(dir), pyvenvConfigFile)
		if _, err := os.Stat(cfg); err == nil {
			return parsePyVenvCfg(cfg)
		}
	}
	return nil
}

// FindPyVenvCfgForExecutable locates the manifest governing the given
// interpreter executable, checking beside it and one level up.
func FindPyVenvCfgForExecutable(exe string) *PyVenvCfg {
	return FindPyVenvCfg(filepath.Dir(exe))
}

func parsePyVenvCfg(path string) *PyVenvCfg {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	cfg := &PyVenvCfg{Path: path}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if cfg.Version == "" {
			if m := versionRe.FindStringSubmatch(line); m != nil {
				cfg.setVersion(m)
				continue
			}
			if m := versionInfoRe.FindStringSubmatch(line); m != nil {
				cfg.setVersion(m)
				continue
			}
		}
		if key, value, ok := strings.Cut(line, "="); ok {
			switch strings.TrimSpace(key) {
			case "prompt":
				cfg.Prompt = strings.TrimSpace(value)
			case "uv":
				cfg.Uv = true
			}
		}
	}
	// Presence of the file identifies a venv even without version info.
	return cfg
}

func (c *PyVenvCfg) setVersion(m []string) {
	c.Version = m[1] + "." + m[2] + m[3]
	c.Major, _ = strconv.Atoi(m[1])
	c.Minor, _ = strconv.Atoi(m[2])
}
