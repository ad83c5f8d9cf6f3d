package locators

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/thoreinstein/pyscout/internal/envs"
	"github.com/thoreinstein/pyscout/internal/paths"
	"github.com/thoreinstein/pyscout/internal/python"
	"github.com/thoreinstein/pyscout/internal/reporter"
	"github.com/thoreinstein/pyscout/pkg/fileutil"
)

// Centralized poetry env directories are named
// <sanitized-project>-<hash>-py<major.minor>.
var poetryEnvDirRe = regexp.MustCompile(`^.+-[A-Za-z0-9_-]{8}-py\d+\.\d+$`)

// Poetry finds environments created by the poetry package manager:
// centralized ones under its virtualenvs directory, and in-project
// .venv directories confirmed through the workspace scan.
type Poetry struct {
	env paths.Env
}

func NewPoetry(env paths.Env) *Poetry {
	return &Poetry{env: env}
}

func (l *Poetry) Kind() envs.Kind { return envs.KindPoetry }
func (l *Poetry) Categories() []envs.Kind { return []envs.Kind{envs.KindPoetry} }

func (l *Poetry) Confirm(c *Candidate) *envs.Environment {
	cfg := c.PyVenvCfg()
	if cfg == nil {
		return nil
	}
	prefix := c.Prefix()

	switch {
	case isUnder(l.virtualenvsDir(), prefix) && poetryEnvDirRe.MatchString(filepath.Base(prefix)):
	case filepath.Base(prefix) == ".venv" && isPoetryProject(filepath.Dir(prefix)):
	default:
		return nil
	}
	env := l.environmentAt(prefix, cfg)
	return &env
}

func (l *Poetry) Enumerate(ctx context.Context, rep reporter.Interface) {
	if mgr := poetryManager(l.env); mgr != nil {
		rep.ReportManager(*mgr)
	}

	dir := l.virtualenvsDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}
		if !entry.IsDir() {
			continue
		}
		prefix := filepath.Join(dir, entry.Name())
		cfg := python.FindPyVenvCfg(prefix)
		if cfg == nil {
			continue
		}
		rep.ReportEnvironment(l.environmentAt(prefix, cfg))
	}
}

func (l *Poetry) environmentAt(prefix string, cfg *python.PyVenvCfg) envs.Environment {
	b := envs.NewBuilder(envs.KindPoetry).
		Prefix(prefix).
		Name(filepath.Base(prefix))
	if cfg != nil {
		b.Version(cfg.Version)
		if cfg.Prompt != "" {
			b.DisplayName(cfg.Prompt)
		}
	}
	if exe, broken := python.FindExecutableOrBroken(prefix); exe != "" {
		b.Executable(exe)
		if broken {
			b.Error("interpreter is a dangling symlink: " + exe)
		}
	}
	if filepath.Base(prefix) == ".venv" {
		b.Project(filepath.Dir(prefix))
	}
	return b.Build()
}

// virtualenvsDir resolves the centralized environments directory: the
// configured virtualenvs.path wins, then the configured cache-dir,
// then the platform default.
func (l *Poetry) virtualenvsDir() string {
	cfg := l.readConfig()
	if cfg.VirtualEnvs.Path != "" {
		return paths.ExpandUser(cfg.VirtualEnvs.Path)
	}
	if cfg.CacheDir != "" {
		return filepath.Join(paths.ExpandUser(cfg.CacheDir), "virtualenvs")
	}
	if data := l.env.PoetryDataDir(); data != "" {
		return filepath.Join(data, "virtualenvs")
	}
	return ""
}

type poetryConfig struct {
	CacheDir    string `toml:"cache-dir"`
	VirtualEnvs struct {
		Path      string `toml:"path"`
		InProject bool   `toml:"in-project"`
	} `toml:"virtualenvs"`
}

func (l *Poetry) readConfig() poetryConfig {
	var cfg poetryConfig
	dir := l.env.PoetryConfigDir()
	if dir == "" {
		return cfg
	}
	data, err := fileutil.ReadFileWithLimit(filepath.Join(dir, "config.toml"), fileutil.MaxFileSize)
	if err != nil {
		return cfg
	}
	// A malformed config falls back to the defaults, same as poetry.
	_ = toml.Unmarshal(data, &cfg)
	return cfg
}

// isPoetryProject reports whether dir holds a pyproject.toml with a
// [tool.poetry] table.
func isPoetryProject(dir string) bool {
	data, err := fileutil.ReadFileWithLimit(filepath.Join(dir, "pyproject.toml"), fileutil.MaxFileSize)
	if err != nil {
		return false
	}
	var project struct {
		Tool map[string]any `toml:"tool"`
	}
	if err := toml.Unmarshal(data, &project); err != nil {
		return false
	}
	_, ok := project.Tool["poetry"]
	return ok
}

// poetryManager locates the poetry binary: an explicitly configured
// path first, then a POETRY_HOME install, then PATH.
func poetryManager(env paths.Env) *envs.Manager {
	if exe := env.PoetryExecutable; exe != "" {
		if info, err := os.Stat(exe); err == nil && info.Mode().IsRegular() {
			return &envs.Manager{Executable: exe, Tool: envs.ToolPoetry}
		}
	}
	if env.PoetryHome != "" {
		exe := filepath.Join(paths.ExpandUser(env.PoetryHome), "bin", "poetry")
		if info, err := os.Stat(exe); err == nil && info.Mode().IsRegular() {
			return &envs.Manager{Executable: exe, Tool: envs.ToolPoetry}
		}
	}
	exe, err := exec.LookPath("poetry")
	if err != nil {
		return nil
	}
	return &envs.Manager{Executable: exe, Tool: envs.ToolPoetry}
}

// EnvDirName computes the directory name poetry gives the centralized
// environment of a project: the sanitized project name, eight
// characters of the base64 form of the hashed project path, and the
// python series.
func EnvDirName(projectName, projectDir, pythonVersion string) string {
	digest := sha256.Sum256([]byte(projectDir))
	hash := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(digest[:])[:8]

	series := pythonVersion
	if parts := strings.SplitN(pythonVersion, ".", 3); len(parts) >= 2 {
		series = parts[0] + "." + parts[1]
	}
	return sanitizeName(projectName) + "-" + hash + "-py" + series
}

var invalidNameRe = regexp.MustCompile("[ $`!*@\"\\\\\r\n\t]")

func sanitizeName(name string) string {
	return invalidNameRe.ReplaceAllString(name, "_")
}
