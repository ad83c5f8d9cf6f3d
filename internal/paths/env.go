package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// Env captures the environment variables discovery cares about. It is
// built once from the process environment and passed explicitly, so
// locators stay deterministic in tests.
type Env struct {
	Home           string
	Path           []string
	WorkonHome     string
	XDGDataHome    string
	XDGCacheHome   string
	PyenvRoot      string
	UvCacheDir     string
	UvPythonDir    string
	CondaRoot      string
	PoetryHome     string
	HomebrewPrefix string

	// CondaExecutable and PoetryExecutable are explicit manager paths
	// from configuration, for installs the conventional locations and
	// PATH would miss. Empty means autodetect.
	CondaExecutable  string
	PoetryExecutable string

	// SystemRoot prefixes the fixed machine-wide directories (/usr/bin,
	// /opt/..., /Library/...). Empty in production; tests point it at a
	// fixture tree.
	SystemRoot string
}

// OSEnv builds an Env from the current process environment.
func OSEnv() Env {
	return Env{
		Home:         Home(),
		Path:         filepath.SplitList(os.Getenv("PATH")),
		WorkonHome:   os.Getenv("WORKON_HOME"),
		XDGDataHome:  os.Getenv("XDG_DATA_HOME"),
		XDGCacheHome: os.Getenv("XDG_CACHE_HOME"),
		PyenvRoot:    os.Getenv("PYENV_ROOT"),
		UvCacheDir:   os.Getenv("UV_CACHE_DIR"),
		UvPythonDir:  os.Getenv("UV_PYTHON_INSTALL_DIR"),
		CondaRoot:    os.Getenv("CONDA_ROOT"),
		PoetryHome:   os.Getenv("POETRY_HOME"),

		HomebrewPrefix: os.Getenv("HOMEBREW_PREFIX"),
	}
}

// SearchPaths returns the PATH entries worth scanning for interpreters,
// canonicalized and deduplicated.
func (e Env) SearchPaths() []string {
	seen := make(map[string]struct{}, len(e.Path))
	var out []string
	for _, p := range e.Path {
		if p == "" {
			continue
		}
		if resolved, err := filepath.EvalSymlinks(p); err == nil {
			p = resolved
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// GlobalVirtualEnvDirs returns every known directory where virtual
// environments are created outside a project: WORKON_HOME, the pipenv
// data dirs, and the conventional dot directories in the user's home.
// Only existing directories are returned.
func (e Env) GlobalVirtualEnvDirs() []string {
	var dirs []string
	add := func(dir string) {
		if dir == "" {
			return
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}

	add(ExpandUser(e.WorkonHome))
	if e.XDGDataHome != "" {
		// Used by pipenv.
		add(filepath.Join(e.XDGDataHome, "virtualenvs"))
	}
	if e.Home != "" {
		add(filepath.Join(e.Home, "envs"))
		add(filepath.Join(e.Home, ".direnv"))
		add(filepath.Join(e.Home, ".venvs"))
		// Default for virtualenvwrapper, also used by pipenv.
		add(filepath.Join(e.Home, ".virtualenvs"))
		add(filepath.Join(e.Home, ".local", "share", "virtualenvs"))
	}
	return dirs
}

// UvEnvironmentDirs returns the directories where uv stores the virtual
// environments it manages: {cache dir}/environments-v2.
func (e Env) UvEnvironmentDirs() []string {
	var dirs []string
	if cache := e.uvCacheDir(); cache != "" {
		envDir := filepath.Join(cache, "environments-v2")
		if info, err := os.Stat(envDir); err == nil && info.IsDir() {
			dirs = append(dirs, envDir)
		}
	}
	return dirs
}

// UvPythonInstallDir returns the directory where uv installs standalone
// interpreters: UV_PYTHON_INSTALL_DIR, else {data dir}/uv/python.
// Returns "" when the directory does not exist.
func (e Env) UvPythonInstallDir() string {
	if e.UvPythonDir != "" {
		dir := ExpandUser(e.UvPythonDir)
		if _, err := os.Stat(dir); err == nil {
			return dir
		}
		return ""
	}
	var data string
	if e.XDGDataHome != "" {
		data = e.XDGDataHome
	} else if e.Home != "" {
		switch runtime.GOOS {
		case "windows":
			data = filepath.Join(e.Home, "AppData", "Roaming")
		case "darwin":
			data = filepath.Join(e.Home, "Library", "Application Support")
		default:
			data = filepath.Join(e.Home, ".local", "share")
		}
	}
	if data == "" {
		return ""
	}
	dir := filepath.Join(data, "uv", "python")
	if _, err := os.Stat(dir); err == nil {
		return dir
	}
	return ""
}

// uvCacheDir resolves the uv cache directory with uv's own priority
// order: UV_CACHE_DIR, then XDG_CACHE_HOME/uv, then the per-platform
// default.
func (e Env) uvCacheDir() string {
	if e.UvCacheDir != "" {
		dir := ExpandUser(e.UvCacheDir)
		if _, err := os.Stat(dir); err == nil {
			return dir
		}
	}
	if e.XDGCacheHome != "" {
		dir := filepath.Join(e.XDGCacheHome, "uv")
		if _, err := os.Stat(dir); err == nil {
			return dir
		}
	}
	if e.Home == "" {
		return ""
	}
	var dir string
	switch runtime.GOOS {
	case "windows":
		dir = filepath.Join(e.Home, "AppData", "Local", "uv")
	case "darwin":
		dir = filepath.Join(e.Home, "Library", "Caches", "uv")
	default:
		dir = filepath.Join(e.Home, ".cache", "uv")
	}
	if _, err := os.Stat(dir); err == nil {
		return dir
	}
	return ""
}

// PyenvDirs returns the pyenv root and its versions directory.
// PYENV_ROOT wins over the conventional ~/.pyenv.
func (e Env) PyenvDirs() (root, versions string) {
	if e.PyenvRoot != "" {
		root = ExpandUser(e.PyenvRoot)
	} else if e.Home != "" {
		root = filepath.Join(e.Home, ".pyenv")
	}
	if root == "" {
		return "", ""
	}
	if _, err := os.Stat(root); err != nil {
		return "", ""
	}
	return root, filepath.Join(root, "versions")
}

// CondaRoots returns every directory that may be a conda installation
// root, existing or not. Callers verify the on-disk markers.
func (e Env) CondaRoots() []string {
	var roots []string
	if e.CondaExecutable != "" {
		// conda lives in <root>/bin or <root>/condabin; the install
		// root is two levels up from the binary.
		roots = append(roots, filepath.Dir(filepath.Dir(ExpandUser(e.CondaExecutable))))
	}
	if e.CondaRoot != "" {
		roots = append(roots, ExpandUser(e.CondaRoot))
	}
	if e.Home != "" {
		for _, name := range []string{"anaconda3", "miniconda3", "miniforge3", "micromamba", ".conda"} {
			roots = append(roots, filepath.Join(e.Home, name))
		}
	}
	for _, dir := range []string{
		"/opt/anaconda3",
		"/opt/miniconda3",
		"/opt/miniforge3",
		"/opt/conda",
		"/usr/local/anaconda3",
		"/usr/local/miniconda3",
	} {
		roots = append(roots, filepath.Join(e.SystemRoot, dir))
	}
	return roots
}

// CondaEnvironmentsTxt returns the path of conda's registry of every
// environment it has created, or "" without a home directory.
func (e Env) CondaEnvironmentsTxt() string {
	if e.Home == "" {
		return ""
	}
	return filepath.Join(e.Home, ".conda", "environments.txt")
}

// PoetryConfigDir returns poetry's per-platform configuration directory.
func (e Env) PoetryConfigDir() string {
	if e.Home == "" {
		return ""
	}
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(e.Home, "AppData", "Roaming", "pypoetry")
	case "darwin":
		return filepath.Join(e.Home, "Library", "Preferences", "pypoetry")
	default:
		return filepath.Join(e.Home, ".config", "pypoetry")
	}
}

// PoetryDataDir returns the directory under which poetry keeps its
// centralized virtualenvs directory by default.
func (e Env) PoetryDataDir() string {
	if e.Home == "" {
		return ""
	}
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(e.Home, "AppData", "Local", "pypoetry")
	case "darwin":
		return filepath.Join(e.Home, "Library", "Application Support", "pypoetry")
	default:
		if e.XDGDataHome != "" {
			return filepath.Join(ExpandUser(e.XDGDataHome), "pypoetry")
		}
		return filepath.Join(e.Home, ".local", "share", "pypoetry")
	}
}
