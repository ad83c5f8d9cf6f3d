// Package paths centralizes filesystem path resolution: the XDG base
// directories (via adrg/xdg), the user's home directory, and the
// well-known locations where Python tooling keeps interpreters and
// virtual environments (WORKON_HOME, pyenv root, conda roots, the uv
// cache, poetry's data directory).
//
// The Env type snapshots the environment variables these locations
// depend on; production code builds it with OSEnv, tests construct it
// directly against fixture directories.
package paths
