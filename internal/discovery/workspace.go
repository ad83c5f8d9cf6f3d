package discovery

import (
	"context"
	"os"
	"path/filepath"

	"github.com/thoreinstein/pyscout/internal/locators"
	"github.com/thoreinstein/pyscout/internal/python"
)

// Directories that never contain a project-local environment and are
// expensive to stat through.
var skipWorkspaceDirs = map[string]struct{}{
	".git":          {},
	".hg":           {},
	"node_modules":  {},
	"__pycache__":   {},
	".mypy_cache":   {},
	".pytest_cache": {},
	".ruff_cache":   {},
}

// scanWorkspaces looks for environments living inside project folders:
// the folder itself, its immediate children (.venv and friends), and
// pixi's .pixi/envs tree. One level is deliberate; recursing into a
// monorepo is the workspace list's job, not ours.
func (s *Scanner) scanWorkspaces(ctx context.Context, workspaces []string, rep Reporter, pending chan<- *locators.Candidate) {
	for _, workspace := range workspaces {
		if ctx.Err() != nil {
			return
		}
		s.scanWorkspace(ctx, workspace, rep, pending)
	}
}

func (s *Scanner) scanWorkspace(ctx context.Context, workspace string, rep Reporter, pending chan<- *locators.Candidate) {
	// The workspace folder itself may be an environment root.
	if exe, _ := python.FindExecutableOrBroken(workspace); exe != "" {
		s.scanPrefix(workspace, rep, pending)
		return
	}

	entries, err := os.ReadDir(workspace)
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
		name := entry.Name()
		if _, skip := skipWorkspaceDirs[name]; skip {
			continue
		}
		child := filepath.Join(workspace, name)
		if name == ".pixi" {
			s.scanEnvironmentDirs(ctx, []string{filepath.Join(child, "envs")}, rep, pending)
			continue
		}
		s.scanPrefix(child, rep, pending)
	}
}
