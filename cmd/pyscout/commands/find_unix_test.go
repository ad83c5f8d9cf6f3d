//go:build !windows

package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFindCommand_WorkspaceJSON(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PATH", filepath.Join(home, "empty-bin"))
	t.Setenv("WORKON_HOME", "")
	t.Setenv("VIRTUAL_ENV", "")

	workspace := t.TempDir()
	venv := filepath.Join(workspace, ".venv")
	bin := filepath.Join(venv, "bin")
	if err := os.MkdirAll(bin, 0o755); err != nil {
		t.Fatal(err)
	}
	cfgContent := "home = /usr/bin\nversion = 3.12.1\n"
	if err := os.WriteFile(filepath.Join(venv, "pyvenv.cfg"), []byte(cfgContent), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(bin, "python"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	output, err := executeCommand(t, "find", workspace, "--json", "--skip-probe")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	t.Cleanup(func() {
		findJSON = false
		findSkipProbe = false
	})

	if !strings.Contains(output, `"kind":"venv"`) {
		t.Errorf("expected a venv environment in output, got %q", output)
	}
	if !strings.Contains(output, `"version":"3.12.1"`) {
		t.Errorf("expected version from pyvenv.cfg, got %q", output)
	}
}
