//go:build !windows

package doctor

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInterpreterCheck_DedupesSymlinks(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "python3.12")
	if err := os.WriteFile(real, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(real, filepath.Join(dir, "python3")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(real, filepath.Join(dir, "python")); err != nil {
		t.Fatal(err)
	}

	result := NewInterpreterCheck([]string{dir}).Run()

	if result.Status != SeverityPass {
		t.Fatalf("expected pass, got %s: %s", result.Status, result.Message)
	}
	interpreters, ok := result.Details["interpreters"].([]string)
	if !ok {
		t.Fatalf("unexpected details type %T", result.Details["interpreters"])
	}
	if len(interpreters) != 1 {
		t.Errorf("expected 1 deduplicated interpreter, got %d: %v", len(interpreters), interpreters)
	}
}
