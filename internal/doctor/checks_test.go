package doctor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCacheDirCheck_Missing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")

	check := NewCacheDirCheck(dir)
	result := check.Run()

	if result.Status != SeverityInfo {
		t.Errorf("expected info status, got %s", result.Status)
	}
	if !result.Fixable {
		t.Error("missing cache dir should be fixable")
	}
	if !check.CanFix() {
		t.Error("expected CanFix true for missing dir")
	}
}

func TestCacheDirCheck_Writable(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "abc123.1.json"), []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}

	check := NewCacheDirCheck(dir)
	result := check.Run()

	if result.Status != SeverityPass {
		t.Fatalf("expected pass, got %s: %s", result.Status, result.Message)
	}
	if result.Details["entries"] != 1 {
		t.Errorf("expected 1 cache entry, got %v", result.Details["entries"])
	}
	if check.CanFix() {
		t.Error("healthy cache dir should not need fixing")
	}
}

func TestCacheDirCheck_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "cache")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	result := NewCacheDirCheck(file).Run()

	if result.Status != SeverityError {
		t.Errorf("expected error status, got %s", result.Status)
	}
}

func TestManagerCheck(t *testing.T) {
	tests := []struct {
		name       string
		installed  map[string]string
		wantStatus Severity
	}{
		{
			name: "some managers present",
			installed: map[string]string{
				"pyenv":  "/usr/local/bin/pyenv",
				"poetry": "/usr/local/bin/poetry",
			},
			wantStatus: SeverityPass,
		},
		{
			name:       "none installed",
			installed:  map[string]string{},
			wantStatus: SeverityInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := NewManagerCheck()
			check.lookPath = func(bin string) (string, error) {
				if path, ok := tt.installed[bin]; ok {
					return path, nil
				}
				return "", errors.New("not found")
			}

			result := check.Run()

			if result.Status != tt.wantStatus {
				t.Errorf("expected %s, got %s", tt.wantStatus, result.Status)
			}
			if len(result.Details) != len(tt.installed) {
				t.Errorf("expected %d details, got %d", len(tt.installed), len(result.Details))
			}
		})
	}
}

func TestInterpreterCheck_Empty(t *testing.T) {
	result := NewInterpreterCheck([]string{t.TempDir()}).Run()

	if result.Status != SeverityWarning {
		t.Errorf("expected warning when no interpreters found, got %s", result.Status)
	}
}

func TestConfigCheck_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("version: 99\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	result := NewConfigCheck(path).Run()

	if result.Status != SeverityError {
		t.Errorf("expected error for invalid config, got %s: %s", result.Status, result.Message)
	}
}

func TestConfigCheck_Defaults(t *testing.T) {
	t.Setenv("PYSCOUT_CONFIG_DIR", t.TempDir())

	result := NewConfigCheck("").Run()

	if result.Status != SeverityPass {
		t.Errorf("expected pass with default config, got %s: %s", result.Status, result.Message)
	}
	if result.Details["cache_dir"] == "" {
		t.Error("expected cache_dir detail")
	}
}
