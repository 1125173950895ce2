package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// LoadEnvFiles reads KEY=VALUE pairs and populates the process environment.
func TestLoadEnvFiles_LoadsKeyValues(t *testing.T) {
	t.Setenv("FOO", "")
	t.Setenv("BAR", "")

	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env.test")
	content := "\n# sample dotenv file\nFOO=alpha\nBAR=beta\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	if err := LoadEnvFiles(envPath); err != nil {
		t.Fatalf("LoadEnvFiles error: %v", err)
	}

	if got := os.Getenv("FOO"); got != "alpha" {
		t.Fatalf("FOO=%q, want alpha", got)
	}
	if got := os.Getenv("BAR"); got != "beta" {
		t.Fatalf("BAR=%q, want beta", got)
	}
}

// Later files override earlier ones when loading multiple dotenv files.
func TestLoadEnvFiles_OverrideOrder(t *testing.T) {
	t.Setenv("K", "")
	dir := t.TempDir()
	a := filepath.Join(dir, ".env.a")
	b := filepath.Join(dir, ".env.b")
	if err := os.WriteFile(a, []byte("K=first\n"), 0o600); err != nil {
		t.Fatalf("write a: %v", err)
	}
	if err := os.WriteFile(b, []byte("K=second\n"), 0o600); err != nil {
		t.Fatalf("write b: %v", err)
	}

	if err := LoadEnvFiles(a, b); err != nil {
		t.Fatalf("LoadEnvFiles error: %v", err)
	}
	if got := os.Getenv("K"); got != "second" {
		t.Fatalf("override order failed: got %q, want second", got)
	}
}

func TestLoadEnvFiles_MissingFileIsSkipped(t *testing.T) {
	if err := LoadEnvFiles(filepath.Join(t.TempDir(), ".env"), ""); err != nil {
		t.Fatalf("missing file should be skipped: %v", err)
	}
}

func TestApplyEnvOverrides_FromEnv(t *testing.T) {
	t.Setenv("BETS_SNAPSHOT_URL", "https://example.com/bets.json")
	t.Setenv("BETS_RESULT_DIR", "out")
	t.Setenv("BETS_HTTP_TIMEOUT", "15s")
	t.Setenv("BETS_CACHE_MAX_AGE", "not-a-duration")
	t.Setenv("BETS_SPLICE", "yes")
	t.Setenv("BETS_ARCHIVE", "off")
	t.Setenv("GCS_CREDENTIALS_JSON", `{"type":"service_account"}`)

	cfg := DefaultConfig()
	cfg.Archive = true
	cfg.CacheMaxAge = time.Hour
	ApplyEnvOverrides(&cfg)

	if cfg.SnapshotURL != "https://example.com/bets.json" {
		t.Fatalf("SnapshotURL=%q", cfg.SnapshotURL)
	}
	if cfg.ResultDir != "out" {
		t.Fatalf("ResultDir=%q", cfg.ResultDir)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Fatalf("HTTPTimeout=%v", cfg.HTTPTimeout)
	}
	if cfg.CacheMaxAge != time.Hour {
		t.Fatalf("bad duration should be ignored, got %v", cfg.CacheMaxAge)
	}
	if !cfg.Splice || cfg.Archive {
		t.Fatalf("bool overrides not applied: splice=%v archive=%v", cfg.Splice, cfg.Archive)
	}
	if cfg.GCSCredentialsJSON == "" {
		t.Fatalf("GCS credentials not read")
	}
}

func TestApplyEnvOverrides_NilSafe(t *testing.T) {
	ApplyEnvOverrides(nil)
}
