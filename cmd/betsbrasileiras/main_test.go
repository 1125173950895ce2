package main

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	apppkg "github.com/hyperifyio/betsbrasileiras/internal/app"
	"github.com/hyperifyio/betsbrasileiras/internal/extract/extracttest"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		outcome apppkg.Outcome
		err     error
		want    int
	}{
		{apppkg.OutcomeWritten, nil, ExitOK},
		{apppkg.OutcomeEmptySource, nil, ExitEmptySource},
		{apppkg.OutcomeNoChanges, nil, ExitNoChanges},
		{apppkg.OutcomeWritten, errors.New("boom"), ExitFailure},
	}
	for _, tc := range cases {
		if got := exitCode(tc.outcome, tc.err); got != tc.want {
			t.Errorf("exitCode(%s, %v)=%d want %d", tc.outcome, tc.err, got, tc.want)
		}
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "bets.yaml")
	if err := os.WriteFile(cfgPath, []byte("output:\n  dir: from-file\n  metrics: file.prom\ncache:\n  dir: file-cache\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("BETS_CACHE_DIR=env-cache\nBETS_METRICS_FILE=env.prom\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("BETS_CACHE_DIR", "")
	t.Setenv("BETS_METRICS_FILE", "")

	cfg, err := loadConfig([]string{"-config", cfgPath, "-env", envPath, "-metrics.file", "flag.prom"})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.ResultDir != "from-file" {
		t.Fatalf("ResultDir=%q, want from-file", cfg.ResultDir)
	}
	if cfg.CacheDir != "env-cache" {
		t.Fatalf("CacheDir=%q, env should beat file", cfg.CacheDir)
	}
	if cfg.MetricsFile != "flag.prom" {
		t.Fatalf("MetricsFile=%q, flag should beat env", cfg.MetricsFile)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	if _, err := loadConfig([]string{"-env", "", "-formats", "docx"}); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := loadConfig([]string{"-no-such-flag"}); err == nil {
		t.Fatalf("expected flag error")
	}
}

// Smoke test: run against local fixtures and check the no-change path maps
// to its exit code.
func TestRun_NoChangesExitCode(t *testing.T) {
	pdf := extracttest.BuildPDF([]string{
		"Requerimento\tRazão Social\tCNPJ\tMarca\tDomínio",
		"0001/2024\tACME CORP\t12.345.678/0001-90\tAcmeBet\tacmebet.com",
	})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(pdf)
	}))
	defer srv.Close()

	dir := t.TempDir()
	snapshot := filepath.Join(dir, "bets.json")
	snap := `[{"ApplicationNumber":"0001","ApplicationYear":"2024","Document":"12.345.678/0001-90","FiscalName":"ACME CORP","Brand":"AcmeBet","Domain":"acmebet.com","DateRegistered":"2024-08-01T10:00:00Z","DateUpdated":"2024-08-01T10:00:00Z"}]`
	if err := os.WriteFile(snapshot, []byte(snap), 0o644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	changelog := filepath.Join(dir, "CHANGELOG.md")
	if err := os.WriteFile(changelog, []byte("## Changelog\n"), 0o644); err != nil {
		t.Fatalf("write changelog: %v", err)
	}

	cfg := apppkg.DefaultConfig()
	cfg.SnapshotURL = snapshot
	cfg.ChangelogURL = changelog
	cfg.SPAURL = srv.URL + "/lista.pdf"
	cfg.ResultDir = filepath.Join(dir, "result")

	outcome, err := run(cfg)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if got := exitCode(outcome, err); got != ExitNoChanges {
		t.Fatalf("exit code=%d want %d", got, ExitNoChanges)
	}
}
