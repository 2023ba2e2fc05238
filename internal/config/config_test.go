package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(storageDirEnv, "")

	cfg := Load()

	if cfg.Trends.LocaleSuffix != "en" {
		t.Fatalf("unexpected locale suffix: %q", cfg.Trends.LocaleSuffix)
	}
	if cfg.Trends.MinLatestArticles != 2 {
		t.Fatalf("unexpected popularity floor: %d", cfg.Trends.MinLatestArticles)
	}
	if cfg.Extractor.Timeout != 25*time.Second {
		t.Fatalf("unexpected extractor timeout: %v", cfg.Extractor.Timeout)
	}
	if cfg.Summarizer.MinWords != 60 || cfg.Summarizer.WindowSize != 1000 {
		t.Fatalf("unexpected summarizer limits: %+v", cfg.Summarizer)
	}
	if cfg.Classifier.Threshold != 0.2 || cfg.Classifier.MaxKeywords != 3 {
		t.Fatalf("unexpected classifier settings: %+v", cfg.Classifier)
	}
	if cfg.Storage.LedgerBackend != LedgerCSV {
		t.Fatalf("unexpected ledger backend: %s", cfg.Storage.LedgerBackend)
	}
	if cfg.Scheduler.Location() == nil {
		t.Fatal("expected scheduler location")
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := `
trends:
  minLatestArticles: 5
  requestInterval: 1s
classifier:
  threshold: 0.4
storage:
  dir: /var/lib/trends
  ledgerBackend: sqlite
scheduler:
  cronExpression: "0 */6 * * *"
  timezone: Europe/Berlin
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(configPathEnv, path)
	t.Setenv(storageDirEnv, "/tmp/override")
	t.Setenv(summaryKeyEnv, "secret")

	cfg := Load()

	if cfg.Trends.MinLatestArticles != 5 {
		t.Fatalf("expected file override, got %d", cfg.Trends.MinLatestArticles)
	}
	if cfg.Trends.RequestInterval != time.Second {
		t.Fatalf("expected 1s interval, got %v", cfg.Trends.RequestInterval)
	}
	if cfg.Trends.LocaleSuffix != "en" {
		t.Fatalf("expected default to survive partial file, got %q", cfg.Trends.LocaleSuffix)
	}
	if cfg.Classifier.Threshold != 0.4 {
		t.Fatalf("unexpected threshold: %v", cfg.Classifier.Threshold)
	}
	if cfg.Storage.Dir != "/tmp/override" {
		t.Fatalf("expected env to win over file, got %s", cfg.Storage.Dir)
	}
	if cfg.Storage.LedgerBackend != LedgerSQLite {
		t.Fatalf("unexpected backend: %s", cfg.Storage.LedgerBackend)
	}
	if cfg.Summarizer.APIKey != "secret" {
		t.Fatalf("expected api key from env, got %q", cfg.Summarizer.APIKey)
	}
	if cfg.Scheduler.Location().String() != "Europe/Berlin" {
		t.Fatalf("unexpected location: %s", cfg.Scheduler.Location())
	}
}

func TestLoadUnknownTimezoneFallsBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("scheduler:\n  timezone: Mars/Olympus\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(configPathEnv, path)

	cfg := Load()
	if cfg.Scheduler.Location().String() != defaultTimezone {
		t.Fatalf("expected fallback to %s, got %s", defaultTimezone, cfg.Scheduler.Location())
	}
}

func TestStoragePaths(t *testing.T) {
	t.Parallel()

	s := StorageConfig{Dir: "/data"}
	if got := s.LedgerPath(); got != filepath.Join("/data", "all_trending_ids.csv") {
		t.Fatalf("unexpected ledger path: %s", got)
	}
	if got := s.SnapshotPath(); got != filepath.Join("/data", "current_trending_news.csv") {
		t.Fatalf("unexpected snapshot path: %s", got)
	}
}
