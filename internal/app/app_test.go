package app

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"TrendingNews/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()

	cfg := config.Config{}
	cfg.Storage = config.StorageConfig{Dir: t.TempDir(), LedgerBackend: config.LedgerCSV}
	cfg.Server.Addr = "127.0.0.1:0"
	cfg.Summarizer.WindowSize = 1000
	return cfg
}

func TestNewWiresCSVBackend(t *testing.T) {
	t.Parallel()

	application, err := New(context.Background(), testConfig(t), slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	t.Cleanup(func() { _ = application.Close() })

	if application.scheduler != nil {
		t.Fatal("scheduler should be disabled without a cron expression")
	}

	w := httptest.NewRecorder()
	application.server.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fetch_data", nil))
	if w.Body.String() != "{\"success\":false}\n" {
		t.Fatalf("expected failure without a snapshot, got %s", w.Body.String())
	}
}

func TestNewWiresSQLiteBackendAndScheduler(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Storage.LedgerBackend = config.LedgerSQLite
	cfg.Storage.LedgerDSN = filepath.Join(cfg.Storage.Dir, "ledger.db")
	cfg.Scheduler.CronExpression = "0 6 * * *"

	application, err := New(context.Background(), cfg, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	t.Cleanup(func() { _ = application.Close() })

	if application.scheduler == nil {
		t.Fatal("expected scheduler to be wired")
	}
	if len(application.closers) != 1 {
		t.Fatalf("expected sqlite ledger to be closable, got %d closers", len(application.closers))
	}
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Storage.LedgerBackend = "mongo"
	if _, err := New(context.Background(), cfg, slog.New(slog.DiscardHandler)); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
