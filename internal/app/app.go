package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"TrendingNews/internal/config"
	"TrendingNews/internal/httpapi"
	"TrendingNews/internal/infrastructure/ml"
	"TrendingNews/internal/infrastructure/ner"
	"TrendingNews/internal/infrastructure/parser"
	"TrendingNews/internal/infrastructure/scheduler"
	"TrendingNews/internal/infrastructure/storage"
	"TrendingNews/internal/infrastructure/trends"
	"TrendingNews/internal/logging"
	"TrendingNews/internal/ports"
	"TrendingNews/internal/retry"
	"TrendingNews/internal/usecase"
)

const shutdownTimeout = 30 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	pipeline  *usecase.Pipeline
	scheduler *usecase.Scheduler
	server    *http.Server
	closers   []io.Closer
}

// New builds a runnable application instance from cfg.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging)
	}

	app := &Application{cfg: cfg, logger: baseLogger}

	ledger, err := app.openLedger(ctx)
	if err != nil {
		return nil, err
	}

	policy := retry.NewColdStart(cfg.Retry)
	loc := cfg.Scheduler.Location()

	source := trends.NewClient(cfg.Trends, nil, baseLogger.With("component", "trends"))
	pages := parser.NewArticleExtractor(cfg.Extractor, nil, baseLogger.With("component", "parser"))
	summaryModel := ml.NewClient(cfg.Summarizer.Endpoint, cfg.Summarizer.APIKey, policy, baseLogger.With("component", "ml.summarizer"))
	classifierModel := ml.NewClient(cfg.Classifier.Endpoint, cfg.Classifier.APIKey, policy, baseLogger.With("component", "ml.classifier"))

	app.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Ledger:     ledger,
		Snapshot:   storage.NewCSVSnapshot(cfg.Storage.SnapshotPath()),
		Resolver:   usecase.NewResolver(source, cfg.Trends, loc, baseLogger.With("component", "resolver")),
		Extractor:  usecase.NewExtractor(pages, cfg.Extractor, baseLogger.With("component", "extractor")),
		Summarizer: usecase.NewSummarizer(summaryModel, cfg.Summarizer, baseLogger.With("component", "summarizer")),
		Keywords:   usecase.NewKeywordClassifier(classifierModel, cfg.Classifier, baseLogger.With("component", "keywords")),
		Entities:   usecase.NewEntityTagger(ner.NewProseRecognizer(), baseLogger.With("component", "entities")),
		Logger:     baseLogger.With("component", "pipeline"),
	})

	if cfg.Scheduler.CronExpression != "" {
		driver := scheduler.NewCronScheduler(cfg.Scheduler.CronExpression, loc, baseLogger.With("component", "scheduler"))
		app.scheduler = usecase.NewScheduler(driver, app.pipeline, baseLogger.With("component", "scheduler"))
	}

	handler := httpapi.NewHandler(app.pipeline, baseLogger.With("component", "http"))
	app.server = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return app, nil
}

func (a *Application) openLedger(ctx context.Context) (ports.Ledger, error) {
	switch a.cfg.Storage.LedgerBackend {
	case "", config.LedgerCSV:
		return storage.NewCSVLedger(a.cfg.Storage.LedgerPath()), nil
	case config.LedgerSQLite, config.LedgerPostgres:
		ledger, err := storage.OpenSQLLedger(ctx, a.cfg.Storage.LedgerBackend, a.cfg.Storage.LedgerDSN)
		if err != nil {
			return nil, fmt.Errorf("open ledger: %w", err)
		}
		a.closers = append(a.closers, ledger)
		return ledger, nil
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", a.cfg.Storage.LedgerBackend)
	}
}

// RunOnce executes a single pipeline pass.
func (a *Application) RunOnce(ctx context.Context) (usecase.RunReport, error) {
	return a.pipeline.Run(ctx)
}

// Run serves HTTP and, when configured, the cron schedule until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if a.scheduler != nil {
		if err := a.scheduler.Start(ctx); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err, ok := <-errCh:
		if ok {
			runErr = fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("http shutdown", "err", err)
	}
	if a.scheduler != nil {
		if err := a.scheduler.Stop(shutdownCtx); err != nil {
			a.logger.Warn("scheduler stop", "err", err)
		}
	}

	return runErr
}

// Close releases storage handles.
func (a *Application) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
