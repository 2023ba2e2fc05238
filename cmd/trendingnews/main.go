package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"TrendingNews/internal/app"
	"TrendingNews/internal/config"
	"TrendingNews/internal/logging"
)

func main() {
	once := flag.Bool("once", false, "run the pipeline a single time and exit")
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(cfg.Logging)

	if err := run(cfg, logger, *once); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger, once bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Warn("close application", "error", err)
		}
	}()

	if once {
		_, err := application.RunOnce(ctx)
		return err
	}
	return application.Run(ctx)
}
