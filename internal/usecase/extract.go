package usecase

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"TrendingNews/internal/config"
	"TrendingNews/internal/domain"
	"TrendingNews/internal/ports"
	"TrendingNews/internal/retry"
)

// Extractor fills article text and drops records whose page yields nothing.
type Extractor struct {
	client   ports.TextExtractor
	minDelay time.Duration
	maxDelay time.Duration
	sleep    retry.SleepFunc
	jitter   func(lo, hi time.Duration) time.Duration
	logger   *slog.Logger
}

// NewExtractor wires the page extractor with the politeness delay from cfg.
func NewExtractor(client ports.TextExtractor, cfg config.ExtractorConfig, logger *slog.Logger) *Extractor {
	return &Extractor{
		client:   client,
		minDelay: cfg.MinDelay,
		maxDelay: cfg.MaxDelay,
		sleep:    retry.Sleep,
		jitter:   randomBetween,
		logger:   orDiscard(logger),
	}
}

// Apply extracts every record in order, pausing between successive downloads.
func (e *Extractor) Apply(ctx context.Context, records []domain.Record) ([]domain.Record, error) {
	fetched := 0
	var sleepErr error

	out, err := fold(ctx, records, func(ctx context.Context, _ int, rec domain.Record) (domain.Record, bool) {
		if strings.TrimSpace(rec.Article.URL) == "" {
			e.logger.Debug("record dropped", "id", rec.ID, "reason", "empty url")
			return rec, false
		}

		if fetched > 0 {
			if err := e.sleep(ctx, e.jitter(e.minDelay, e.maxDelay)); err != nil {
				sleepErr = err
				return rec, false
			}
		}
		fetched++

		text, err := e.client.Extract(ctx, rec.Article.URL)
		if err != nil {
			e.logger.Warn("extraction failed", "id", rec.ID, "url", rec.Article.URL, "err", err)
			return rec, false
		}
		if strings.TrimSpace(text) == "" {
			e.logger.Debug("record dropped", "id", rec.ID, "reason", domain.ErrEmptyText)
			return rec, false
		}

		rec.Article.Text = text
		return rec, true
	})
	if err != nil {
		return nil, err
	}
	if sleepErr != nil {
		return nil, sleepErr
	}
	return out, nil
}

func randomBetween(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + rand.N(hi-lo+1)
}
