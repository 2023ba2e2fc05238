package ports

import (
	"context"
	"time"

	"TrendingNews/internal/domain"
)

// TrendSource lists trending story ids and fetches per-story detail.
type TrendSource interface {
	TrendingStoryIDs(ctx context.Context) ([]string, error)
	Story(ctx context.Context, id string) (domain.StoryDetail, error)
}

// Ledger is the durable set of already processed story ids.
type Ledger interface {
	Load(ctx context.Context) error
	Seen(id string) bool
	Add(entry domain.LedgerEntry)
	Commit(ctx context.Context) error
	Len() int
}

// TextExtractor downloads a page and returns its boilerplate-free text.
type TextExtractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// SummaryModel produces a summary for a single model-sized input.
type SummaryModel interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Classifier scores candidate labels against text (zero-shot, multi-label).
type Classifier interface {
	Classify(ctx context.Context, text string, labels []string) (domain.Classification, error)
}

// EntityRecognizer extracts labelled named-entity spans from text.
type EntityRecognizer interface {
	Recognize(ctx context.Context, text string) ([]domain.EntitySpan, error)
}

// SnapshotStore persists the enriched record list for the serving layer.
type SnapshotStore interface {
	Save(ctx context.Context, records []domain.Record) error
	Load(ctx context.Context) ([]domain.Record, error)
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
