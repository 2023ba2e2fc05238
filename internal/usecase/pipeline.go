package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"TrendingNews/internal/domain"
	"TrendingNews/internal/ports"
)

// PipelineDeps wires all stages and stores into the orchestration pipeline.
type PipelineDeps struct {
	Ledger     ports.Ledger
	Snapshot   ports.SnapshotStore
	Resolver   *Resolver
	Extractor  *Extractor
	Summarizer *Summarizer
	Keywords   *KeywordClassifier
	Entities   *EntityTagger
	Logger     *slog.Logger
}

// RunReport describes one pipeline run.
type RunReport struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Resolved   int       `json:"resolved"`
	Extracted  int       `json:"extracted"`
	Summarized int       `json:"summarized"`
	Saved      int       `json:"saved"`
}

// Pipeline implements the trending-news enrichment workflow.
type Pipeline struct {
	ledger     ports.Ledger
	snapshot   ports.SnapshotStore
	resolver   *Resolver
	extractor  *Extractor
	summarizer *Summarizer
	keywords   *KeywordClassifier
	entities   *EntityTagger
	logger     *slog.Logger
	now        func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		ledger:     deps.Ledger,
		snapshot:   deps.Snapshot,
		resolver:   deps.Resolver,
		extractor:  deps.Extractor,
		summarizer: deps.Summarizer,
		keywords:   deps.Keywords,
		entities:   deps.Entities,
		logger:     orDiscard(deps.Logger),
		now:        time.Now,
	}
}

// Run resolves new stories, enriches them stage by stage and replaces the snapshot.
func (p *Pipeline) Run(ctx context.Context) (RunReport, error) {
	report := RunReport{RunID: ulid.Make().String(), StartedAt: p.now()}
	logger := p.logger.With("run_id", report.RunID)
	logger.Info("pipeline started")

	if err := p.ledger.Load(ctx); err != nil {
		return report, fmt.Errorf("load ledger: %w", err)
	}

	records, err := p.resolver.Resolve(ctx, p.ledger)
	if err != nil {
		return report, fmt.Errorf("resolve: %w", err)
	}
	report.Resolved = len(records)

	if records, err = p.extractor.Apply(ctx, records); err != nil {
		return report, fmt.Errorf("extract: %w", err)
	}
	report.Extracted = len(records)

	if records, err = p.summarizer.Apply(ctx, records); err != nil {
		return report, fmt.Errorf("summarize: %w", err)
	}
	report.Summarized = len(records)

	if records, err = p.keywords.Apply(ctx, records); err != nil {
		return report, fmt.Errorf("classify: %w", err)
	}

	if records, err = p.entities.Apply(ctx, records); err != nil {
		return report, fmt.Errorf("tag entities: %w", err)
	}

	if err := p.snapshot.Save(ctx, records); err != nil {
		return report, fmt.Errorf("save snapshot: %w", err)
	}
	report.Saved = len(records)
	report.FinishedAt = p.now()

	logger.Info("pipeline finished",
		"resolved", report.Resolved,
		"extracted", report.Extracted,
		"summarized", report.Summarized,
		"saved", report.Saved,
		"took", report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond),
	)
	return report, nil
}

// Snapshot returns the records of the last successful run.
func (p *Pipeline) Snapshot(ctx context.Context) ([]domain.Record, error) {
	return p.snapshot.Load(ctx)
}
