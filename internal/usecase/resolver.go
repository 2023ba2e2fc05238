package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"TrendingNews/internal/config"
	"TrendingNews/internal/domain"
	"TrendingNews/internal/ports"
)

const dateLayout = "2006-01-02"

// Resolver turns trending story ids into fresh records.
type Resolver struct {
	source       ports.TrendSource
	localeSuffix string
	minLatest    int
	location     *time.Location
	now          func() time.Time
	logger       *slog.Logger
}

// NewResolver wires a trend source with the locale and popularity filters.
func NewResolver(source ports.TrendSource, cfg config.TrendsConfig, loc *time.Location, logger *slog.Logger) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{
		source:       source,
		localeSuffix: cfg.LocaleSuffix,
		minLatest:    cfg.MinLatestArticles,
		location:     loc,
		now:          time.Now,
		logger:       orDiscard(logger),
	}
}

// Resolve returns one record per new, popular story in source order.
// Ids of accepted records are added to the ledger, which is committed before returning.
// An unreachable story list is an error so the previous snapshot is kept.
func (r *Resolver) Resolve(ctx context.Context, ledger ports.Ledger) ([]domain.Record, error) {
	ids, err := r.source.TrendingStoryIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list trending stories: %w", err)
	}

	today := r.now().In(r.location).Format(dateLayout)
	records := make([]domain.Record, 0, len(ids))
	added := 0

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if ledger.Seen(id) || !domain.HasLocale(id, r.localeSuffix) {
			continue
		}

		rec, err := r.resolveOne(ctx, id, today)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			r.logger.Debug("story skipped", "id", id, "reason", err)
			continue
		}

		ledger.Add(domain.LedgerEntry{ID: id, Title: rec.Article.Title})
		added++
		records = append(records, rec)
	}

	if added > 0 {
		if err := ledger.Commit(ctx); err != nil {
			return nil, fmt.Errorf("commit ledger: %w", err)
		}
	}

	r.logger.Info("stories resolved", "candidates", len(ids), "accepted", len(records), "ledger_size", ledger.Len())
	return records, nil
}

func (r *Resolver) resolveOne(ctx context.Context, id, today string) (domain.Record, error) {
	story, err := r.source.Story(ctx, id)
	if err != nil {
		return domain.Record{}, err
	}

	articles, ok := story.FirstArticles()
	if !ok || len(articles) == 0 {
		return domain.Record{}, domain.ErrNoArticles
	}

	if latest := story.LatestArticleCount(); latest < r.minLatest {
		return domain.Record{}, fmt.Errorf("only %d latest articles, need %d", latest, r.minLatest)
	}

	first := articles[0]
	return domain.Record{
		ID: id,
		Article: domain.Article{
			Title:    first.Title,
			URL:      first.URL,
			Source:   first.Source,
			ImageURL: first.ImageURL,
			Date:     today,
		},
		CandidateKeywords: domain.SplitKeywords(story.Keywords),
		FinalKeywords:     []string{},
		Entities:          []string{},
	}, nil
}
