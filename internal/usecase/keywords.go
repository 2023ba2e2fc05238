package usecase

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"TrendingNews/internal/config"
	"TrendingNews/internal/domain"
	"TrendingNews/internal/ports"
)

// KeywordClassifier narrows candidate keywords to the ones the article is about.
type KeywordClassifier struct {
	classifier  ports.Classifier
	threshold   float64
	maxKeywords int
	logger      *slog.Logger
}

// NewKeywordClassifier wires the zero-shot classifier with threshold and cap from cfg.
func NewKeywordClassifier(classifier ports.Classifier, cfg config.ClassifierConfig, logger *slog.Logger) *KeywordClassifier {
	return &KeywordClassifier{
		classifier:  classifier,
		threshold:   cfg.Threshold,
		maxKeywords: cfg.MaxKeywords,
		logger:      orDiscard(logger),
	}
}

// Select returns the final keywords for rec; failures yield an empty list.
func (k *KeywordClassifier) Select(ctx context.Context, rec domain.Record) []string {
	if len(rec.CandidateKeywords) == 0 {
		return []string{}
	}

	result, err := k.classifier.Classify(ctx, rec.Article.Text, rec.CandidateKeywords)
	if err != nil {
		k.logger.Warn("classification failed", "id", rec.ID, "err", err)
		return []string{}
	}

	return SelectKeywords(result, rec.CandidateKeywords, k.threshold, k.maxKeywords)
}

// SelectKeywords applies the confidence gate to a classification.
// The first score as returned gates the whole result; surviving labels are
// ranked by descending score and capped at limit.
func SelectKeywords(result domain.Classification, candidates []string, threshold float64, limit int) []string {
	selected := []string{}
	if len(result.Scores) == 0 || result.Scores[0] <= threshold {
		return selected
	}

	type scored struct {
		label string
		score float64
	}
	ranked := make([]scored, 0, len(result.Labels))
	for i, label := range result.Labels {
		if i >= len(result.Scores) {
			break
		}
		ranked = append(ranked, scored{label: label, score: result.Scores[i]})
	}
	slices.SortStableFunc(ranked, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	for _, r := range ranked {
		if limit > 0 && len(selected) >= limit {
			break
		}
		if !slices.Contains(candidates, r.label) || slices.Contains(selected, r.label) {
			continue
		}
		selected = append(selected, r.label)
	}
	return selected
}

// Apply classifies every record; it never drops one.
func (k *KeywordClassifier) Apply(ctx context.Context, records []domain.Record) ([]domain.Record, error) {
	return fold(ctx, records, func(ctx context.Context, _ int, rec domain.Record) (domain.Record, bool) {
		rec.CandidateKeywords = cloneStrings(rec.CandidateKeywords)
		rec.FinalKeywords = k.Select(ctx, rec)
		return rec, true
	})
}
