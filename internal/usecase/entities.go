package usecase

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"TrendingNews/internal/domain"
	"TrendingNews/internal/ports"
)

var entityLabels = map[string]struct{}{
	"PERSON":       {},
	"GPE":          {},
	"LOCATION":     {},
	"ORGANIZATION": {},
	"ORG":          {},
	"FACILITY":     {},
	"FAC":          {},
	"PRODUCT":      {},
	"EVENT":        {},
}

// EntityTagger attaches named entities found in the summary.
type EntityTagger struct {
	recognizer ports.EntityRecognizer
	logger     *slog.Logger
}

// NewEntityTagger wires a recognizer.
func NewEntityTagger(recognizer ports.EntityRecognizer, logger *slog.Logger) *EntityTagger {
	return &EntityTagger{recognizer: recognizer, logger: orDiscard(logger)}
}

// Tag returns the filtered entity set for rec, sorted.
func (t *EntityTagger) Tag(ctx context.Context, rec domain.Record) []string {
	text := stripMarker(rec.Article.Summary, " ")

	spans, err := t.recognizer.Recognize(ctx, text)
	if err != nil {
		t.logger.Warn("entity recognition failed", "id", rec.ID, "err", err)
		return []string{}
	}

	var found []string
	for _, span := range spans {
		if _, ok := entityLabels[strings.ToUpper(span.Label)]; !ok {
			continue
		}
		name := strings.Join(strings.Fields(span.Text), " ")
		if name != "" {
			found = append(found, name)
		}
	}

	return FilterEntities(found, rec.FinalKeywords)
}

// FilterEntities dedupes entities, keeps only maximal spans and drops those
// already covered by a keyword. The result is sorted.
func FilterEntities(entities, keywords []string) []string {
	unique := make([]string, 0, len(entities))
	for _, e := range entities {
		if e != "" && !slices.Contains(unique, e) {
			unique = append(unique, e)
		}
	}

	maximal := make([]string, 0, len(unique))
	for _, e := range unique {
		if !containedInOther(e, unique) {
			maximal = append(maximal, e)
		}
	}

	out := make([]string, 0, len(maximal))
	for _, e := range maximal {
		covered := slices.ContainsFunc(keywords, func(kw string) bool {
			return strings.Contains(kw, e)
		})
		if !covered {
			out = append(out, e)
		}
	}

	slices.Sort(out)
	return out
}

func containedInOther(e string, all []string) bool {
	for _, other := range all {
		if other != e && strings.Contains(other, e) {
			return true
		}
	}
	return false
}

// Apply tags every record; it never drops one.
func (t *EntityTagger) Apply(ctx context.Context, records []domain.Record) ([]domain.Record, error) {
	return fold(ctx, records, func(ctx context.Context, _ int, rec domain.Record) (domain.Record, bool) {
		rec.Entities = t.Tag(ctx, rec)
		return rec, true
	})
}
