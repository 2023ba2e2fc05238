package ner

import (
	"context"
	"fmt"

	"github.com/jdkato/prose/v2"

	"TrendingNews/internal/domain"
	"TrendingNews/internal/ports"
)

// ProseRecognizer tags named entities with the bundled prose model.
type ProseRecognizer struct{}

var _ ports.EntityRecognizer = (*ProseRecognizer)(nil)

// NewProseRecognizer returns a recognizer; the model is loaded lazily by prose.
func NewProseRecognizer() *ProseRecognizer {
	return &ProseRecognizer{}
}

// Recognize returns entity spans in document order.
func (r *ProseRecognizer) Recognize(ctx context.Context, text string) ([]domain.EntitySpan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil, fmt.Errorf("tag document: %w", err)
	}

	ents := doc.Entities()
	spans := make([]domain.EntitySpan, 0, len(ents))
	for _, ent := range ents {
		spans = append(spans, domain.EntitySpan{Text: ent.Text, Label: ent.Label})
	}
	return spans, nil
}
