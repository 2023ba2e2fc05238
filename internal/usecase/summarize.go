package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"TrendingNews/internal/config"
	"TrendingNews/internal/domain"
	"TrendingNews/internal/ports"
)

var emojiPattern = regexp.MustCompile(`[` +
	`\x{1F600}-\x{1F64F}` +
	`\x{1F300}-\x{1F5FF}` +
	`\x{1F680}-\x{1F6FF}` +
	`\x{1F1E0}-\x{1F1FF}` +
	`\x{2500}-\x{2BEF}` +
	`\x{2702}-\x{27B0}` +
	`\x{24C2}-\x{1F251}` +
	`\x{1F926}-\x{1F937}` +
	`\x{10000}-\x{10FFFF}` +
	`\x{2640}-\x{2642}` +
	`\x{2600}-\x{2B55}` +
	`\x{200D}\x{23CF}\x{23E9}\x{231A}\x{FE0F}\x{3030}` +
	`]+`)

// CleanText collapses blank-line paragraph breaks and strips emoji.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\n\n", " ")
	return emojiPattern.ReplaceAllString(text, "")
}

// WordCount counts words the way the summarizer thresholds expect: split on single spaces.
func WordCount(text string) int {
	return len(strings.Split(text, " "))
}

// Summarizer produces article summaries through a length-limited model.
type Summarizer struct {
	model      ports.SummaryModel
	minWords   int
	windowSize int
	maxWords   int
	logger     *slog.Logger
}

// NewSummarizer wires the model with the thresholds from cfg.
func NewSummarizer(model ports.SummaryModel, cfg config.SummarizerConfig, logger *slog.Logger) *Summarizer {
	window := cfg.WindowSize
	if window <= 0 {
		window = 1000
	}
	return &Summarizer{
		model:      model,
		minWords:   cfg.MinWords,
		windowSize: window,
		maxWords:   cfg.MaxWords,
		logger:     orDiscard(logger),
	}
}

// Summarize returns the summary for raw article text.
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	cleaned := CleanText(text)
	words := WordCount(cleaned)

	if words <= s.minWords {
		return cleaned, nil
	}

	if len([]rune(cleaned)) > s.windowSize || (s.maxWords > 0 && words > s.maxWords) {
		return s.summarizeWindows(ctx, cleaned)
	}

	summary, err := s.model.Summarize(ctx, cleaned)
	if err != nil {
		return "", err
	}
	return stripMarker(summary, ""), nil
}

func (s *Summarizer) summarizeWindows(ctx context.Context, text string) (string, error) {
	windows := splitWindows(text, s.windowSize)
	parts := make([]string, 0, len(windows))
	for i, w := range windows {
		summary, err := s.model.Summarize(ctx, w)
		if err != nil {
			return "", fmt.Errorf("window %d/%d: %w", i+1, len(windows), err)
		}
		if summary == "" {
			continue
		}
		parts = append(parts, summary)
	}

	s.logger.Debug("chunked summary", "windows", len(windows), "parts", len(parts))
	return stripMarker(strings.Join(parts, " "), ""), nil
}

// Apply summarizes every record and drops those that end up without a summary.
func (s *Summarizer) Apply(ctx context.Context, records []domain.Record) ([]domain.Record, error) {
	return fold(ctx, records, func(ctx context.Context, _ int, rec domain.Record) (domain.Record, bool) {
		summary, err := s.Summarize(ctx, rec.Article.Text)
		if err != nil {
			s.logger.Warn("summarization failed", "id", rec.ID, "err", err)
			return rec, false
		}
		if strings.TrimSpace(summary) == "" {
			s.logger.Debug("record dropped", "id", rec.ID, "reason", domain.ErrEmptySummary)
			return rec, false
		}

		rec.Article.Summary = summary
		return rec, true
	})
}

// splitWindows cuts text into consecutive windows of size runes; the last one may be shorter.
func splitWindows(text string, size int) []string {
	runes := []rune(text)
	windows := make([]string, 0, len(runes)/size+1)
	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		windows = append(windows, string(runes[start:end]))
	}
	return windows
}

func stripMarker(text, replacement string) string {
	return strings.ReplaceAll(text, domain.NewlineMarker, replacement)
}
