package usecase

import (
	"context"
	"log/slog"

	"TrendingNews/internal/domain"
)

// stepFunc transforms one record; keep=false omits it from the output.
type stepFunc func(ctx context.Context, index int, rec domain.Record) (out domain.Record, keep bool)

// fold runs step over records and returns a new slice in the same order.
// Only context cancellation stops the fold early.
func fold(ctx context.Context, records []domain.Record, step stepFunc) ([]domain.Record, error) {
	out := make([]domain.Record, 0, len(records))
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, keep := step(ctx, i, rec)
		if keep {
			out = append(out, next)
		}
	}
	return out, nil
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
