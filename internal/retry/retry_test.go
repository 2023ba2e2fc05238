package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"TrendingNews/internal/domain"
)

type recordingSleeper struct {
	calls []time.Duration
}

func (r *recordingSleeper) sleep(_ context.Context, d time.Duration) error {
	r.calls = append(r.calls, d)
	return nil
}

func TestColdStartRetriesAfterEstimate(t *testing.T) {
	t.Parallel()

	rec := &recordingSleeper{}
	policy := ColdStart{MaxAttempts: 5, Padding: 5 * time.Second, Sleep: rec.sleep}

	attempts := 0
	err := policy.Do(context.Background(), func(context.Context) (Outcome, error) {
		attempts++
		if attempts == 1 {
			return Outcome{Loading: true, EstimatedWait: 3 * time.Second}, nil
		}
		return Outcome{}, nil
	})
	if err != nil {
		t.Fatalf("Do error: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
	if len(rec.calls) != 1 || rec.calls[0] < 8*time.Second {
		t.Fatalf("expected a single sleep of at least 8s, got %v", rec.calls)
	}
}

func TestColdStartAttemptCap(t *testing.T) {
	t.Parallel()

	rec := &recordingSleeper{}
	policy := ColdStart{MaxAttempts: 3, Padding: time.Second, Sleep: rec.sleep}

	attempts := 0
	err := policy.Do(context.Background(), func(context.Context) (Outcome, error) {
		attempts++
		return Outcome{Loading: true}, nil
	})
	if !errors.Is(err, domain.ErrColdStartTimeout) {
		t.Fatalf("expected cold start timeout, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	if len(rec.calls) != 2 {
		t.Fatalf("expected 2 sleeps, got %d", len(rec.calls))
	}
}

func TestColdStartDelayCap(t *testing.T) {
	t.Parallel()

	rec := &recordingSleeper{}
	policy := ColdStart{MaxTotalDelay: 20 * time.Second, Padding: 5 * time.Second, Sleep: rec.sleep}

	err := policy.Do(context.Background(), func(context.Context) (Outcome, error) {
		return Outcome{Loading: true, EstimatedWait: 10 * time.Second}, nil
	})
	if !errors.Is(err, domain.ErrColdStartTimeout) {
		t.Fatalf("expected cold start timeout, got %v", err)
	}
	if len(rec.calls) != 1 {
		t.Fatalf("expected one 15s sleep before the cap, got %v", rec.calls)
	}
}

func TestColdStartPropagatesError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	policy := ColdStart{MaxAttempts: 3}
	err := policy.Do(context.Background(), func(context.Context) (Outcome, error) {
		return Outcome{}, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestSleepHonoursContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := Sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
