package retry

import (
	"context"
	"fmt"
	"time"

	"TrendingNews/internal/config"
	"TrendingNews/internal/domain"
)

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default context-aware SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Outcome is what one attempt reports back to the policy.
type Outcome struct {
	// Loading is set when the remote model asked the caller to come back later.
	Loading bool
	// EstimatedWait is the server-suggested wait for a loading model.
	EstimatedWait time.Duration
}

// ColdStart re-issues a call while the remote model is loading.
// MaxAttempts <= 0 disables the attempt cap; MaxTotalDelay <= 0 disables the delay cap.
type ColdStart struct {
	MaxAttempts   int
	MaxTotalDelay time.Duration
	Padding       time.Duration
	Sleep         SleepFunc
}

// NewColdStart builds a policy from config.
func NewColdStart(cfg config.RetryConfig) ColdStart {
	return ColdStart{
		MaxAttempts:   cfg.MaxAttempts,
		MaxTotalDelay: cfg.MaxTotalDelay,
		Padding:       cfg.Padding,
		Sleep:         Sleep,
	}
}

// Do calls fn until it reports a non-loading outcome or an error, sleeping
// EstimatedWait+Padding between attempts.
func (p ColdStart) Do(ctx context.Context, fn func(ctx context.Context) (Outcome, error)) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	var waited time.Duration
	for attempt := 1; ; attempt++ {
		out, err := fn(ctx)
		if err != nil {
			return err
		}
		if !out.Loading {
			return nil
		}

		if p.MaxAttempts > 0 && attempt >= p.MaxAttempts {
			return fmt.Errorf("%w: still loading after %d attempts", domain.ErrColdStartTimeout, attempt)
		}

		delay := out.EstimatedWait + p.Padding
		if p.MaxTotalDelay > 0 && waited+delay > p.MaxTotalDelay {
			return fmt.Errorf("%w: waiting %s more would exceed %s", domain.ErrColdStartTimeout, delay, p.MaxTotalDelay)
		}

		if err := sleep(ctx, delay); err != nil {
			return err
		}
		waited += delay
	}
}
