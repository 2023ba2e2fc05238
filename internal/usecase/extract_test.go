package usecase

import (
	"context"
	"testing"
	"time"

	"TrendingNews/internal/config"
	"TrendingNews/internal/domain"
)

func TestExtractorDropsAndSleepsBetweenFetches(t *testing.T) {
	t.Parallel()

	client := &fakeExtractor{texts: map[string]string{
		"https://example.com/a": "Body of a.",
		"https://example.com/c": "   ",
		"https://example.com/d": "Body of d.",
	}}
	stage := NewExtractor(client, config.ExtractorConfig{MinDelay: 2 * time.Second, MaxDelay: 5 * time.Second}, nil)

	var sleeps []time.Duration
	stage.sleep = func(_ context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}

	records := []domain.Record{
		{ID: "a", Article: domain.Article{URL: "https://example.com/a"}},
		{ID: "no-url"},
		{ID: "b", Article: domain.Article{URL: "https://example.com/b"}},
		{ID: "c", Article: domain.Article{URL: "https://example.com/c"}},
		{ID: "d", Article: domain.Article{URL: "https://example.com/d"}},
	}

	out, err := stage.Apply(context.Background(), records)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if len(out) != 2 || out[0].ID != "a" || out[1].ID != "d" {
		t.Fatalf("unexpected survivors: %+v", out)
	}
	if out[1].Article.Text != "Body of d." {
		t.Fatalf("unexpected text: %q", out[1].Article.Text)
	}
	if len(client.calls) != 4 {
		t.Fatalf("expected 4 fetches, got %d", len(client.calls))
	}
	if len(sleeps) != 3 {
		t.Fatalf("expected a pause between each of the 4 fetches, got %d", len(sleeps))
	}
	for _, d := range sleeps {
		if d < 2*time.Second || d > 5*time.Second {
			t.Fatalf("delay %s outside [2s, 5s]", d)
		}
	}
}

func TestExtractorStopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stage := NewExtractor(&fakeExtractor{}, config.ExtractorConfig{}, nil)
	stage.sleep = noSleep

	if _, err := stage.Apply(ctx, []domain.Record{{ID: "a", Article: domain.Article{URL: "u"}}}); err == nil {
		t.Fatal("expected context error")
	}
}

func TestRandomBetween(t *testing.T) {
	t.Parallel()

	for range 100 {
		d := randomBetween(2*time.Second, 5*time.Second)
		if d < 2*time.Second || d > 5*time.Second {
			t.Fatalf("out of range: %s", d)
		}
	}
	if got := randomBetween(3*time.Second, time.Second); got != 3*time.Second {
		t.Fatalf("inverted bounds should return the lower bound, got %s", got)
	}
}
