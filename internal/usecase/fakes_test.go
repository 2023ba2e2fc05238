package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"TrendingNews/internal/domain"
)

type fakeSource struct {
	ids     []string
	listErr error
	stories map[string]domain.StoryDetail
	calls   []string
}

func (f *fakeSource) TrendingStoryIDs(context.Context) ([]string, error) {
	return f.ids, f.listErr
}

func (f *fakeSource) Story(_ context.Context, id string) (domain.StoryDetail, error) {
	f.calls = append(f.calls, id)
	story, ok := f.stories[id]
	if !ok {
		return domain.StoryDetail{}, errors.New("not found")
	}
	return story, nil
}

type memoryLedger struct {
	mu        sync.Mutex
	entries   []domain.LedgerEntry
	seen      map[string]bool
	commits   int
	commitErr error
}

func newMemoryLedger(ids ...string) *memoryLedger {
	l := &memoryLedger{seen: map[string]bool{}}
	for _, id := range ids {
		l.Add(domain.LedgerEntry{ID: id})
	}
	return l
}

func (l *memoryLedger) Load(context.Context) error { return nil }

func (l *memoryLedger) Seen(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seen[id]
}

func (l *memoryLedger) Add(e domain.LedgerEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.seen[e.ID] {
		return
	}
	l.seen[e.ID] = true
	l.entries = append(l.entries, e)
}

func (l *memoryLedger) Commit(context.Context) error {
	l.commits++
	return l.commitErr
}

func (l *memoryLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

type fakeExtractor struct {
	texts map[string]string
	calls []string
}

func (f *fakeExtractor) Extract(_ context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	text, ok := f.texts[url]
	if !ok {
		return "", errors.New("fetch failed")
	}
	return text, nil
}

type fakeModel struct {
	inputs []string
	reply  func(input string) (string, error)
}

func (f *fakeModel) Summarize(_ context.Context, text string) (string, error) {
	f.inputs = append(f.inputs, text)
	if f.reply == nil {
		return "summary", nil
	}
	return f.reply(text)
}

type fakeClassifier struct {
	result domain.Classification
	err    error
	calls  int
}

func (f *fakeClassifier) Classify(context.Context, string, []string) (domain.Classification, error) {
	f.calls++
	return f.result, f.err
}

type fakeRecognizer struct {
	spans []domain.EntitySpan
	err   error
	texts []string
}

func (f *fakeRecognizer) Recognize(_ context.Context, text string) ([]domain.EntitySpan, error) {
	f.texts = append(f.texts, text)
	return f.spans, f.err
}

type memorySnapshot struct {
	saved   []domain.Record
	saves   int
	saveErr error
}

func (m *memorySnapshot) Save(_ context.Context, records []domain.Record) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.saved = records
	return nil
}

func (m *memorySnapshot) Load(context.Context) ([]domain.Record, error) {
	if m.saves == 0 {
		return nil, errors.New("no snapshot")
	}
	return m.saved, nil
}

func noSleep(context.Context, time.Duration) error { return nil }

func storyWith(keywords string, buckets []int, articles ...domain.SourceArticle) domain.StoryDetail {
	series := make([]domain.Bucket, 0, len(buckets))
	for _, b := range buckets {
		series = append(series, domain.Bucket{Articles: b})
	}
	return domain.StoryDetail{
		Keywords: keywords,
		Widgets: []domain.Widget{
			{Kind: domain.WidgetArticles, Articles: articles},
			{Kind: domain.WidgetOther},
			{Kind: domain.WidgetTimeSeries, Series: series},
		},
	}
}
