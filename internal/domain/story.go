package domain

// WidgetKind tags the entries of a story detail payload.
type WidgetKind int

const (
	WidgetOther WidgetKind = iota
	WidgetTimeSeries
	WidgetArticles
)

// Bucket is one point of a story's popularity time series.
type Bucket struct {
	Articles int
}

// SourceArticle is one candidate article attached to a story.
type SourceArticle struct {
	Title    string
	URL      string
	Source   string
	ImageURL string
}

// Widget is a single decoded entry of the story detail's widget list.
// Only the field matching Kind is populated.
type Widget struct {
	Kind     WidgetKind
	Series   []Bucket
	Articles []SourceArticle
}

// StoryDetail is the decoded per-story payload.
type StoryDetail struct {
	ID       string
	Keywords string
	Widgets  []Widget
}

// FirstArticles returns the article list of the first article widget.
func (s StoryDetail) FirstArticles() ([]SourceArticle, bool) {
	for _, w := range s.Widgets {
		if w.Kind == WidgetArticles {
			return w.Articles, true
		}
	}
	return nil, false
}

// FirstSeries returns the buckets of the first time-series widget.
func (s StoryDetail) FirstSeries() ([]Bucket, bool) {
	for _, w := range s.Widgets {
		if w.Kind == WidgetTimeSeries {
			return w.Series, true
		}
	}
	return nil, false
}

// LatestArticleCount sums the two most recent popularity buckets.
// It returns -1 when the story carries no time series.
func (s StoryDetail) LatestArticleCount() int {
	series, ok := s.FirstSeries()
	if !ok || len(series) == 0 {
		return -1
	}
	total := series[len(series)-1].Articles
	if len(series) > 1 {
		total += series[len(series)-2].Articles
	}
	return total
}
