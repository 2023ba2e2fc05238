package domain

// Classification is a zero-shot classifier response, labels ordered as returned.
type Classification struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// EntitySpan is a labelled named-entity chunk.
type EntitySpan struct {
	Text  string
	Label string
}
