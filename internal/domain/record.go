package domain

import "strings"

// NewlineMarker is the token the summarization model emits for line breaks.
const NewlineMarker = "<n>"

// Article is the representative article chosen by the trend source for a story.
type Article struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Source   string `json:"source"`
	ImageURL string `json:"image_url"`
	Date     string `json:"date"`
	Text     string `json:"text,omitempty"`
	Summary  string `json:"summary,omitempty"`
}

// Record is the unit flowing through the enrichment pipeline.
type Record struct {
	ID                string   `json:"id"`
	Article           Article  `json:"article"`
	CandidateKeywords []string `json:"candidate_keywords"`
	FinalKeywords     []string `json:"final_keywords"`
	Entities          []string `json:"entities"`
}

// LedgerEntry marks a story id as processed.
type LedgerEntry struct {
	ID    string
	Title string
}

// HasLocale reports whether a story id carries the given locale suffix.
func HasLocale(id, suffix string) bool {
	return suffix == "" || strings.HasSuffix(id, suffix)
}

// SplitKeywords splits the trend source keyword string on ", ".
func SplitKeywords(raw string) []string {
	parts := strings.Split(raw, ", ")
	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		keywords = append(keywords, p)
	}
	return keywords
}
