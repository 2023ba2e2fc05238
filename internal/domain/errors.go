package domain

import "errors"

// Sentinel errors shared by adapters and pipeline stages.
var (
	ErrColdStartTimeout = errors.New("model did not finish loading")
	ErrEmptyText        = errors.New("empty article text")
	ErrEmptySummary     = errors.New("empty summary")
	ErrNoArticles       = errors.New("story has no articles")
	ErrMalformedPayload = errors.New("malformed payload")
)
