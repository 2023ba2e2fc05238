package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"TrendingNews/internal/config"
	"TrendingNews/internal/ports"
)

// maxPageBytes caps how much of a page is read into memory.
const maxPageBytes = 8 << 20

// fallbackSelectors are tried on the raw page when readability finds nothing.
var fallbackSelectors = []string{
	"article p",
	".article p",
	".content p",
	".post-content p",
	".entry-content p",
	"main p",
	"#content p",
	"p",
}

// ArticleExtractor downloads a news page and returns its main text.
type ArticleExtractor struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

var _ ports.TextExtractor = (*ArticleExtractor)(nil)

// NewArticleExtractor wires an HTTP client; nil gets one with the configured timeout.
func NewArticleExtractor(cfg config.ExtractorConfig, client *http.Client, logger *slog.Logger) *ArticleExtractor {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &ArticleExtractor{client: client, userAgent: cfg.UserAgent, logger: logger}
}

// Extract returns paragraphs separated by blank lines, or "" when nothing readable was found.
func (e *ArticleExtractor) Extract(ctx context.Context, pageURL string) (string, error) {
	if strings.TrimSpace(pageURL) == "" {
		return "", fmt.Errorf("empty url")
	}

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	page, err := e.fetch(ctx, pageURL)
	if err != nil {
		return "", err
	}

	text := e.readable(page, parsed)
	if text == "" {
		text, err = fallbackText(page)
		if err != nil {
			return "", err
		}
	}

	e.debug("article extracted", "url", pageURL, "chars", len(text))
	return text, nil
}

func (e *ArticleExtractor) fetch(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	return body, nil
}

// readable runs readability and keeps the paragraph structure of its output.
func (e *ArticleExtractor) readable(page []byte, pageURL *url.URL) string {
	article, err := readability.FromReader(bytes.NewReader(page), pageURL)
	if err != nil {
		e.debug("readability failed", "url", pageURL.String(), "err", err)
		return ""
	}

	if article.Content != "" {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
		if err == nil {
			if text := joinParagraphs(doc.Find("p")); text != "" {
				return text
			}
		}
	}

	return strings.TrimSpace(article.TextContent)
}

func fallbackText(page []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("parse document: %w", err)
	}

	for _, selector := range fallbackSelectors {
		if text := joinParagraphs(doc.Find(selector)); text != "" {
			return text, nil
		}
	}
	return "", nil
}

func joinParagraphs(sel *goquery.Selection) string {
	var paragraphs []string
	sel.Each(func(_ int, s *goquery.Selection) {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	return strings.Join(paragraphs, "\n\n")
}

func (e *ArticleExtractor) debug(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}
