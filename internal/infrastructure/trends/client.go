package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"TrendingNews/internal/config"
	"TrendingNews/internal/domain"
	"TrendingNews/internal/ports"
)

// framingLen is the anti-JSON-hijacking prefix prepended to every payload.
const framingLen = 5

// Client talks to the trends stories API.
type Client struct {
	listURL   string
	detailURL string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
	logger    *slog.Logger
}

var _ ports.TrendSource = (*Client)(nil)

// NewClient builds a client; a nil httpClient gets one with the configured timeout.
func NewClient(cfg config.TrendsConfig, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	limit := rate.Inf
	if cfg.RequestInterval > 0 {
		limit = rate.Every(cfg.RequestInterval)
	}
	return &Client{
		listURL:   cfg.StoryListURL,
		detailURL: cfg.StoryDetailURL,
		userAgent: cfg.UserAgent,
		http:      httpClient,
		limiter:   rate.NewLimiter(limit, 1),
		logger:    logger,
	}
}

type storyList struct {
	TrendingStoryIDs []string `json:"trendingStoryIds"`
}

type storyPayload struct {
	Title   string      `json:"title"`
	Widgets []rawWidget `json:"widgets"`
}

type rawWidget struct {
	BarData  *[]rawBucket  `json:"barData"`
	Articles *[]rawArticle `json:"articles"`
}

type rawBucket struct {
	Articles int `json:"articles"`
}

type rawArticle struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Source   string `json:"source"`
	ImageURL string `json:"imageUrl"`
}

// TrendingStoryIDs returns the candidate story ids in source order.
func (c *Client) TrendingStoryIDs(ctx context.Context) ([]string, error) {
	var payload storyList
	if err := c.getJSON(ctx, c.listURL, &payload); err != nil {
		return nil, fmt.Errorf("fetch story ids: %w", err)
	}
	return payload.TrendingStoryIDs, nil
}

// Story fetches and decodes the detail payload of one story.
func (c *Client) Story(ctx context.Context, id string) (domain.StoryDetail, error) {
	var payload storyPayload
	if err := c.getJSON(ctx, c.storyURL(id), &payload); err != nil {
		return domain.StoryDetail{}, fmt.Errorf("fetch story %s: %w", id, err)
	}

	detail := domain.StoryDetail{ID: id, Keywords: payload.Title}
	for _, w := range payload.Widgets {
		detail.Widgets = append(detail.Widgets, toWidgets(w)...)
	}
	return detail, nil
}

func (c *Client) storyURL(id string) string {
	if strings.Contains(c.detailURL, "%s") {
		return fmt.Sprintf(c.detailURL, id)
	}
	return strings.TrimSuffix(c.detailURL, "/") + "/" + id
}

// toWidgets tags a raw widget; one carrying both fields yields both variants.
func toWidgets(w rawWidget) []domain.Widget {
	var out []domain.Widget
	if w.BarData != nil {
		series := make([]domain.Bucket, 0, len(*w.BarData))
		for _, b := range *w.BarData {
			series = append(series, domain.Bucket{Articles: b.Articles})
		}
		out = append(out, domain.Widget{Kind: domain.WidgetTimeSeries, Series: series})
	}
	if w.Articles != nil {
		articles := make([]domain.SourceArticle, 0, len(*w.Articles))
		for _, a := range *w.Articles {
			articles = append(articles, domain.SourceArticle{
				Title:    a.Title,
				URL:      a.URL,
				Source:   a.Source,
				ImageURL: a.ImageURL,
			})
		}
		out = append(out, domain.Widget{Kind: domain.WidgetArticles, Articles: articles})
	}
	if len(out) == 0 {
		out = append(out, domain.Widget{Kind: domain.WidgetOther})
	}
	return out
}

func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("trends returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(body) <= framingLen {
		return fmt.Errorf("%w: body shorter than framing", domain.ErrMalformedPayload)
	}

	if err := json.Unmarshal(body[framingLen:], v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}

	if c.logger != nil {
		c.logger.Debug("trends payload decoded", "url", url, "bytes", len(body))
	}
	return nil
}
