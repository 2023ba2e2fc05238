package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"TrendingNews/internal/domain"
	"TrendingNews/internal/ports"
	"TrendingNews/internal/retry"
)

// Client talks to a hosted inference endpoint for summarization and zero-shot classification.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
	policy   retry.ColdStart
	logger   *slog.Logger
}

var _ ports.SummaryModel = (*Client)(nil)
var _ ports.Classifier = (*Client)(nil)

// NewClient creates a reusable HTTP client bound to one model endpoint.
func NewClient(endpoint, apiKey string, policy retry.ColdStart, logger *slog.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 2 * time.Minute},
		policy:   policy,
		logger:   logger,
	}
}

// Summarize requests a summary for one model-sized chunk of text.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	payload := map[string]any{"inputs": text}

	var resp []struct {
		SummaryText string `json:"summary_text"`
	}
	if err := c.post(ctx, payload, &resp); err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	if len(resp) == 0 {
		return "", fmt.Errorf("summarize: %w", domain.ErrEmptySummary)
	}

	return resp[0].SummaryText, nil
}

// Classify scores every label against text, multi-label.
func (c *Client) Classify(ctx context.Context, text string, labels []string) (domain.Classification, error) {
	payload := map[string]any{
		"inputs": text,
		"parameters": map[string]any{
			"candidate_labels": labels,
			"multi_label":      true,
		},
	}

	var resp domain.Classification
	if err := c.post(ctx, payload, &resp); err != nil {
		return domain.Classification{}, fmt.Errorf("classify: %w", err)
	}
	if len(resp.Labels) != len(resp.Scores) {
		return domain.Classification{}, fmt.Errorf("classify: %w: %d labels, %d scores",
			domain.ErrMalformedPayload, len(resp.Labels), len(resp.Scores))
	}

	return resp, nil
}

// loadingEnvelope is what the endpoint answers while the model is cold.
type loadingEnvelope struct {
	Error         json.RawMessage `json:"error"`
	EstimatedTime *float64        `json:"estimated_time"`
}

func (c *Client) post(ctx context.Context, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	return c.policy.Do(ctx, func(ctx context.Context) (retry.Outcome, error) {
		status, raw, err := c.send(ctx, body)
		if err != nil {
			return retry.Outcome{}, err
		}

		if wait, loading := coldStart(raw); loading {
			if c.logger != nil {
				c.logger.Info("model loading, waiting", "endpoint", c.endpoint, "estimated", wait)
			}
			return retry.Outcome{Loading: true, EstimatedWait: wait}, nil
		}

		if status != http.StatusOK {
			return retry.Outcome{}, fmt.Errorf("unexpected status %d: %s", status, truncate(raw, 200))
		}

		if err := json.Unmarshal(raw, v); err != nil {
			return retry.Outcome{}, fmt.Errorf("%w: decode response: %v", domain.ErrMalformedPayload, err)
		}
		return retry.Outcome{}, nil
	})
}

func (c *Client) send(ctx context.Context, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("do request: %w", err)
	}

	raw, err := io.ReadAll(resp.Body)
	if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, nil, fmt.Errorf("read response body: %w", err)
	}

	return resp.StatusCode, raw, nil
}

// coldStart reports whether raw is a loading envelope carrying both fields.
// The wait is the estimate truncated to whole seconds.
func coldStart(raw []byte) (time.Duration, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return 0, false
	}

	var env loadingEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return 0, false
	}
	if len(env.Error) == 0 || string(env.Error) == "null" || env.EstimatedTime == nil {
		return 0, false
	}

	return time.Duration(int(*env.EstimatedTime)) * time.Second, true
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
