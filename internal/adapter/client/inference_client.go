package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/domain/entity"
	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/domain/service"
)

const (
	// MaxErrorExcerpt bounds how much of an error body is kept in errors and logs
	MaxErrorExcerpt = 200

	maxErrorBodyBytes = 64 << 10
)

// InferenceRequest is the body sent to the model endpoint
type InferenceRequest struct {
	Inputs string `json:"inputs"`
}

// InferenceClient is an HTTP client for a hosted text-classification model
type InferenceClient struct {
	url        string
	token      string
	httpClient *http.Client
}

var _ service.Classifier = (*InferenceClient)(nil)

// NewInferenceClient creates a new inference client. An empty token sends no
// Authorization header.
func NewInferenceClient(url, token string, timeout time.Duration) *InferenceClient {
	return &InferenceClient{
		url:   url,
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Classify sends text to the model and returns the normalized labels.
// A single attempt is made; failures use the service upstream error taxonomy.
func (c *InferenceClient) Classify(ctx context.Context, text string) (entity.SentimentResult, error) {
	body, err := json.Marshal(InferenceRequest{Inputs: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		if err != nil {
			return nil, &service.UpstreamHTTPError{StatusCode: resp.StatusCode}
		}
		return nil, &service.UpstreamHTTPError{
			StatusCode: resp.StatusCode,
			Excerpt:    excerpt(respBody, MaxErrorExcerpt),
		}
	}

	var parsed any
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", service.ErrUpstreamTimeout, err)
		}
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	var labels entity.SentimentResult
	switch v := parsed.(type) {
	case []any:
		labels = Normalize(v)
	case map[string]any:
		if msg, ok := v["error"]; ok {
			return nil, &service.UpstreamModelError{Message: errorMessage(msg)}
		}
		labels = Normalize([]any{v})
	default:
		labels = Normalize([]any{v})
	}

	if labels.IsEmpty() {
		return nil, service.ErrUpstreamEmptyResult
	}

	return labels, nil
}

func transportError(err error) error {
	if isTimeout(err) {
		return fmt.Errorf("%w: %v", service.ErrUpstreamTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("request cancelled: %w", err)
	}
	return fmt.Errorf("%w: %v", service.ErrUpstreamUnreachable, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func errorMessage(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// excerpt returns at most limit characters of body
func excerpt(body []byte, limit int) string {
	if utf8.RuneCount(body) <= limit {
		return string(body)
	}
	runes := []rune(string(body))
	return string(runes[:limit])
}
