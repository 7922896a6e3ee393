package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultPath is the route the notification endpoint is served on.
const DefaultPath = "/api/questionnaire-email"

// IdempotencyHeader carries the wizard session ID so the endpoint can drop
// repeated deliveries.
const IdempotencyHeader = "Idempotency-Key"

// Notifier delivers a completed questionnaire result.
type Notifier interface {
	Send(ctx context.Context, sessionID string, p Payload) error
}

// Error is returned for any non-2xx response.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("notification failed: HTTP %d", e.StatusCode)
}

// Client posts results to the notification endpoint over HTTP.
type Client struct {
	url        string
	httpClient *http.Client
}

var _ Notifier = (*Client)(nil)

// Option configures the client.
type Option func(*Client)

// WithTimeout bounds each request. The default client has no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a client that posts to url.
func NewClient(url string, opts ...Option) *Client {
	c := &Client{
		url:        url,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send posts the payload once. Any 2xx is success.
func (c *Client) Send(ctx context.Context, sessionID string, p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if sessionID != "" {
		req.Header.Set(IdempotencyHeader, sessionID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send result: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	return &Error{
		StatusCode: resp.StatusCode,
		Message:    ErrorMessage(respBody, resp.StatusCode),
	}
}

// ErrorMessage extracts the "error" field of a JSON error body, falling back
// to the status text.
func ErrorMessage(body []byte, status int) string {
	if gjson.ValidBytes(body) {
		if msg := strings.TrimSpace(gjson.GetBytes(body, "error").String()); msg != "" {
			return msg
		}
	}
	if text := http.StatusText(status); text != "" {
		return fmt.Sprintf("%s (HTTP %d)", text, status)
	}
	return fmt.Sprintf("HTTP %d", status)
}
