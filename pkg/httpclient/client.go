package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// Client sends HTTP requests through an optional circuit breaker. Every call
// is a single attempt; a 5xx response is returned to the caller and counts as
// a breaker failure.
type Client struct {
	client *http.Client
	cb     *CircuitBreaker
}

type Option func(*Client)

// WithCircuitBreaker trips after maxFailures consecutive failures.
// maxFailures <= 0 leaves the breaker off.
func WithCircuitBreaker(maxFailures int, openTimeout time.Duration) Option {
	return func(c *Client) {
		if maxFailures > 0 {
			c.cb = NewCircuitBreaker(maxFailures, openTimeout)
		}
	}
}

// WithTransport replaces the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.client.Transport = rt
	}
}

func NewClient(timeout time.Duration, opts ...Option) *Client {
	c := &Client{client: &http.Client{Timeout: timeout}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends one request. A nil body sends no body at all.
func (c *Client) Do(ctx context.Context, method, rawURL string, body []byte, headers http.Header) (*http.Response, error) {
	if c.cb != nil {
		if err := c.cb.CheckBeforeRequest(); err != nil {
			zap.L().Error("Request blocked by circuit breaker", zap.Error(err))
			return nil, err
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	logAttempt(req, resp, err, time.Since(start))

	if err != nil || resp.StatusCode >= 500 {
		c.onFailure()
		return resp, err
	}
	c.onSuccess()
	return resp, nil
}

func (c *Client) onSuccess() {
	if c.cb != nil {
		c.cb.OnSuccess()
	}
}

func (c *Client) onFailure() {
	if c.cb != nil {
		c.cb.OnFailure()
	}
}

func logAttempt(req *http.Request, resp *http.Response, err error, elapsed time.Duration) {
	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("url", SanitizeURL(req.URL)),
		zap.Duration("duration", elapsed),
	}
	if err != nil {
		zap.L().Warn("http request failed", append(fields, zap.Error(err))...)
		return
	}
	fields = append(fields, zap.Int("status", resp.StatusCode))
	if resp.StatusCode >= 400 {
		zap.L().Warn("http request", fields...)
		return
	}
	zap.L().Debug("http request", fields...)
}

// SanitizeURL drops the query string and any userinfo before logging.
func SanitizeURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	clean := *u
	clean.User = nil
	clean.RawQuery = ""
	clean.Fragment = ""
	return clean.String()
}
