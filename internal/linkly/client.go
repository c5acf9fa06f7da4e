package linkly

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/IgorGrieder/linkly-connector/pkg/httpclient"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const DefaultBaseURL = "https://app.linklyhq.com"

const (
	HeaderAPIKey      = "X-API-KEY"
	HeaderWorkspaceID = "X-WORKSPACE-ID"
)

// Doer sends a single HTTP request. *httpclient.Client satisfies it.
type Doer interface {
	Do(ctx context.Context, method, rawURL string, body []byte, headers http.Header) (*http.Response, error)
}

// Client is the Linkly request gateway. Each Send issues exactly one HTTP
// call; nothing is retried here.
type Client struct {
	http    Doer
	baseURL string
	cred    Credential
	node    string
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithNodeName sets the label used in error messages.
func WithNodeName(name string) Option {
	return func(c *Client) {
		c.node = name
	}
}

func WithHTTPClient(d Doer) Option {
	return func(c *Client) {
		c.http = d
	}
}

func NewClient(cred Credential, opts ...Option) (*Client, error) {
	if err := cred.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: DefaultBaseURL,
		cred:    cred,
		node:    "Linkly",
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpclient.NewClient(30*time.Second,
			httpclient.WithTransport(otelhttp.NewTransport(http.DefaultTransport)))
	}
	return c, nil
}

func (c *Client) WorkspaceID() string {
	return c.cred.WorkspaceID
}

// Send performs one authenticated JSON request against path. An empty body
// is not sent at all. The decoded response is a map, a slice, a scalar or
// nil for an empty body.
func (c *Client) Send(ctx context.Context, method, path string, body map[string]any, query url.Values) (any, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json")
	headers.Set(HeaderAPIKey, c.cred.APIKey)
	headers.Set(HeaderWorkspaceID, c.cred.WorkspaceID)

	var payload []byte
	if len(body) > 0 {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, c.wrap(method, path, fmt.Errorf("encode body: %w", err))
		}
	}

	start := time.Now()
	resp, err := c.http.Do(ctx, method, target, payload, headers)
	requestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		requestsTotal.WithLabelValues(method, "error").Inc()
		return nil, c.wrap(method, path, err)
	}
	defer resp.Body.Close()
	requestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.wrap(method, path, fmt.Errorf("read body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			Node:       c.node,
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.StatusCode, raw),
			Body:       string(raw),
		}
	}

	return decodeJSON(raw), nil
}

// SendAll is Send for list endpoints: the response is flattened with AsList.
// Only the first page is fetched.
func (c *Client) SendAll(ctx context.Context, method, path string, body map[string]any, query url.Values) ([]any, error) {
	resp, err := c.Send(ctx, method, path, body, query)
	if err != nil {
		return nil, err
	}
	return AsList(resp), nil
}

// TestCredentials asks Linkly to confirm the credential.
func (c *Client) TestCredentials(ctx context.Context) error {
	_, err := c.Send(ctx, http.MethodPost, "/zapier/test", map[string]any{
		"api_key":      c.cred.APIKey,
		"workspace_id": c.cred.WorkspaceID,
	}, nil)
	return err
}

func (c *Client) wrap(method, path string, err error) error {
	return &APIError{Node: c.node, Method: method, Path: path, Err: err}
}
