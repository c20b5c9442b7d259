package http

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// DefaultMaxConns is the default connection-pool cap. All download tasks
// share one pool, so this is also the effective download parallelism.
const DefaultMaxConns = 10

// ClientConfig holds the knobs for the shared client.
type ClientConfig struct {
	// UserAgent is sent with every request.
	UserAgent string

	// MaxConns caps simultaneous connections per host. Zero means
	// DefaultMaxConns.
	MaxConns int
}

// Client wraps HTTP operations with the configuration every task shares.
//
// Client provides:
//   - A pooled transport capped at MaxConns connections per host
//   - Disabled TLS certificate verification, to tolerate permissive or
//     misconfigured media hosts
//   - No overall request timeout: large subreddits take hours and a
//     session-wide timeout would kill long downloads. Cancellation is
//     handled through the request context instead.
//
// The Client is shared read-only by all concurrent tasks; it is never
// mutated after construction.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates the shared HTTP client.
func NewClient(cfg ClientConfig) *Client {
	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = DefaultMaxConns
	}

	transport := &http.Transport{
		MaxConnsPerHost: maxConns,
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}

	return &Client{
		httpClient: &http.Client{Transport: transport},
		userAgent:  cfg.UserAgent,
	}
}

// Fetch performs a GET and returns the status code and full body.
//
// Unlike Get, a non-200 status is not an error: callers on the download
// and resolution paths need to branch on 404/403 (resource gone) and 429
// (rate limited) themselves.
func (c *Client) Fetch(ctx context.Context, url string) (int, []byte, error) {
	return c.FetchWith(ctx, url, nil)
}

// FetchWith is Fetch with extra request headers.
//
// The JSON video-fallback path needs a browser-like header set because the
// host serves a different response to unadorned clients.
func (c *Client) FetchWith(ctx context.Context, url string, headers map[string]string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}

	return resp.StatusCode, body, nil
}

// Get performs a GET request and returns the response body as bytes.
//
// Returns an error if the request fails, the response status is not
// 200 OK, or reading the body fails.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	status, body, err := c.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d fetching %s", status, url)
	}
	return body, nil
}

// GetJSON performs a GET request and decodes the response body into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	body, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding response from %s: %w", url, err)
	}
	return nil
}

// Close releases idle pooled connections. Call it once the batch is done
// or after an interrupt.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
