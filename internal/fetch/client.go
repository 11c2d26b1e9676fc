package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/aatrey56/fitness-mcp/internal/apierr"
	"github.com/aatrey56/fitness-mcp/internal/observability"
)

// Authorizer decorates an outbound request with credentials.
type Authorizer func(*http.Request)

// Client performs single-attempt authenticated calls against one API root.
type Client struct {
	HTTP      *http.Client
	BaseURL   string
	UserAgent string
	Provider  string // metrics and log label
	Authorize Authorizer
	Logger    *slog.Logger
}

func NewClient(provider, baseURL string, timeout time.Duration) *Client {
	return &Client{
		HTTP:      &http.Client{Timeout: timeout},
		BaseURL:   baseURL,
		UserAgent: "fitness-mcp/1.0",
		Provider:  provider,
		Logger:    slog.Default(),
	}
}

// BasicAuth authorizes with a fixed username and password.
func BasicAuth(username, password string) Authorizer {
	return func(req *http.Request) {
		req.SetBasicAuth(username, password)
	}
}

// Request sends method+path (like "/api/v1/athlete/i1") with optional query and
// JSON body. A 204 or empty body yields nil bytes and no error. Non-2xx
// statuses are returned as *apierr.StatusError and connection failures as
// *apierr.TransportError.
func (c *Client) Request(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	op := method + " " + path
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", op, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", op, err)
	}
	req.Header.Set("Accept", "*/*")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if c.Authorize != nil {
		c.Authorize(req)
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		observability.RecordUpstream(c.Provider, 0, time.Since(start))
		c.logger().Debug("upstream request failed", "provider", c.Provider, "op", op, "error", err)
		return nil, &apierr.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	took := time.Since(start)
	observability.RecordUpstream(c.Provider, resp.StatusCode, took)
	c.logger().Debug("upstream request", "provider", c.Provider, "op", op, "status", resp.StatusCode, "took", took)
	if err != nil {
		return nil, &apierr.TransportError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apierr.StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: string(raw)}
	}
	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	return raw, nil
}

// GetJSON issues a GET and decodes the body into out. An empty body leaves
// out untouched.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	raw, err := c.Request(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode GET %s: %w", path, err)
	}
	return nil
}

// Close releases idle connections held by the transport.
func (c *Client) Close() {
	c.HTTP.CloseIdleConnections()
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
