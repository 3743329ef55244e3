package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	clierr "github.com/ggonzalez94/superfluid-cli/internal/errors"
	"github.com/ggonzalez94/superfluid-cli/internal/version"
)

// DefaultTimeout bounds a single request. It is not user configurable.
const DefaultTimeout = 30 * time.Second

const maxExcerpt = 512

// Client performs exactly one attempt per request; callers own any fallback.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// Excerpt returns at most 512 bytes of the response body, trimmed.
func (e *StatusError) Excerpt() string {
	body := strings.TrimSpace(string(e.Body))
	if len(body) > maxExcerpt {
		body = body[:maxExcerpt] + "..."
	}
	return body
}

func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  version.UserAgent(),
	}
}

// Get fetches url and returns the raw body of a 2xx response.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeInternal, "build request", err)
	}
	return c.Do(req)
}

func (c *Client) Do(req *http.Request) ([]byte, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, mapNetError(err)
	}
	buf, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, clierr.Wrap(clierr.CodeUpstreamHTTP, "read response", readErr)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, clierr.Wrap(clierr.CodeUpstreamHTTP, "unexpected response status", &StatusError{StatusCode: resp.StatusCode, Body: buf})
	}
	return buf, nil
}

// DoJSON decodes a 2xx JSON response into out.
func (c *Client) DoJSON(req *http.Request, out any) error {
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	buf, err := c.Do(req)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(buf)) == 0 {
		return clierr.New(clierr.CodeUpstreamHTTP, "upstream returned empty response")
	}
	if err := json.Unmarshal(buf, out); err != nil {
		return clierr.Wrap(clierr.CodeUpstreamHTTP, "decode upstream JSON", err)
	}
	return nil
}

func mapNetError(err error) error {
	if nerr, ok := err.(net.Error); ok && nerr.Timeout() {
		return clierr.Wrap(clierr.CodeUpstreamHTTP, "request timeout", err)
	}
	return clierr.Wrap(clierr.CodeUpstreamHTTP, "request failed", err)
}
