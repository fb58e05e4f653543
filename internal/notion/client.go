// Implements the Notion API client with rate limiting and retries.

package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the Notion API base URL.
	BaseURL = "https://api.notion.com/v1"
	// APIVersion is the pinned Notion API version.
	APIVersion = "2022-06-28"
	// DefaultRequestsPerSecond is Notion's documented average request limit.
	DefaultRequestsPerSecond = 3
	// DefaultMaxRetries is the number of retries after the first attempt.
	DefaultMaxRetries = 3
	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 30 * time.Second
)

// ClientOptions configures a Client. The zero value of each field selects the
// default.
type ClientOptions struct {
	BaseURL           string
	HTTPClient        *http.Client
	Logger            *slog.Logger
	RequestsPerSecond float64
	// MaxRetries is the number of retries on 429, 5xx and transport errors.
	// Use a negative value to disable retries.
	MaxRetries     int
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration
}

// Client is a rate-limited Notion API client.
//
// Its configuration is immutable after NewClient so it is safe for concurrent
// use.
type Client struct {
	baseURL    string
	header     http.Header
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *slog.Logger
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// NewClient creates a new Notion API client. opts may be nil.
func NewClient(token string, opts *ClientOptions) *Client {
	if opts == nil {
		opts = &ClientOptions{}
	}
	c := &Client{
		baseURL:    strings.TrimSuffix(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
		log:        opts.Logger,
		maxRetries: opts.MaxRetries,
		baseDelay:  opts.RetryBaseDelay,
		maxDelay:   opts.RetryMaxDelay,
	}
	if c.baseURL == "" {
		c.baseURL = BaseURL
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	switch {
	case c.maxRetries == 0:
		c.maxRetries = DefaultMaxRetries
	case c.maxRetries < 0:
		c.maxRetries = 0
	}
	if c.baseDelay <= 0 {
		c.baseDelay = 500 * time.Millisecond
	}
	if c.maxDelay <= 0 {
		c.maxDelay = 10 * time.Second
	}
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), 1)

	// Computed once, cloned into every request.
	c.header = http.Header{}
	c.header.Set("Authorization", "Bearer "+token)
	c.header.Set("Notion-Version", APIVersion)
	return c
}

// Header returns a copy of the headers sent with every request.
func (c *Client) Header() http.Header {
	return c.header.Clone()
}

// do performs an HTTP request with rate limiting and retries. It returns the
// raw response body of a 2xx response.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		status, respBody, retryAfter, err := c.roundTrip(ctx, method, path, payload)
		if err == nil && status >= 200 && status < 300 {
			return respBody, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err == nil {
			err = newAPIError(status, respBody)
		}
		if attempt >= c.maxRetries || !retryable(method, status) {
			return nil, err
		}
		delay := c.backoff(attempt, retryAfter)
		c.log.WarnContext(ctx, "Retrying Notion request", "method", method, "path", path, "status", status, "attempt", attempt+1, "delay", delay, "err", err)
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

// roundTrip issues a single request. status is 0 on transport errors and -1
// when the request could not be built.
func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte) (status int, respBody []byte, retryAfter time.Duration, err error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return -1, nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = c.header.Clone()
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("failed to read response: %w", err)
	}
	c.log.DebugContext(ctx, "Notion request", "method", method, "path", path, "status", resp.StatusCode, "dur", time.Since(start).Round(time.Millisecond))
	return resp.StatusCode, respBody, parseRetryAfter(resp.Header.Get("Retry-After")), nil
}

// retryable reports whether a failed attempt may be sent again. status is 0
// on transport errors and -1 when the request could not be built.
//
// PATCH appends blocks, so a timed out or failed one may already have been
// applied; it is only resent on 429, which Notion returns before doing any
// work.
func retryable(method string, status int) bool {
	switch {
	case status < 0:
		return false
	case method == http.MethodPatch:
		return status == http.StatusTooManyRequests
	case status == 0:
		return true
	default:
		return IsRetryable(status)
	}
}

// backoff returns the delay before retry attempt+1.
func (c *Client) backoff(attempt int, retryAfter time.Duration) time.Duration {
	d := retryAfter
	if d <= 0 {
		d = c.baseDelay << attempt
	}
	if d <= 0 || d > c.maxDelay {
		d = c.maxDelay
	}
	return d
}

// parseRetryAfter parses a Retry-After header expressed in seconds.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// decode unmarshals a response body, naming what was being parsed on error.
func decode(data []byte, v any, what string) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", what, err)
	}
	return nil
}
