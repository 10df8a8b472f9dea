// Package httpx provides the HTTP client used for caption downloads, with
// retry logic, per-domain rate limiting, and Retry-After handling.
package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"ytmeta/internal/retry"
)

// Config holds HTTP client settings.
type Config struct {
	// Timeout bounds individual HTTP requests.
	Timeout time.Duration
	// UserAgent is sent with every request.
	UserAgent string
	// Retry configures transient failure handling.
	Retry retry.Config
	// RateLimit configures per-domain throttling.
	RateLimit RateLimitConfig
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Timeout:   30 * time.Second,
		UserAgent: "ytmeta/1.0",
		Retry:     retry.DefaultConfig(),
		RateLimit: DefaultRateLimitConfig(),
	}
}

// Client wraps net/http with retry and rate limit handling.
type Client struct {
	base    *http.Client
	config  *Config
	limiter *RateLimiter
}

// New creates a client with the given configuration. A nil config uses
// defaults.
func New(cfg *Config) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	transport := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}
	return &Client{
		base: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		config:  cfg,
		limiter: NewRateLimiter(cfg.RateLimit),
	}
}

// Response is an HTTP response with the body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Get performs a GET request with retry and rate limit handling.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, url, nil)
}

// Do performs a request, retrying transient failures. Rate limit responses
// (429/503) record a backoff window for the domain before retrying.
func (c *Client) Do(ctx context.Context, method, urlStr string, headers map[string]string) (*Response, error) {
	var result *Response

	err := retry.Do(ctx, c.config.Retry, isRetryableHTTPError, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx, urlStr); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, method, urlStr, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", c.config.UserAgent)
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.base.Do(req)
		if err != nil {
			return fmt.Errorf("httpx: request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests ||
			resp.StatusCode == http.StatusServiceUnavailable {
			retryAfter := parseRetryAfter(resp.Header)
			c.limiter.RecordRateLimit(urlStr, retryAfter)
			return &RateLimitError{StatusCode: resp.StatusCode, RetryAfter: retryAfter}
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("httpx: read body: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &HTTPError{StatusCode: resp.StatusCode, Body: body}
		}

		c.limiter.RecordSuccess(urlStr)
		result = &Response{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       body,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// isRetryableHTTPError retries rate limits and 5xx responses; 4xx responses
// other than 429 are permanent.
func isRetryableHTTPError(err error) bool {
	if !retry.IsRetryable(err) {
		return false
	}
	var rateErr *RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= 500
	}
	return true
}

// parseRetryAfter reads the Retry-After header as seconds or HTTP date.
func parseRetryAfter(header http.Header) time.Duration {
	v := header.Get("Retry-After")
	if v == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(v); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		return time.Until(t)
	}
	return 0
}

// Close releases idle connections.
func (c *Client) Close() error {
	if c.base != nil {
		c.base.CloseIdleConnections()
	}
	return nil
}
