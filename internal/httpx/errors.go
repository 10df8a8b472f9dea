package httpx

import (
	"fmt"
	"time"
)

// HTTPError is returned for non-2xx responses that are not rate limits.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("httpx: unexpected status %d", e.StatusCode)
}

// RateLimitError is returned when the server signals throttling (429/503).
type RateLimitError struct {
	StatusCode int
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("httpx: rate limited (status %d, retry after %s)", e.StatusCode, e.RetryAfter)
	}
	return fmt.Sprintf("httpx: rate limited (status %d)", e.StatusCode)
}
