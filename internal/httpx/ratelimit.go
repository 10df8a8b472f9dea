package httpx

import (
	"context"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig defines per-domain request throttling.
type RateLimitConfig struct {
	// DefaultRPS is the requests-per-second budget for any domain without
	// a custom rate. 0 means unlimited.
	DefaultRPS float64
	// CustomRates maps domain suffixes to RPS budgets.
	CustomRates map[string]float64
}

// DefaultRateLimitConfig returns conservative defaults for caption
// downloads against YouTube endpoints.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		DefaultRPS: 5.0,
		CustomRates: map[string]float64{
			"youtube.com":     2.5,
			"googlevideo.com": 2.5,
			"googleapis.com":  1.0,
		},
	}
}

// RateLimiter throttles requests per domain using token buckets, and holds
// requests back while a domain is in a server-imposed backoff window.
type RateLimiter struct {
	mu           sync.Mutex
	limiters     map[string]*rate.Limiter
	backoffUntil map[string]time.Time
	config       RateLimitConfig
}

// NewRateLimiter creates a rate limiter with the given configuration.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.CustomRates == nil {
		cfg.CustomRates = make(map[string]float64)
	}
	return &RateLimiter{
		limiters:     make(map[string]*rate.Limiter),
		backoffUntil: make(map[string]time.Time),
		config:       cfg,
	}
}

// Wait blocks until the domain's rate limit and any active backoff window
// allow a request, or the context is done.
func (rl *RateLimiter) Wait(ctx context.Context, urlStr string) error {
	if rl == nil {
		return nil
	}
	domain := extractDomain(urlStr)

	rl.mu.Lock()
	until := rl.backoffUntil[domain]
	limiter := rl.limiterLocked(domain)
	rl.mu.Unlock()

	if wait := time.Until(until); wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}

// RecordRateLimit notes a server throttling response for the domain,
// blocking further requests until the Retry-After window passes.
func (rl *RateLimiter) RecordRateLimit(urlStr string, retryAfter time.Duration) {
	if retryAfter <= 0 {
		retryAfter = time.Second
	}
	domain := extractDomain(urlStr)
	rl.mu.Lock()
	defer rl.mu.Unlock()
	until := time.Now().Add(retryAfter)
	if until.After(rl.backoffUntil[domain]) {
		rl.backoffUntil[domain] = until
	}
}

// RecordSuccess clears any backoff window for the domain.
func (rl *RateLimiter) RecordSuccess(urlStr string) {
	domain := extractDomain(urlStr)
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.backoffUntil, domain)
}

func (rl *RateLimiter) limiterLocked(domain string) *rate.Limiter {
	if l, ok := rl.limiters[domain]; ok {
		return l
	}

	rps := rl.config.DefaultRPS
	for suffix, custom := range rl.config.CustomRates {
		if hasDomainSuffix(domain, suffix) {
			rps = custom
			break
		}
	}
	if rps <= 0 {
		rl.limiters[domain] = nil
		return nil
	}

	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	l := rate.NewLimiter(rate.Limit(rps), burst)
	rl.limiters[domain] = l
	return l
}

func extractDomain(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return urlStr
	}
	return u.Hostname()
}

// hasDomainSuffix matches exact domains and their subdomains.
func hasDomainSuffix(domain, suffix string) bool {
	if domain == suffix {
		return true
	}
	return len(domain) > len(suffix) && domain[len(domain)-len(suffix)-1] == '.' &&
		domain[len(domain)-len(suffix):] == suffix
}
