package worker

import (
	"context"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Throttle enforces per-host rate limits on source probing. Each upstream
// host (api.github.com, pypi.org, www.reddit.com, ...) gets its own token
// bucket so a slow host never starves the others.
type Throttle struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewThrottle creates a throttle with the given default rate.
func NewThrottle(requestsPerSecond float64, burst int) *Throttle {
	if burst <= 0 {
		burst = 2
	}
	return &Throttle{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
	}
}

// Wait blocks until the host of rawURL has rate budget available.
func (t *Throttle) Wait(ctx context.Context, rawURL string) error {
	host, err := hostOf(rawURL)
	if err != nil {
		return err
	}
	return t.limiterFor(host).Wait(ctx)
}

// Allow reports whether a request to rawURL would be admitted right now.
func (t *Throttle) Allow(rawURL string) bool {
	host, err := hostOf(rawURL)
	if err != nil {
		return false
	}
	return t.limiterFor(host).Allow()
}

// SetHostRate overrides the rate limit for a specific host.
func (t *Throttle) SetHostRate(host string, requestsPerSecond float64, burst int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if burst <= 0 {
		burst = t.defaultBurst
	}
	t.limiters[host] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

// Sleep waits for the fixed inter-entity probe delay. The delay is applied
// between source entities regardless of whether the previous probe
// succeeded; it is throttling, not retry backoff.
func Sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

func (t *Throttle) limiterFor(host string) *rate.Limiter {
	t.mu.RLock()
	limiter, exists := t.limiters[host]
	t.mu.RUnlock()
	if exists {
		return limiter
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if limiter, exists := t.limiters[host]; exists {
		return limiter
	}
	limiter = rate.NewLimiter(t.defaultRate, t.defaultBurst)
	t.limiters[host] = limiter
	return limiter
}

func hostOf(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	return parsed.Host, nil
}
