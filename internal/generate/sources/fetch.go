// Package sources implements the per-domain benchmark generators. Each
// generator probes one upstream collaborator (GitHub, PyPI, Reddit,
// Wikipedia), extracts candidate facts, and assembles verified records.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ppiankov/anchorbench/internal/cache"
	"github.com/ppiankov/anchorbench/internal/model"
	"github.com/ppiankov/anchorbench/internal/util"
	"github.com/ppiankov/anchorbench/internal/worker"
)

// Client is the shared HTTP layer for source probing. Every request goes
// through the per-host throttle; requests to hosts that serve scraped
// content (not a published API) are additionally gated on robots.txt when
// the checker is set.
type Client struct {
	http      *http.Client
	throttle  *worker.Throttle
	robots    *util.RobotsChecker
	store     cache.Cache
	userAgent string
	maxBody   int64
}

// NewClient creates a probing client. robots and store may be nil: a nil
// robots checker disables the robots.txt gate (for API hosts that publish
// their own rate-limit contract), a nil store disables response caching.
func NewClient(cfg model.HTTPConfig, throttle *worker.Throttle, robots *util.RobotsChecker, store cache.Cache) *Client {
	return &Client{
		http:      &http.Client{Timeout: cfg.Timeout},
		throttle:  throttle,
		robots:    robots,
		store:     store,
		userAgent: cfg.UserAgent,
		maxBody:   cfg.MaxBodyBytes,
	}
}

// Get fetches rawURL and returns the response body, capped at the
// configured size. header entries are merged over the default headers.
func (c *Client) Get(ctx context.Context, rawURL string, header http.Header) ([]byte, error) {
	if err := c.throttle.Wait(ctx, rawURL); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	if c.robots != nil {
		allowed, crawlDelay, err := c.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("robots check: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("disallowed by robots.txt: %s", rawURL)
		}
		if crawlDelay > 0 {
			if err := worker.Sleep(ctx, crawlDelay); err != nil {
				return nil, err
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	for key, values := range header {
		for _, v := range values {
			req.Header.Set(key, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// GetJSON fetches rawURL and unmarshals the response into v.
func (c *Client) GetJSON(ctx context.Context, rawURL string, header http.Header, v interface{}) error {
	body, err := c.Get(ctx, rawURL, header)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", rawURL, err)
	}
	return nil
}

// GetCached fetches rawURL through the cache. Used for bulk listings
// (the PyPI simple index) that are expensive to re-download and change
// slowly.
func (c *Client) GetCached(ctx context.Context, rawURL string, header http.Header, ttl time.Duration) ([]byte, error) {
	if c.store == nil {
		return c.Get(ctx, rawURL, header)
	}

	key := cache.Key(rawURL)
	if body, found := c.store.Get(key); found {
		return body, nil
	}

	body, err := c.Get(ctx, rawURL, header)
	if err != nil {
		return nil, err
	}
	// A failed cache write never fails the fetch.
	_ = c.store.Set(key, body, ttl)
	return body, nil
}
