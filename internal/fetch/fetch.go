// Package fetch retrieves raw HTML for job-posting URLs. It is a two-step
// pipeline: a fast plain GET, escalating to a headless-browser render when
// the first response is absent or too small to be a real posting page
// (likely a client-rendered shell or a block page).
package fetch

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/openvagas/ingestor/internal/ingest"
	"github.com/openvagas/ingestor/internal/metrics"
)

// DefaultMinHTMLBytes is the escalation threshold: plain responses shorter
// than this are retried with the headless tier.
const DefaultMinHTMLBytes = 1024

// BrowserUserAgent is sent on every plain fetch so boards serve the same
// markup they serve real browsers.
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// Tier fetches a URL and returns the document body.
type Tier interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Client chains the plain and headless tiers behind one Fetch call.
type Client struct {
	plain        Tier
	headless     Tier
	cache        *PageCache
	minHTMLBytes int
	logger       *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithCache attaches a page cache consulted before the plain tier.
func WithCache(cache *PageCache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithMinHTMLBytes overrides the escalation threshold.
func WithMinHTMLBytes(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.minHTMLBytes = n
		}
	}
}

// NewClient builds a Client from the two tiers.
func NewClient(plain, headless Tier, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		plain:        plain,
		headless:     headless,
		minHTMLBytes: DefaultMinHTMLBytes,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the HTML for url, escalating to the headless tier when the
// plain response fails or falls below the minimum-length threshold.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	if c.cache != nil {
		if html, ok := c.cache.Get(ctx, url); ok {
			return html, nil
		}
	}

	html, plainErr := c.plain.Fetch(ctx, url)
	if plainErr == nil && !c.needsEscalation(html) {
		c.store(ctx, url, html)
		return html, nil
	}
	if plainErr != nil {
		c.logger.Debug("plain fetch failed, escalating to headless",
			zap.String("url", url), zap.Error(plainErr))
	} else {
		c.logger.Debug("plain fetch below threshold, escalating to headless",
			zap.String("url", url), zap.Int("bytes", len(html)))
	}
	metrics.ObserveFetchEscalation()

	if c.headless == nil {
		if plainErr != nil {
			return "", fmt.Errorf("%w: %s: %v", ingest.ErrFetchFailed, url, plainErr)
		}
		return "", fmt.Errorf("%w: %s: response too small and headless disabled", ingest.ErrFetchFailed, url)
	}

	rendered, headlessErr := c.headless.Fetch(ctx, url)
	if headlessErr != nil {
		return "", fmt.Errorf("%w: %s: %v", ingest.ErrFetchFailed, url, headlessErr)
	}
	c.store(ctx, url, rendered)
	return rendered, nil
}

func (c *Client) needsEscalation(html string) bool {
	return len(html) < c.minHTMLBytes
}

func (c *Client) store(ctx context.Context, url, html string) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, url, html); err != nil {
		c.logger.Debug("page cache write failed", zap.String("url", url), zap.Error(err))
	}
}
