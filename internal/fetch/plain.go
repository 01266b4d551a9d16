package fetch

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
)

// PlainConfig controls the plain-GET tier.
type PlainConfig struct {
	UserAgent string
	Timeout   time.Duration
}

// Plain implements Tier with a single Colly GET.
type Plain struct {
	cfg           PlainConfig
	baseCollector *colly.Collector
}

// NewPlain builds the plain tier.
func NewPlain(cfg PlainConfig) *Plain {
	if cfg.UserAgent == "" {
		cfg.UserAgent = BrowserUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	c := colly.NewCollector(colly.Async(false))
	c.IgnoreRobotsTxt = true
	c.WithTransport(newHTTPTransport())
	return &Plain{cfg: cfg, baseCollector: c}
}

// Fetch executes one HTTP GET and returns the body.
func (p *Plain) Fetch(ctx context.Context, url string) (string, error) {
	collector := p.baseCollector.Clone()
	collector.UserAgent = p.cfg.UserAgent
	collector.SetRequestTimeout(p.cfg.Timeout)

	var (
		body     string
		fetchErr error
	)
	collector.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("plain fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return "", fmt.Errorf("plain visit failed: %w", err)
		}
		if fetchErr != nil {
			return "", fmt.Errorf("plain response failed: %w", fetchErr)
		}
		return body, nil
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
