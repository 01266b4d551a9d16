package fetch

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PageCache is a Redis-backed cache of fetched HTML keyed by URL hash.
// It keeps repeated manual imports of the same link from re-rendering.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache connects to Redis at the given URL.
// URL format: redis://localhost:6379
func NewPageCache(redisURL string, ttl time.Duration) (*PageCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("page cache: invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("page cache: redis ping failed: %w", err)
	}
	return &PageCache{client: client, ttl: ttl}, nil
}

// Get returns the cached HTML for a URL, if present.
func (c *PageCache) Get(ctx context.Context, url string) (string, bool) {
	data, err := c.client.Get(ctx, cacheKey(url)).Result()
	if err != nil {
		return "", false
	}
	return data, true
}

// Set stores HTML under the URL's key with the configured TTL.
func (c *PageCache) Set(ctx context.Context, url, html string) error {
	return c.client.Set(ctx, cacheKey(url), html, c.ttl).Err()
}

// Close closes the Redis connection.
func (c *PageCache) Close() error {
	return c.client.Close()
}

func cacheKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return fmt.Sprintf("ingestor:page:%x", hash[:12])
}
