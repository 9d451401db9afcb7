package report

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PDFCache stores rendered PDFs keyed by a digest of the exact HTML
// they were rendered from. Since the HTML embeds every figure of the
// underlying snapshot, any data change produces a new key and stale
// entries simply age out.
type PDFCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPDFCache(client *redis.Client, ttl time.Duration) *PDFCache {
	return &PDFCache{client: client, ttl: ttl}
}

// Key derives the cache key for a rendered page.
func (c *PDFCache) Key(kind, html string) string {
	sum := sha256.Sum256([]byte(html))
	return fmt.Sprintf("pdf:%s:%s", kind, hex.EncodeToString(sum[:8]))
}

// Get returns the cached PDF bytes, or nil on a miss. Cache failures
// are reported but never fatal; rendering works without Redis.
func (c *PDFCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.client == nil {
		return nil, nil
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pdf cache get: %w", err)
	}
	return data, nil
}

func (c *PDFCache) Set(ctx context.Context, key string, pdf []byte) error {
	if c.client == nil {
		return nil
	}
	if err := c.client.Set(ctx, key, pdf, c.ttl).Err(); err != nil {
		return fmt.Errorf("pdf cache set: %w", err)
	}
	return nil
}
