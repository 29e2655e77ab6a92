package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/web3-frozen/btc-dashboard/internal/metrics"
)

// Store is a byte-oriented key/value store with per-key expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Ping(ctx context.Context) error
	Close() error
}

// Cache serves upstream responses from a Store until their TTL lapses.
type Cache struct {
	store  Store
	logger *slog.Logger
	prefix string
}

func New(store Store, logger *slog.Logger) *Cache {
	return &Cache{store: store, logger: logger, prefix: "btcdash:source:"}
}

// Ping reports whether the backing store is reachable.
func (c *Cache) Ping(ctx context.Context) error { return c.store.Ping(ctx) }

// Remember returns the cached bytes for key, or calls fetch and stores its
// result for ttl. Fetch errors are returned and never cached. Store
// failures are logged and the cache is bypassed.
func (c *Cache) Remember(ctx context.Context, key string, ttl time.Duration, fetch func(context.Context) ([]byte, error)) ([]byte, error) {
	k := c.prefix + key

	data, ok, err := c.store.Get(ctx, k)
	switch {
	case err != nil:
		metrics.CacheErrorsTotal.WithLabelValues(key, "get").Inc()
		c.logger.Warn("cache read failed", "key", key, "error", err)
	case ok:
		metrics.CacheRequestsTotal.WithLabelValues(key, "hit").Inc()
		return data, nil
	}
	metrics.CacheRequestsTotal.WithLabelValues(key, "miss").Inc()

	data, err = fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.store.Set(ctx, k, data, ttl); err != nil {
		metrics.CacheErrorsTotal.WithLabelValues(key, "set").Inc()
		c.logger.Warn("cache write failed", "key", key, "error", err)
	}
	return data, nil
}
