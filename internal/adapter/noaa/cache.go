package noaa

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/couchcryptid/snow-forecast-service/internal/domain"
	"github.com/couchcryptid/snow-forecast-service/internal/observability"
)

// CachedSource wraps a GridpointSource with a store-or-fetch policy. Store
// failures are logged and treated as a miss or a skipped write.
type CachedSource struct {
	inner   domain.GridpointSource
	store   domain.CacheStore
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewCachedSource creates a cache decorator around a gridpoint source.
func NewCachedSource(inner domain.GridpointSource, store domain.CacheStore, metrics *observability.Metrics, logger *slog.Logger) *CachedSource {
	return &CachedSource{
		inner:   inner,
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

func (c *CachedSource) FetchGridpoint(ctx context.Context, grid domain.Gridpoint) ([]byte, error) {
	key := grid.CacheKey()
	if payload, ok := c.lookup(ctx, key); ok {
		return payload, nil
	}

	payload, err := c.inner.FetchGridpoint(ctx, grid)
	if err != nil {
		return nil, err
	}
	c.save(ctx, key, payload)
	return payload, nil
}

func (c *CachedSource) lookup(ctx context.Context, key string) ([]byte, bool) {
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.metrics.CacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("gridpoint cache lookup failed", "key", key, "error", err)
		return nil, false
	}
	if !ok {
		c.metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}

	var entry domain.CacheEntry
	if err := msgpack.Unmarshal(raw, &entry); err != nil || entry.Key != key {
		c.metrics.CacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("discarding unreadable gridpoint cache entry", "key", key, "error", err)
		return nil, false
	}

	c.metrics.CacheLookups.WithLabelValues("hit").Inc()
	c.logger.Debug("gridpoint cache hit", "key", key, "stored_at", entry.StoredAt)
	return entry.Payload, true
}

func (c *CachedSource) save(ctx context.Context, key string, payload []byte) {
	raw, err := msgpack.Marshal(&domain.CacheEntry{Key: key, Payload: payload, StoredAt: domain.Now()})
	if err == nil {
		err = c.store.Set(ctx, key, raw, domain.GridpointCacheTTL)
	}
	if err != nil {
		c.metrics.CacheWrites.WithLabelValues("error").Inc()
		if !errors.Is(err, domain.ErrCacheUnavailable) {
			c.logger.Error("gridpoint cache write failed", "key", key, "error", err)
			return
		}
		c.logger.Warn("gridpoint cache write skipped", "key", key, "error", err)
		return
	}
	c.metrics.CacheWrites.WithLabelValues("success").Inc()
}
