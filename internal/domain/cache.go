package domain

import (
	"context"
	"time"
)

// GridpointCacheTTL is how long a raw gridpoint payload stays cached.
const GridpointCacheTTL = 4 * time.Hour

// CacheStore is an atomic key/value store with per-key expiry. Get reports a
// miss with ok=false; expiry is enforced by the store.
type CacheStore interface {
	Get(ctx context.Context, key string) (payload []byte, ok bool, err error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}

// CacheEntry is what the gateway persists for one gridpoint.
type CacheEntry struct {
	Key      string    `msgpack:"key"`
	Payload  []byte    `msgpack:"payload"`
	StoredAt time.Time `msgpack:"stored_at"`
}
