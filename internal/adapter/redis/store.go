package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"github.com/couchcryptid/snow-forecast-service/internal/domain"
)

// Store implements domain.CacheStore on Redis. Expiry is delegated to Redis
// key TTLs. Every failure is wrapped with domain.ErrCacheUnavailable.
type Store struct {
	client *goredis.Client
}

// NewStore connects to addr. The connection is lazy; use Ping to verify it.
func NewStore(addr, password string, db int) *Store {
	return NewStoreFromClient(goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}))
}

// NewStoreFromClient wraps an existing client.
func NewStoreFromClient(client *goredis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: redis get %s: %v", domain.ErrCacheUnavailable, key, err)
	}
	return payload, true, nil
}

func (s *Store) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis set %s: %v", domain.ErrCacheUnavailable, key, err)
	}
	return nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: redis ping: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}

// Close releases the client's connections.
func (s *Store) Close() error {
	return s.client.Close()
}
