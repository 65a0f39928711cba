package cache

import (
	"context"
	"time"
)

// NoopStore is the store used when no cache backend is configured. Every
// lookup misses and every write is dropped.
type NoopStore struct{}

func (NoopStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NoopStore) Set(context.Context, string, []byte, time.Duration) error { return nil }
