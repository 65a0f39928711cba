package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/snow-forecast-service/internal/domain"
)

// Nothing listens on port 1; every call fails fast.
func unreachableStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore("127.0.0.1:1", "", 0)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_UnreachableWrapsCacheUnavailable(t *testing.T) {
	s := unreachableStore(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, ok, err := s.Get(ctx, "noaa:gridpoint:v1:PDT:23,39")
	assert.False(t, ok)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCacheUnavailable))

	err = s.Set(ctx, "k", []byte("v"), time.Minute)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCacheUnavailable))

	err = s.Ping(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)
}
