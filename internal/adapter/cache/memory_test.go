package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_HitAndMiss(t *testing.T) {
	s := NewMemoryStore(10, clockwork.NewFakeClock())
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Hour))
	got, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), got)
}

func TestMemoryStore_Expiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewMemoryStore(10, clock)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Hour))

	clock.Advance(59 * time.Minute)
	_, ok, _ := s.Get(ctx, "k")
	assert.True(t, ok)

	clock.Advance(time.Minute)
	_, ok, _ = s.Get(ctx, "k")
	assert.False(t, ok, "entry expires at exactly its TTL")
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStore_OverwriteRefreshesTTL(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewMemoryStore(10, clock)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("old"), time.Hour))
	clock.Advance(50 * time.Minute)
	require.NoError(t, s.Set(ctx, "k", []byte("new"), time.Hour))
	clock.Advance(50 * time.Minute)

	got, ok, _ := s.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("new"), got)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_EvictsLeastRecentlyUsed(t *testing.T) {
	s := NewMemoryStore(2, clockwork.NewFakeClock())
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", []byte("1"), time.Hour))
	require.NoError(t, s.Set(ctx, "b", []byte("2"), time.Hour))
	_, _, _ = s.Get(ctx, "a") // a becomes most recent
	require.NoError(t, s.Set(ctx, "c", []byte("3"), time.Hour))

	_, ok, _ := s.Get(ctx, "b")
	assert.False(t, ok, "b should have been evicted")
	_, ok, _ = s.Get(ctx, "a")
	assert.True(t, ok)
	_, ok, _ = s.Get(ctx, "c")
	assert.True(t, ok)
}

func TestMemoryStore_EvictsExpiredBeforeLeastRecentlyUsed(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewMemoryStore(2, clock)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "b", []byte("2"), time.Hour))
	require.NoError(t, s.Set(ctx, "a", []byte("1"), 10*time.Minute)) // most recent, short-lived
	clock.Advance(15 * time.Minute)
	require.NoError(t, s.Set(ctx, "c", []byte("3"), time.Hour))

	assert.Equal(t, 2, s.Len(), "expired a reclaimed instead of live b")
	_, ok, _ := s.Get(ctx, "b")
	assert.True(t, ok)
	_, ok, _ = s.Get(ctx, "c")
	assert.True(t, ok)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	s := NewMemoryStore(50, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%5)
			_ = s.Set(ctx, key, []byte(key), time.Hour)
			_, _, _ = s.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, s.Len())
}

func TestNoopStore(t *testing.T) {
	var s NoopStore
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Hour))
	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
