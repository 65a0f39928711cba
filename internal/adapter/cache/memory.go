package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// MemoryStore is a thread-safe LRU store with per-key expiry. It implements
// domain.CacheStore for single-process deployments.
type MemoryStore struct {
	maxEntries int
	clock      clockwork.Clock

	mu      sync.Mutex
	entries map[string]*entry
	head    *entry // most recently used
	tail    *entry // least recently used
}

type entry struct {
	key       string
	value     []byte
	expiresAt time.Time
	prev      *entry
	next      *entry
}

// NewMemoryStore creates a store holding at most maxEntries payloads. A nil
// clock uses real time.
func NewMemoryStore(maxEntries int, clock clockwork.Clock) *MemoryStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemoryStore{
		maxEntries: maxEntries,
		clock:      clock,
		entries:    make(map[string]*entry),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if s.expired(e, s.clock.Now()) {
		s.drop(e)
		return nil, false, nil
	}
	s.touch(e)
	return e.value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, payload []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if e, ok := s.entries[key]; ok {
		e.value = payload
		e.expiresAt = now.Add(ttl)
		s.touch(e)
		return nil
	}

	e := &entry{key: key, value: payload, expiresAt: now.Add(ttl)}
	s.entries[key] = e
	s.pushFront(e)

	if len(s.entries) > s.maxEntries {
		s.evict(now)
	}
	return nil
}

// Len returns the number of stored entries, including expired ones not yet evicted.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) expired(e *entry, now time.Time) bool {
	return !now.Before(e.expiresAt)
}

// evict reclaims expired entries first, then the least recently used ones,
// until the store is back within capacity.
func (s *MemoryStore) evict(now time.Time) {
	for e := s.tail; e != nil; {
		prev := e.prev
		if s.expired(e, now) {
			s.drop(e)
		}
		e = prev
	}
	for len(s.entries) > s.maxEntries && s.tail != nil {
		s.drop(s.tail)
	}
}

func (s *MemoryStore) drop(e *entry) {
	s.unlink(e)
	delete(s.entries, e.key)
}

func (s *MemoryStore) touch(e *entry) {
	if s.head == e {
		return
	}
	s.unlink(e)
	s.pushFront(e)
}

func (s *MemoryStore) pushFront(e *entry) {
	e.prev, e.next = nil, s.head
	if s.head == nil {
		s.tail = e
	} else {
		s.head.prev = e
	}
	s.head = e
}

func (s *MemoryStore) unlink(e *entry) {
	if e.prev == nil {
		s.head = e.next
	} else {
		e.prev.next = e.next
	}
	if e.next == nil {
		s.tail = e.prev
	} else {
		e.next.prev = e.prev
	}
	e.prev, e.next = nil, nil
}
