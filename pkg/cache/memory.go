package cache

import (
	"context"
	"sync"
	"time"

	"github.com/studhub/forum/pkg/metrics"
)

// entry is a single cached value with its expiration bookkeeping.
// LastAccessedAt is only meaningful when sliding expiration is set.
type entry struct {
	value          any
	createdAt      time.Time
	lastAccessedAt time.Time
	sliding        time.Duration
	absolute       time.Duration
}

// expired reports whether the entry is past either of its deadlines at now.
func (e *entry) expired(now time.Time) bool {
	if e.absolute > 0 && now.Sub(e.createdAt) >= e.absolute {
		return true
	}
	if e.sliding > 0 && now.Sub(e.lastAccessedAt) >= e.sliding {
		return true
	}
	return false
}

// expiryReason names which policy evicted the entry, for metrics.
func (e *entry) expiryReason(now time.Time) string {
	if e.absolute > 0 && now.Sub(e.createdAt) >= e.absolute {
		return "absolute"
	}
	return "sliding"
}

// MemoryStore is the process-wide in-memory Store implementation.
// Reads take the read lock only; a hit upgrades briefly to refresh the
// sliding window. Expired entries are dropped lazily on read and swept by an
// optional background janitor.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*entry

	// now is injectable for expiration tests.
	now func() time.Time

	stopJanitor chan struct{}
	janitorOnce sync.Once
}

// NewMemoryStore creates an empty memory store.
// Construct one per process and share it between services; never reach for a
// package-level singleton.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:     make(map[string]*entry),
		now:         time.Now,
		stopJanitor: make(chan struct{}),
	}
}

// NewMemoryStoreWithClock creates a memory store using the supplied clock.
// Intended for tests that need to cross TTL boundaries deterministically.
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	s := NewMemoryStore()
	s.now = now
	return s
}

// TryGet returns the value for key if present and unexpired.
// A hit refreshes the sliding window; an expired entry is removed and counts
// as a miss.
func (s *MemoryStore) TryGet(ctx context.Context, key string) (any, bool) {
	now := s.now()

	// Decide expiry while still holding the lock; a concurrent sliding
	// refresh writes lastAccessedAt under the write lock.
	s.mu.RLock()
	e, ok := s.entries[key]
	var expired bool
	var reason string
	if ok {
		expired = e.expired(now)
		if expired {
			reason = e.expiryReason(now)
		}
	}
	s.mu.RUnlock()

	if !ok {
		metrics.RecordCacheMiss(keyPrefix(key))
		return nil, false
	}

	if expired {
		s.mu.Lock()
		// Re-check under the write lock; another reader may have already
		// removed it, or a writer replaced it.
		if cur, still := s.entries[key]; still && cur == e {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		metrics.RecordCacheEviction(reason)
		metrics.RecordCacheMiss(keyPrefix(key))
		return nil, false
	}

	if e.sliding > 0 {
		s.mu.Lock()
		e.lastAccessedAt = now
		s.mu.Unlock()
	}

	metrics.RecordCacheHit(keyPrefix(key))
	return e.value, true
}

// Set stores value under key, replacing any existing entry.
func (s *MemoryStore) Set(ctx context.Context, key string, value any, opts Options) {
	now := s.now()
	e := &entry{
		value:          value,
		createdAt:      now,
		lastAccessedAt: now,
		sliding:        opts.Sliding,
		absolute:       opts.Absolute,
	}

	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
}

// Remove deletes the entry for key.
func (s *MemoryStore) Remove(ctx context.Context, key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Len returns the number of entries currently held, including any that have
// expired but not yet been swept.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// StartJanitor launches a background sweep that removes expired entries every
// interval. It stops when ctx is cancelled or Close is called.
func (s *MemoryStore) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopJanitor:
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

// Close stops the janitor, if running.
func (s *MemoryStore) Close() {
	s.janitorOnce.Do(func() {
		close(s.stopJanitor)
	})
}

// sweep removes all expired entries in one pass.
func (s *MemoryStore) sweep() {
	now := s.now()

	s.mu.Lock()
	var removed int
	for key, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, key)
			removed++
		}
	}
	s.mu.Unlock()

	for i := 0; i < removed; i++ {
		metrics.RecordCacheEviction("janitor")
	}
}

var _ Store = (*MemoryStore)(nil)
