package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock for expiration tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestKey(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		parts  []string
		want   string
	}{
		{"prefix only", "users", nil, "users"},
		{"prefix and id", "users", []string{"123"}, "users:123"},
		{"nested", "posts", []string{"7", "comments"}, "posts:7:comments"},
		{"empty parts filtered", "posts", []string{"", "all"}, "posts:all"},
		{"empty prefix", "", []string{"a", "b"}, "a:b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key(tt.prefix, tt.parts...); got != tt.want {
				t.Errorf("Key(%q, %v) = %q, want %q", tt.prefix, tt.parts, got, tt.want)
			}
		})
	}
}

func TestMemoryStoreSetAndTryGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	store.Set(ctx, "users:1", "alice", Options{Sliding: time.Minute})

	v, ok := store.TryGet(ctx, "users:1")
	if !ok {
		t.Fatal("expected hit for fresh entry")
	}
	if v != "alice" {
		t.Errorf("got %v, want alice", v)
	}

	if _, ok := store.TryGet(ctx, "users:2"); ok {
		t.Error("expected miss for absent key")
	}
}

func TestMemoryStoreRemove(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	store.Set(ctx, "posts:all", []string{"p"}, Options{Absolute: time.Hour})
	store.Remove(ctx, "posts:all")

	if _, ok := store.TryGet(ctx, "posts:all"); ok {
		t.Error("expected miss after Remove")
	}

	// Removing an absent key must not panic.
	store.Remove(ctx, "posts:all")
}

func TestMemoryStoreSlidingExpiration(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryStoreWithClock(clock.Now)

	store.Set(ctx, "users:1", "alice", Options{
		Sliding:  2 * time.Minute,
		Absolute: 10 * time.Minute,
	})

	// Just inside the sliding window: still a hit.
	clock.Advance(time.Minute + 59*time.Second)
	if _, ok := store.TryGet(ctx, "users:1"); !ok {
		t.Fatal("expected hit at 1m59s of inactivity")
	}

	// The hit above refreshed the window, so another 1m59s is still fine.
	clock.Advance(time.Minute + 59*time.Second)
	if _, ok := store.TryGet(ctx, "users:1"); !ok {
		t.Fatal("expected hit after sliding window was refreshed")
	}

	// Now let the full window lapse with no access.
	clock.Advance(2 * time.Minute)
	if _, ok := store.TryGet(ctx, "users:1"); ok {
		t.Error("expected miss after sliding window lapsed")
	}
}

func TestMemoryStoreAbsoluteCapsSliding(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryStoreWithClock(clock.Now)

	store.Set(ctx, "users:1", "alice", Options{
		Sliding:  2 * time.Minute,
		Absolute: 10 * time.Minute,
	})

	// Keep the entry hot with a hit every minute. The sliding window never
	// lapses, but the absolute cap must still evict at the 10 minute mark.
	for i := 0; i < 9; i++ {
		clock.Advance(time.Minute)
		if _, ok := store.TryGet(ctx, "users:1"); !ok {
			t.Fatalf("expected hit at minute %d", i+1)
		}
	}

	clock.Advance(time.Minute)
	if _, ok := store.TryGet(ctx, "users:1"); ok {
		t.Error("expected miss at absolute cap despite constant access")
	}
}

func TestMemoryStoreAbsoluteOnly(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryStoreWithClock(clock.Now)

	store.Set(ctx, "posts:all", "list", Options{Absolute: 10 * time.Minute})

	clock.Advance(9 * time.Minute)
	if _, ok := store.TryGet(ctx, "posts:all"); !ok {
		t.Fatal("expected hit before absolute expiry")
	}

	clock.Advance(time.Minute)
	if _, ok := store.TryGet(ctx, "posts:all"); ok {
		t.Error("expected miss at absolute expiry")
	}
}

func TestMemoryStoreZeroOptionsNeverExpire(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryStoreWithClock(clock.Now)

	store.Set(ctx, "k", "v", Options{})

	clock.Advance(1000 * time.Hour)
	if _, ok := store.TryGet(ctx, "k"); !ok {
		t.Error("entry with zero options should not expire")
	}
}

func TestMemoryStoreSetReplacesEntry(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryStoreWithClock(clock.Now)

	store.Set(ctx, "users:1", "old", Options{Absolute: time.Minute})
	clock.Advance(50 * time.Second)

	// Replacing restarts the absolute clock.
	store.Set(ctx, "users:1", "new", Options{Absolute: time.Minute})
	clock.Advance(50 * time.Second)

	v, ok := store.TryGet(ctx, "users:1")
	if !ok {
		t.Fatal("expected hit, replacement should reset createdAt")
	}
	if v != "new" {
		t.Errorf("got %v, want new", v)
	}
}

func TestMemoryStoreSweep(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryStoreWithClock(clock.Now)

	store.Set(ctx, "a", 1, Options{Absolute: time.Minute})
	store.Set(ctx, "b", 2, Options{Absolute: time.Hour})

	clock.Advance(2 * time.Minute)
	store.sweep()

	if got := store.Len(); got != 1 {
		t.Errorf("Len() = %d after sweep, want 1", got)
	}
	if _, ok := store.TryGet(ctx, "b"); !ok {
		t.Error("unexpired entry should survive sweep")
	}
}

func TestMemoryStoreConcurrentExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	// Tiny windows force readers onto the eviction path while other
	// goroutines refresh sliding windows on the same keys.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := Key("posts", fmt.Sprintf("%d", j%5))
				store.Set(ctx, key, j, Options{Sliding: time.Microsecond, Absolute: time.Millisecond})
				store.TryGet(ctx, key)
				store.TryGet(ctx, key)
			}
		}()
	}
	wg.Wait()
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := Key("users", fmt.Sprintf("%d", j%10))
				store.Set(ctx, key, n, Options{Sliding: time.Minute})
				store.TryGet(ctx, key)
				if j%7 == 0 {
					store.Remove(ctx, key)
				}
			}
		}(i)
	}
	wg.Wait()
}
