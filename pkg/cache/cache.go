// Package cache provides the process-local response cache used by the entity
// services. It is a key/value store with per-entry expiration policy: an
// optional sliding window refreshed on every hit and an optional absolute cap
// that evicts regardless of access pattern. Whichever triggers first wins.
//
// The cache is never the system of record. Entries disappear either by
// explicit Remove (invalidation after a mutation) or by aging out.
//
// Example usage:
//
//	store := cache.NewMemoryStore()
//	store.Set(ctx, cache.Key("posts", "7"), view, cache.Options{
//	    Sliding:  2 * time.Minute,
//	    Absolute: 10 * time.Minute,
//	})
//
//	if v, ok := store.TryGet(ctx, cache.Key("posts", "7")); ok {
//	    return v.(*model.PostView), nil
//	}
package cache

import (
	"context"
	"strings"
	"time"
)

// Options controls how long a cache entry lives.
// A zero duration disables that policy for the entry.
type Options struct {
	// Sliding evicts the entry after this much time passes without a hit.
	// Every successful TryGet pushes the deadline forward.
	Sliding time.Duration

	// Absolute evicts the entry this long after it was stored,
	// regardless of access pattern.
	Absolute time.Duration
}

// Store is the cache contract consumed by the entity services.
// Implementations must be safe for concurrent use without serializing
// unrelated keys behind a single long-held lock.
type Store interface {
	// TryGet returns the cached value for key and whether it was present
	// and unexpired. A hit refreshes the entry's sliding window.
	TryGet(ctx context.Context, key string) (any, bool)

	// Set stores value under key with the given expiration options,
	// replacing any existing entry.
	Set(ctx context.Context, key string, value any, opts Options)

	// Remove deletes the entry for key. Removing an absent key is a no-op.
	Remove(ctx context.Context, key string)
}

// Key builds a consistent cache key by joining a prefix and parts with colons.
// This ensures cache keys follow a consistent naming convention across the
// application.
//
// Example:
//
//	key := cache.Key("users", "123")            // "users:123"
//	key := cache.Key("posts", "7", "comments")  // "posts:7:comments"
//
// Empty parts are filtered out to prevent double colons.
func Key(prefix string, parts ...string) string {
	filtered := make([]string, 0, len(parts)+1)

	if prefix != "" {
		filtered = append(filtered, prefix)
	}

	for _, part := range parts {
		if part != "" {
			filtered = append(filtered, part)
		}
	}

	return strings.Join(filtered, ":")
}

// keyPrefix returns the first colon-separated segment of a key,
// used as the metrics label so cardinality stays bounded.
func keyPrefix(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
