// Package forum holds the entity services, the cascade coordinator, and the
// login flow. Each service wraps a repository, validates input, enriches
// results with author display data, and owns the cache keys for its entity's
// read shapes.
//
// The cache key space is:
//
//	users:{id}            single user
//	users:all             full user collection
//	posts:{id}            single post
//	posts:all             full post collection
//	posts:{id}:comments   post with embedded comments
//	comments:{id}         single comment
//	comments:all          full comment collection
//
// On any mutation the full affected key set is removed in one invalidation
// call; a stale entry surviving a mutation is a correctness bug, not a
// performance bug.
package forum

import (
	"context"
	"strconv"

	"github.com/studhub/forum/pkg/cache"
	"github.com/studhub/forum/pkg/config"
)

const (
	userKeyPrefix    = "users"
	postKeyPrefix    = "posts"
	commentKeyPrefix = "comments"
	allKeySuffix     = "all"
	commentsSuffix   = "comments"
)

func userKey(id int64) string {
	return cache.Key(userKeyPrefix, strconv.FormatInt(id, 10))
}

func usersAllKey() string {
	return cache.Key(userKeyPrefix, allKeySuffix)
}

func postKey(id int64) string {
	return cache.Key(postKeyPrefix, strconv.FormatInt(id, 10))
}

func postsAllKey() string {
	return cache.Key(postKeyPrefix, allKeySuffix)
}

func postCommentsKey(id int64) string {
	return cache.Key(postKeyPrefix, strconv.FormatInt(id, 10), commentsSuffix)
}

func commentKey(id int64) string {
	return cache.Key(commentKeyPrefix, strconv.FormatInt(id, 10))
}

func commentsAllKey() string {
	return cache.Key(commentKeyPrefix, allKeySuffix)
}

// invalidator removes the full set of cache keys a mutation can make stale.
// Each method is the complete removal set for one entity kind; callers must
// not remove a subset by hand.
type invalidator struct {
	store cache.Store
}

// user removes the keys affected by a user mutation.
func (v invalidator) user(ctx context.Context, id int64) {
	v.store.Remove(ctx, userKey(id))
	v.store.Remove(ctx, usersAllKey())
}

// post removes the keys affected by a post mutation, including the embedded
// comments shape.
func (v invalidator) post(ctx context.Context, id int64) {
	v.store.Remove(ctx, postKey(id))
	v.store.Remove(ctx, postsAllKey())
	v.store.Remove(ctx, postCommentsKey(id))
}

// comment removes the keys affected by a comment mutation. The owning post's
// embedded-comments shape holds a copy of the comment, so it goes too.
func (v invalidator) comment(ctx context.Context, id, postID int64) {
	v.store.Remove(ctx, commentKey(id))
	v.store.Remove(ctx, commentsAllKey())
	v.store.Remove(ctx, postCommentsKey(postID))
}

// cachePolicy derives entry and list expiration options from configuration.
type cachePolicy struct {
	cfg config.CacheConfig
}

// entry is the single-entity policy: sliding window plus absolute cap,
// whichever triggers first.
func (p cachePolicy) entry() cache.Options {
	return cache.Options{
		Sliding:  p.cfg.EntrySliding,
		Absolute: p.cfg.EntryAbsolute,
	}
}

// list is the whole-collection policy: fixed absolute TTL, no sliding.
func (p cachePolicy) list() cache.Options {
	return cache.Options{Absolute: p.cfg.ListTTL}
}
