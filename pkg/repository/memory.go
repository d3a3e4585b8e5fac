package repository

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/studhub/forum/pkg/errors"
	"github.com/studhub/forum/pkg/model"
)

// idCounter hands out monotonically increasing ids. It is seeded from the
// highest existing id so the first assignment is max+1 (or 1 when empty),
// and it never moves backwards, so deleted ids are not reused within a
// process.
type idCounter struct {
	last int64
}

// seed raises the counter to at least id.
func (c *idCounter) seed(id int64) {
	if id > c.last {
		c.last = id
	}
}

// next returns the next unused id.
func (c *idCounter) next() int64 {
	c.last++
	return c.last
}

// MemoryUserRepository is a mutex-guarded in-process user store.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users []model.User
	ids   idCounter
}

// NewMemoryUserRepository creates an empty in-memory user store.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{}
}

// NewMemoryUserRepositoryWithSeed creates a user store pre-populated with
// the given users. The id counter is seeded from the highest seeded id.
func NewMemoryUserRepositoryWithSeed(users []model.User) *MemoryUserRepository {
	r := &MemoryUserRepository{users: append([]model.User(nil), users...)}
	for _, u := range users {
		r.ids.seed(u.ID)
	}
	return r
}

func (r *MemoryUserRepository) Add(ctx context.Context, user model.User) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.ID = r.ids.next()
	r.users = append(r.users, user)
	return user, nil
}

func (r *MemoryUserRepository) Update(ctx context.Context, user model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].ID == user.ID {
			r.users[i] = user
			return nil
		}
	}
	return errors.NewNotFound("user", strconv.FormatInt(user.ID, 10))
}

func (r *MemoryUserRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return errors.NewNotFound("user", strconv.FormatInt(id, 10))
}

func (r *MemoryUserRepository) GetSingle(ctx context.Context, id int64) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, errors.NewNotFound("user", strconv.FormatInt(id, 10))
}

func (r *MemoryUserRepository) GetMany(ctx context.Context) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]model.User(nil), r.users...), nil
}

func (r *MemoryUserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return model.User{}, errors.NewNotFound("user", username)
}

// MemoryPostRepository is a mutex-guarded in-process post store.
type MemoryPostRepository struct {
	mu    sync.RWMutex
	posts []model.Post
	ids   idCounter
}

// NewMemoryPostRepository creates an empty in-memory post store.
func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{}
}

// NewMemoryPostRepositoryWithSeed creates a post store pre-populated with
// the given posts.
func NewMemoryPostRepositoryWithSeed(posts []model.Post) *MemoryPostRepository {
	r := &MemoryPostRepository{posts: append([]model.Post(nil), posts...)}
	for _, p := range posts {
		r.ids.seed(p.ID)
	}
	return r
}

func (r *MemoryPostRepository) Add(ctx context.Context, post model.Post) (model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post.ID = r.ids.next()
	r.posts = append(r.posts, post)
	return post, nil
}

func (r *MemoryPostRepository) Update(ctx context.Context, post model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.posts {
		if r.posts[i].ID == post.ID {
			r.posts[i] = post
			return nil
		}
	}
	return errors.NewNotFound("post", strconv.FormatInt(post.ID, 10))
}

func (r *MemoryPostRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.posts {
		if r.posts[i].ID == id {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			return nil
		}
	}
	return errors.NewNotFound("post", strconv.FormatInt(id, 10))
}

func (r *MemoryPostRepository) GetSingle(ctx context.Context, id int64) (model.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Post{}, errors.NewNotFound("post", strconv.FormatInt(id, 10))
}

func (r *MemoryPostRepository) GetMany(ctx context.Context) ([]model.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]model.Post(nil), r.posts...), nil
}

// MemoryCommentRepository is a mutex-guarded in-process comment store.
type MemoryCommentRepository struct {
	mu       sync.RWMutex
	comments []model.Comment
	ids      idCounter
}

// NewMemoryCommentRepository creates an empty in-memory comment store.
func NewMemoryCommentRepository() *MemoryCommentRepository {
	return &MemoryCommentRepository{}
}

// NewMemoryCommentRepositoryWithSeed creates a comment store pre-populated
// with the given comments.
func NewMemoryCommentRepositoryWithSeed(comments []model.Comment) *MemoryCommentRepository {
	r := &MemoryCommentRepository{comments: append([]model.Comment(nil), comments...)}
	for _, c := range comments {
		r.ids.seed(c.ID)
	}
	return r
}

func (r *MemoryCommentRepository) Add(ctx context.Context, comment model.Comment) (model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	comment.ID = r.ids.next()
	r.comments = append(r.comments, comment)
	return comment, nil
}

func (r *MemoryCommentRepository) Update(ctx context.Context, comment model.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.comments {
		if r.comments[i].ID == comment.ID {
			r.comments[i] = comment
			return nil
		}
	}
	return errors.NewNotFound("comment", strconv.FormatInt(comment.ID, 10))
}

func (r *MemoryCommentRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.comments {
		if r.comments[i].ID == id {
			r.comments = append(r.comments[:i], r.comments[i+1:]...)
			return nil
		}
	}
	return errors.NewNotFound("comment", strconv.FormatInt(id, 10))
}

func (r *MemoryCommentRepository) GetSingle(ctx context.Context, id int64) (model.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.comments {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Comment{}, errors.NewNotFound("comment", strconv.FormatInt(id, 10))
}

func (r *MemoryCommentRepository) GetMany(ctx context.Context) ([]model.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]model.Comment(nil), r.comments...), nil
}

var (
	_ UserRepository    = (*MemoryUserRepository)(nil)
	_ PostRepository    = (*MemoryPostRepository)(nil)
	_ CommentRepository = (*MemoryCommentRepository)(nil)
)
