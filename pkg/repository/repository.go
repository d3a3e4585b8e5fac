// Package repository defines the storage contract for forum entities and
// provides three interchangeable backends: in-memory, flat-file JSON, and
// PostgreSQL.
//
// Repositories assign ids on Add, never reuse an id after deletion, and
// report absence with the NotFound error kind. They carry no caching
// awareness; the service layer owns that.
package repository

import (
	"context"
	"fmt"

	"github.com/studhub/forum/pkg/config"
	"github.com/studhub/forum/pkg/database"
	"github.com/studhub/forum/pkg/model"
)

// UserRepository stores users.
type UserRepository interface {
	// Add persists a new user and returns it with its assigned id.
	Add(ctx context.Context, user model.User) (model.User, error)

	// Update replaces the stored user with the same id.
	// Returns NotFound if the id is absent.
	Update(ctx context.Context, user model.User) error

	// Delete removes the user. Returns NotFound if the id is absent.
	Delete(ctx context.Context, id int64) error

	// GetSingle returns the user with the given id, or NotFound.
	GetSingle(ctx context.Context, id int64) (model.User, error)

	// GetMany returns all users.
	GetMany(ctx context.Context) ([]model.User, error)

	// GetByUsername returns the user with the given username, matched
	// case-insensitively, or NotFound.
	GetByUsername(ctx context.Context, username string) (model.User, error)
}

// PostRepository stores posts.
type PostRepository interface {
	Add(ctx context.Context, post model.Post) (model.Post, error)
	Update(ctx context.Context, post model.Post) error
	Delete(ctx context.Context, id int64) error
	GetSingle(ctx context.Context, id int64) (model.Post, error)
	GetMany(ctx context.Context) ([]model.Post, error)
}

// CommentRepository stores comments.
type CommentRepository interface {
	Add(ctx context.Context, comment model.Comment) (model.Comment, error)
	Update(ctx context.Context, comment model.Comment) error
	Delete(ctx context.Context, id int64) error
	GetSingle(ctx context.Context, id int64) (model.Comment, error)
	GetMany(ctx context.Context) ([]model.Comment, error)
}

// Repositories bundles the three entity repositories behind one backend.
type Repositories struct {
	Users    UserRepository
	Posts    PostRepository
	Comments CommentRepository
}

// Open selects and constructs the backend named by cfg.Backend.
// The postgres backend requires a non-nil pool; the other backends ignore it.
func Open(cfg config.StorageConfig, pool *database.Pool) (*Repositories, error) {
	switch cfg.Backend {
	case config.StorageBackendMemory:
		if cfg.Seed {
			return seedRepositories(), nil
		}
		return &Repositories{
			Users:    NewMemoryUserRepository(),
			Posts:    NewMemoryPostRepository(),
			Comments: NewMemoryCommentRepository(),
		}, nil

	case config.StorageBackendFile:
		users, err := NewFileUserRepository(cfg.Dir)
		if err != nil {
			return nil, err
		}
		posts, err := NewFilePostRepository(cfg.Dir)
		if err != nil {
			return nil, err
		}
		comments, err := NewFileCommentRepository(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return &Repositories{Users: users, Posts: posts, Comments: comments}, nil

	case config.StorageBackendPostgres:
		if pool == nil {
			return nil, fmt.Errorf("postgres backend requires a database pool")
		}
		return &Repositories{
			Users:    NewPostgresUserRepository(pool),
			Posts:    NewPostgresPostRepository(pool),
			Comments: NewPostgresCommentRepository(pool),
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.Backend)
	}
}

// seedRepositories builds memory repositories pre-populated with demo data
// for local development.
func seedRepositories() *Repositories {
	return &Repositories{
		Users: NewMemoryUserRepositoryWithSeed([]model.User{
			{ID: 1, Username: "alice", Password: "password"},
			{ID: 2, Username: "bob", Password: "password"},
		}),
		Posts: NewMemoryPostRepositoryWithSeed([]model.Post{
			{ID: 1, Title: "Welcome", Body: "First post on the forum.", UserID: 1},
			{ID: 2, Title: "Introductions", Body: "Say hello here.", UserID: 2},
		}),
		Comments: NewMemoryCommentRepositoryWithSeed([]model.Comment{
			{ID: 1, Body: "Glad to be here.", PostID: 1, UserID: 2},
			{ID: 2, Body: "Hello everyone.", PostID: 2, UserID: 1},
		}),
	}
}
