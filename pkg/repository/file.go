package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/studhub/forum/pkg/errors"
	"github.com/studhub/forum/pkg/model"
)

// fileStore persists one entity collection as a JSON array in a single flat
// file. Every operation is a read-modify-write of the whole file under the
// store mutex. The id counter lives in memory and is seeded from the file at
// open, so ids follow the max+1 rule and are never reused within a process.
type fileStore[T any] struct {
	path     string
	resource string
	id       func(T) int64

	mu  sync.Mutex
	ids idCounter
}

func newFileStore[T any](dir, filename, resource string, id func(T) int64) (*fileStore[T], error) {
	if dir == "" {
		return nil, fmt.Errorf("file backend requires storage.dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}

	s := &fileStore[T]{
		path:     filepath.Join(dir, filename),
		resource: resource,
		id:       id,
	}

	items, err := s.load()
	if err != nil {
		return nil, err
	}
	if items == nil {
		if err := s.save([]T{}); err != nil {
			return nil, err
		}
	}
	for _, item := range items {
		s.ids.seed(id(item))
	}

	return s, nil
}

// load reads the collection. A missing file yields a nil slice and no error.
func (s *fileStore[T]) load() ([]T, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.path, err)
	}
	return items, nil
}

// save writes the collection to a temp file and renames it into place so a
// crash mid-write never leaves a truncated store.
func (s *fileStore[T]) save(items []T) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", s.path, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}

func (s *fileStore[T]) add(item T, setID func(*T, int64)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		var zero T
		return zero, err
	}

	setID(&item, s.ids.next())
	items = append(items, item)
	if err := s.save(items); err != nil {
		var zero T
		return zero, err
	}
	return item, nil
}

func (s *fileStore[T]) update(item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return err
	}

	for i := range items {
		if s.id(items[i]) == s.id(item) {
			items[i] = item
			return s.save(items)
		}
	}
	return errors.NewNotFound(s.resource, strconv.FormatInt(s.id(item), 10))
}

func (s *fileStore[T]) delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return err
	}

	for i := range items {
		if s.id(items[i]) == id {
			items = append(items[:i], items[i+1:]...)
			return s.save(items)
		}
	}
	return errors.NewNotFound(s.resource, strconv.FormatInt(id, 10))
}

func (s *fileStore[T]) getSingle(id int64) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		var zero T
		return zero, err
	}

	for _, item := range items {
		if s.id(item) == id {
			return item, nil
		}
	}

	var zero T
	return zero, errors.NewNotFound(s.resource, strconv.FormatInt(id, 10))
}

func (s *fileStore[T]) getMany() ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// fileUser mirrors model.User with the password included, since the entity's
// outward JSON shape hides it but the store must keep it.
type fileUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// FileUserRepository stores users in users.json under the storage dir.
type FileUserRepository struct {
	store *fileStore[fileUser]
}

// NewFileUserRepository opens (or creates) the user store in dir.
func NewFileUserRepository(dir string) (*FileUserRepository, error) {
	store, err := newFileStore(dir, "users.json", "user", func(u fileUser) int64 { return u.ID })
	if err != nil {
		return nil, err
	}
	return &FileUserRepository{store: store}, nil
}

func (r *FileUserRepository) Add(ctx context.Context, user model.User) (model.User, error) {
	added, err := r.store.add(fileUser{Username: user.Username, Password: user.Password},
		func(u *fileUser, id int64) { u.ID = id })
	if err != nil {
		return model.User{}, err
	}
	return model.User(added), nil
}

func (r *FileUserRepository) Update(ctx context.Context, user model.User) error {
	return r.store.update(fileUser(user))
}

func (r *FileUserRepository) Delete(ctx context.Context, id int64) error {
	return r.store.delete(id)
}

func (r *FileUserRepository) GetSingle(ctx context.Context, id int64) (model.User, error) {
	u, err := r.store.getSingle(id)
	if err != nil {
		return model.User{}, err
	}
	return model.User(u), nil
}

func (r *FileUserRepository) GetMany(ctx context.Context) ([]model.User, error) {
	items, err := r.store.getMany()
	if err != nil {
		return nil, err
	}
	users := make([]model.User, len(items))
	for i, u := range items {
		users[i] = model.User(u)
	}
	return users, nil
}

func (r *FileUserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	items, err := r.store.getMany()
	if err != nil {
		return model.User{}, err
	}
	for _, u := range items {
		if strings.EqualFold(u.Username, username) {
			return model.User(u), nil
		}
	}
	return model.User{}, errors.NewNotFound("user", username)
}

// FilePostRepository stores posts in posts.json under the storage dir.
type FilePostRepository struct {
	store *fileStore[model.Post]
}

// NewFilePostRepository opens (or creates) the post store in dir.
func NewFilePostRepository(dir string) (*FilePostRepository, error) {
	store, err := newFileStore(dir, "posts.json", "post", func(p model.Post) int64 { return p.ID })
	if err != nil {
		return nil, err
	}
	return &FilePostRepository{store: store}, nil
}

func (r *FilePostRepository) Add(ctx context.Context, post model.Post) (model.Post, error) {
	return r.store.add(post, func(p *model.Post, id int64) { p.ID = id })
}

func (r *FilePostRepository) Update(ctx context.Context, post model.Post) error {
	return r.store.update(post)
}

func (r *FilePostRepository) Delete(ctx context.Context, id int64) error {
	return r.store.delete(id)
}

func (r *FilePostRepository) GetSingle(ctx context.Context, id int64) (model.Post, error) {
	return r.store.getSingle(id)
}

func (r *FilePostRepository) GetMany(ctx context.Context) ([]model.Post, error) {
	return r.store.getMany()
}

// FileCommentRepository stores comments in comments.json under the storage dir.
type FileCommentRepository struct {
	store *fileStore[model.Comment]
}

// NewFileCommentRepository opens (or creates) the comment store in dir.
func NewFileCommentRepository(dir string) (*FileCommentRepository, error) {
	store, err := newFileStore(dir, "comments.json", "comment", func(c model.Comment) int64 { return c.ID })
	if err != nil {
		return nil, err
	}
	return &FileCommentRepository{store: store}, nil
}

func (r *FileCommentRepository) Add(ctx context.Context, comment model.Comment) (model.Comment, error) {
	return r.store.add(comment, func(c *model.Comment, id int64) { c.ID = id })
}

func (r *FileCommentRepository) Update(ctx context.Context, comment model.Comment) error {
	return r.store.update(comment)
}

func (r *FileCommentRepository) Delete(ctx context.Context, id int64) error {
	return r.store.delete(id)
}

func (r *FileCommentRepository) GetSingle(ctx context.Context, id int64) (model.Comment, error) {
	return r.store.getSingle(id)
}

func (r *FileCommentRepository) GetMany(ctx context.Context) ([]model.Comment, error) {
	return r.store.getMany()
}

var (
	_ UserRepository    = (*FileUserRepository)(nil)
	_ PostRepository    = (*FilePostRepository)(nil)
	_ CommentRepository = (*FileCommentRepository)(nil)
)
