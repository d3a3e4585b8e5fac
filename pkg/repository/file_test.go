package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/studhub/forum/pkg/config"
	"github.com/studhub/forum/pkg/errors"
	"github.com/studhub/forum/pkg/model"
)

func configStorage(backend, dir string) config.StorageConfig {
	return config.StorageConfig{Backend: backend, Dir: dir}
}

func TestFileUserRepositoryCreatesStoreFile(t *testing.T) {
	dir := t.TempDir()

	if _, err := NewFileUserRepository(dir); err != nil {
		t.Fatalf("NewFileUserRepository failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "users.json"))
	if err != nil {
		t.Fatalf("store file was not created: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("fresh store file holds %q, want []", data)
	}
}

func TestFileUserRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	repo, err := NewFileUserRepository(dir)
	if err != nil {
		t.Fatalf("NewFileUserRepository failed: %v", err)
	}

	added, err := repo.Add(ctx, model.User{Username: "alice", Password: "pw"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if added.ID != 1 {
		t.Errorf("got id %d, want 1", added.ID)
	}

	got, err := repo.GetSingle(ctx, added.ID)
	if err != nil {
		t.Fatalf("GetSingle failed: %v", err)
	}
	if got.Username != "alice" || got.Password != "pw" {
		t.Errorf("round trip lost data: %+v", got)
	}
}

func TestFileUserRepositoryPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	repo, err := NewFileUserRepository(dir)
	if err != nil {
		t.Fatalf("NewFileUserRepository failed: %v", err)
	}
	if _, err := repo.Add(ctx, model.User{Username: "alice", Password: "pw"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := repo.Add(ctx, model.User{Username: "bob", Password: "pw"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	reopened, err := NewFileUserRepository(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}

	all, err := reopened.GetMany(ctx)
	if err != nil {
		t.Fatalf("GetMany failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("reopened store holds %d users, want 2", len(all))
	}

	// The id counter must be re-seeded from the file: next id is max+1.
	carol, err := reopened.Add(ctx, model.User{Username: "carol", Password: "pw"})
	if err != nil {
		t.Fatalf("Add after reopen failed: %v", err)
	}
	if carol.ID != 3 {
		t.Errorf("got id %d after reopen, want 3", carol.ID)
	}
}

func TestFileUserRepositoryNoIDReuseWithinProcess(t *testing.T) {
	ctx := context.Background()
	repo, err := NewFileUserRepository(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileUserRepository failed: %v", err)
	}

	repo.Add(ctx, model.User{Username: "alice"})
	b, _ := repo.Add(ctx, model.User{Username: "bob"})

	if err := repo.Delete(ctx, b.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	c, err := repo.Add(ctx, model.User{Username: "carol"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if c.ID != 3 {
		t.Errorf("got id %d, want 3 (no reuse of deleted id)", c.ID)
	}
}

func TestFileUserRepositoryGetByUsername(t *testing.T) {
	ctx := context.Background()
	repo, err := NewFileUserRepository(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileUserRepository failed: %v", err)
	}

	added, _ := repo.Add(ctx, model.User{Username: "Alice", Password: "pw"})

	got, err := repo.GetByUsername(ctx, "ALICE")
	if err != nil {
		t.Fatalf("GetByUsername failed: %v", err)
	}
	if got.ID != added.ID {
		t.Errorf("got id %d, want %d", got.ID, added.ID)
	}

	if _, err := repo.GetByUsername(ctx, "ghost"); !errors.IsNotFound(err) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestFilePostRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo, err := NewFilePostRepository(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilePostRepository failed: %v", err)
	}

	post, err := repo.Add(ctx, model.Post{Title: "t", Body: "b", UserID: 1})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	post.Body = "b2"
	if err := repo.Update(ctx, post); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := repo.GetSingle(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetSingle failed: %v", err)
	}
	if got.Body != "b2" {
		t.Errorf("got body %q, want b2", got.Body)
	}

	if err := repo.Delete(ctx, post.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.GetSingle(ctx, post.ID); !errors.IsNotFound(err) {
		t.Errorf("expected NotFound after delete, got %v", err)
	}
}

func TestFileCommentRepositoryNotFound(t *testing.T) {
	ctx := context.Background()
	repo, err := NewFileCommentRepository(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCommentRepository failed: %v", err)
	}

	if _, err := repo.GetSingle(ctx, 1); !errors.IsNotFound(err) {
		t.Errorf("expected NotFound, got %v", err)
	}
	if err := repo.Update(ctx, model.Comment{ID: 1, Body: "x"}); !errors.IsNotFound(err) {
		t.Errorf("expected NotFound, got %v", err)
	}
	if err := repo.Delete(ctx, 1); !errors.IsNotFound(err) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		repos, err := Open(configStorage("memory", ""), nil)
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		if _, ok := repos.Users.(*MemoryUserRepository); !ok {
			t.Errorf("got %T, want *MemoryUserRepository", repos.Users)
		}
	})

	t.Run("file", func(t *testing.T) {
		repos, err := Open(configStorage("file", t.TempDir()), nil)
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		if _, ok := repos.Users.(*FileUserRepository); !ok {
			t.Errorf("got %T, want *FileUserRepository", repos.Users)
		}
	})

	t.Run("postgres without pool", func(t *testing.T) {
		if _, err := Open(configStorage("postgres", ""), nil); err == nil {
			t.Error("expected error for postgres backend without pool")
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, err := Open(configStorage("etcd", ""), nil); err == nil {
			t.Error("expected error for unknown backend")
		}
	})
}
