package repository

import (
	"context"
	"testing"

	"github.com/studhub/forum/pkg/errors"
	"github.com/studhub/forum/pkg/model"
)

func TestMemoryUserRepositoryIDAssignment(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	for i, name := range []string{"alice", "bob", "carol"} {
		user, err := repo.Add(ctx, model.User{Username: name, Password: "pw"})
		if err != nil {
			t.Fatalf("Add(%s) failed: %v", name, err)
		}
		if want := int64(i + 1); user.ID != want {
			t.Errorf("Add(%s) assigned id %d, want %d", name, user.ID, want)
		}
	}
}

func TestMemoryUserRepositoryNoIDReuse(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	a, _ := repo.Add(ctx, model.User{Username: "alice", Password: "pw"})
	b, _ := repo.Add(ctx, model.User{Username: "bob", Password: "pw"})

	if err := repo.Delete(ctx, b.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	c, err := repo.Add(ctx, model.User{Username: "carol", Password: "pw"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if c.ID == b.ID {
		t.Errorf("id %d was reused after deletion", b.ID)
	}
	if c.ID != 3 {
		t.Errorf("got id %d, want 3", c.ID)
	}
	_ = a
}

func TestMemoryUserRepositoryNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	t.Run("GetSingle", func(t *testing.T) {
		if _, err := repo.GetSingle(ctx, 99); !errors.IsNotFound(err) {
			t.Errorf("expected NotFound, got %v", err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		err := repo.Update(ctx, model.User{ID: 99, Username: "ghost"})
		if !errors.IsNotFound(err) {
			t.Errorf("expected NotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := repo.Delete(ctx, 99); !errors.IsNotFound(err) {
			t.Errorf("expected NotFound, got %v", err)
		}
	})

	t.Run("GetByUsername", func(t *testing.T) {
		if _, err := repo.GetByUsername(ctx, "ghost"); !errors.IsNotFound(err) {
			t.Errorf("expected NotFound, got %v", err)
		}
	})
}

func TestMemoryUserRepositoryGetByUsernameCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	added, err := repo.Add(ctx, model.User{Username: "Alice", Password: "pw"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	for _, name := range []string{"alice", "ALICE", "Alice"} {
		got, err := repo.GetByUsername(ctx, name)
		if err != nil {
			t.Errorf("GetByUsername(%q) failed: %v", name, err)
			continue
		}
		if got.ID != added.ID {
			t.Errorf("GetByUsername(%q) = id %d, want %d", name, got.ID, added.ID)
		}
	}
}

func TestMemoryUserRepositoryUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	user, _ := repo.Add(ctx, model.User{Username: "alice", Password: "pw"})

	user.Username = "alice2"
	if err := repo.Update(ctx, user); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := repo.GetSingle(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetSingle failed: %v", err)
	}
	if got.Username != "alice2" {
		t.Errorf("got username %q, want alice2", got.Username)
	}
}

func TestMemoryPostRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPostRepository()

	post, err := repo.Add(ctx, model.Post{Title: "t", Body: "b", UserID: 1})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if post.ID != 1 {
		t.Errorf("got id %d, want 1", post.ID)
	}

	post.Title = "t2"
	if err := repo.Update(ctx, post); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := repo.GetSingle(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetSingle failed: %v", err)
	}
	if got.Title != "t2" {
		t.Errorf("got title %q, want t2", got.Title)
	}

	all, err := repo.GetMany(ctx)
	if err != nil {
		t.Fatalf("GetMany failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("GetMany returned %d posts, want 1", len(all))
	}

	if err := repo.Delete(ctx, post.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.GetSingle(ctx, post.ID); !errors.IsNotFound(err) {
		t.Errorf("expected NotFound after delete, got %v", err)
	}
}

func TestMemoryCommentRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCommentRepository()

	comment, err := repo.Add(ctx, model.Comment{Body: "hi", PostID: 1, UserID: 2})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if comment.ID != 1 {
		t.Errorf("got id %d, want 1", comment.ID)
	}

	if err := repo.Delete(ctx, comment.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := repo.Delete(ctx, comment.ID); !errors.IsNotFound(err) {
		t.Errorf("expected NotFound on double delete, got %v", err)
	}
}

func TestSeedRepositoriesCounterPastSeed(t *testing.T) {
	ctx := context.Background()
	repos := seedRepositories()

	user, err := repos.Users.Add(ctx, model.User{Username: "carol", Password: "pw"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if user.ID != 3 {
		t.Errorf("got id %d, want 3 (seed holds ids 1 and 2)", user.ID)
	}
}

func TestMemoryGetManyReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()
	repo.Add(ctx, model.User{Username: "alice"})

	all, _ := repo.GetMany(ctx)
	all[0].Username = "mutated"

	got, _ := repo.GetSingle(ctx, 1)
	if got.Username != "alice" {
		t.Error("GetMany leaked internal state")
	}
}
