package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/studhub/forum/pkg/errors"
	"github.com/studhub/forum/pkg/model"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		mock.Close()
	})
	return mock
}

func TestPostgresUserRepositoryAdd(t *testing.T) {
	ctx := context.Background()
	mock := newMockPool(t)
	repo := NewPostgresUserRepository(mock)

	mock.ExpectQuery(`INSERT INTO users \(username, password\) VALUES \(\$1, \$2\) RETURNING id`).
		WithArgs("alice", "pw").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))

	user, err := repo.Add(ctx, model.User{Username: "alice", Password: "pw"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if user.ID != 1 {
		t.Errorf("got id %d, want 1", user.ID)
	}
}

func TestPostgresUserRepositoryUniqueViolation(t *testing.T) {
	ctx := context.Background()

	t.Run("insert", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewPostgresUserRepository(mock)

		mock.ExpectQuery(`INSERT INTO users \(username, password\) VALUES \(\$1, \$2\) RETURNING id`).
			WithArgs("alice", "pw").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_lower_idx"})

		_, err := repo.Add(ctx, model.User{Username: "alice", Password: "pw"})
		if !errors.IsConflict(err) {
			t.Errorf("expected Conflict for duplicate username, got %v", err)
		}
	})

	t.Run("update", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewPostgresUserRepository(mock)

		mock.ExpectExec(`UPDATE users SET username = \$1, password = \$2 WHERE id = \$3`).
			WithArgs("bob", "pw", int64(1)).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_lower_idx"})

		err := repo.Update(ctx, model.User{ID: 1, Username: "bob", Password: "pw"})
		if !errors.IsConflict(err) {
			t.Errorf("expected Conflict for duplicate username, got %v", err)
		}
	})
}

func TestPostgresUserRepositoryGetSingleNotFound(t *testing.T) {
	ctx := context.Background()
	mock := newMockPool(t)
	repo := NewPostgresUserRepository(mock)

	mock.ExpectQuery(`SELECT id, username, password FROM users WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "password"}))

	if _, err := repo.GetSingle(ctx, 99); !errors.IsNotFound(err) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestPostgresUserRepositoryGetByUsername(t *testing.T) {
	ctx := context.Background()
	mock := newMockPool(t)
	repo := NewPostgresUserRepository(mock)

	mock.ExpectQuery(`SELECT id, username, password FROM users WHERE LOWER\(username\) = LOWER\(\$1\)`).
		WithArgs("ALICE").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "password"}).
			AddRow(int64(1), "Alice", "pw"))

	user, err := repo.GetByUsername(ctx, "ALICE")
	if err != nil {
		t.Fatalf("GetByUsername failed: %v", err)
	}
	if user.Username != "Alice" {
		t.Errorf("got username %q, want Alice", user.Username)
	}
}

func TestPostgresUserRepositoryDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("existing row", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewPostgresUserRepository(mock)

		mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
			WithArgs(int64(1)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		if err := repo.Delete(ctx, 1); err != nil {
			t.Errorf("Delete failed: %v", err)
		}
	})

	t.Run("absent row", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewPostgresUserRepository(mock)

		mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
			WithArgs(int64(99)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		if err := repo.Delete(ctx, 99); !errors.IsNotFound(err) {
			t.Errorf("expected NotFound, got %v", err)
		}
	})
}

func TestPostgresPostRepositoryUpdate(t *testing.T) {
	ctx := context.Background()
	mock := newMockPool(t)
	repo := NewPostgresPostRepository(mock)

	mock.ExpectExec(`UPDATE posts SET title = \$1, body = \$2 WHERE id = \$3`).
		WithArgs("t2", "b2", int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(ctx, model.Post{ID: 1, Title: "t2", Body: "b2", UserID: 7})
	if err != nil {
		t.Errorf("Update failed: %v", err)
	}
}

func TestPostgresCommentRepositoryGetMany(t *testing.T) {
	ctx := context.Background()
	mock := newMockPool(t)
	repo := NewPostgresCommentRepository(mock)

	mock.ExpectQuery(`SELECT id, body, post_id, user_id FROM comments ORDER BY id`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "body", "post_id", "user_id"}).
			AddRow(int64(1), "hi", int64(1), int64(2)).
			AddRow(int64(2), "hello", int64(1), int64(1)))

	comments, err := repo.GetMany(ctx)
	if err != nil {
		t.Fatalf("GetMany failed: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("got %d comments, want 2", len(comments))
	}
	if comments[0].Body != "hi" || comments[1].UserID != 1 {
		t.Errorf("unexpected rows: %+v", comments)
	}
}
