package repository

import (
	"context"
	stderrors "errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/studhub/forum/pkg/database"
	"github.com/studhub/forum/pkg/errors"
	"github.com/studhub/forum/pkg/model"
)

// schema creates the forum tables. BIGSERIAL sequences are monotonic, so
// ids follow the max+1 rule and are never reused after deletion.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id       BIGSERIAL PRIMARY KEY,
	username TEXT NOT NULL,
	password TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS users_username_lower_idx ON users (LOWER(username));

CREATE TABLE IF NOT EXISTS posts (
	id      BIGSERIAL PRIMARY KEY,
	title   TEXT NOT NULL,
	body    TEXT NOT NULL,
	user_id BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS comments (
	id      BIGSERIAL PRIMARY KEY,
	body    TEXT NOT NULL,
	post_id BIGINT NOT NULL,
	user_id BIGINT NOT NULL
);
`

// isUniqueViolation reports whether err is a unique-constraint violation
// (SQLSTATE 23505). The service layer checks username uniqueness before
// writing, but a concurrent insert can still hit the index.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return stderrors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Migrate creates the forum tables if they do not exist.
func Migrate(ctx context.Context, db database.Querier) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return errors.NewTemporary("failed to create schema", err)
	}
	return nil
}

// PostgresUserRepository stores users in PostgreSQL.
type PostgresUserRepository struct {
	db database.Querier
}

// NewPostgresUserRepository creates a user repository over db.
func NewPostgresUserRepository(db database.Querier) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Add(ctx context.Context, user model.User) (model.User, error) {
	err := r.db.QueryRow(ctx,
		"INSERT INTO users (username, password) VALUES ($1, $2) RETURNING id",
		user.Username, user.Password,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, errors.NewConflict("user", user.Username)
		}
		return model.User{}, errors.NewTemporary("failed to insert user", err)
	}
	return user, nil
}

func (r *PostgresUserRepository) Update(ctx context.Context, user model.User) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE users SET username = $1, password = $2 WHERE id = $3",
		user.Username, user.Password, user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.NewConflict("user", user.Username)
		}
		return errors.NewTemporary("failed to update user", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.NewNotFound("user", strconv.FormatInt(user.ID, 10))
	}
	return nil
}

func (r *PostgresUserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return errors.NewTemporary("failed to delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.NewNotFound("user", strconv.FormatInt(id, 10))
	}
	return nil
}

func (r *PostgresUserRepository) GetSingle(ctx context.Context, id int64) (model.User, error) {
	var user model.User
	err := r.db.QueryRow(ctx,
		"SELECT id, username, password FROM users WHERE id = $1", id,
	).Scan(&user.ID, &user.Username, &user.Password)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return model.User{}, errors.NewNotFound("user", strconv.FormatInt(id, 10))
		}
		return model.User{}, errors.NewTemporary("failed to get user", err)
	}
	return user, nil
}

func (r *PostgresUserRepository) GetMany(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.Query(ctx, "SELECT id, username, password FROM users ORDER BY id")
	if err != nil {
		return nil, errors.NewTemporary("failed to list users", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Password); err != nil {
			return nil, errors.NewTemporary("failed to scan user", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewTemporary("failed to read users", err)
	}
	return users, nil
}

func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	var user model.User
	err := r.db.QueryRow(ctx,
		"SELECT id, username, password FROM users WHERE LOWER(username) = LOWER($1)", username,
	).Scan(&user.ID, &user.Username, &user.Password)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return model.User{}, errors.NewNotFound("user", username)
		}
		return model.User{}, errors.NewTemporary("failed to get user by username", err)
	}
	return user, nil
}

// PostgresPostRepository stores posts in PostgreSQL.
type PostgresPostRepository struct {
	db database.Querier
}

// NewPostgresPostRepository creates a post repository over db.
func NewPostgresPostRepository(db database.Querier) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

func (r *PostgresPostRepository) Add(ctx context.Context, post model.Post) (model.Post, error) {
	err := r.db.QueryRow(ctx,
		"INSERT INTO posts (title, body, user_id) VALUES ($1, $2, $3) RETURNING id",
		post.Title, post.Body, post.UserID,
	).Scan(&post.ID)
	if err != nil {
		return model.Post{}, errors.NewTemporary("failed to insert post", err)
	}
	return post, nil
}

func (r *PostgresPostRepository) Update(ctx context.Context, post model.Post) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE posts SET title = $1, body = $2 WHERE id = $3",
		post.Title, post.Body, post.ID,
	)
	if err != nil {
		return errors.NewTemporary("failed to update post", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.NewNotFound("post", strconv.FormatInt(post.ID, 10))
	}
	return nil
}

func (r *PostgresPostRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return errors.NewTemporary("failed to delete post", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.NewNotFound("post", strconv.FormatInt(id, 10))
	}
	return nil
}

func (r *PostgresPostRepository) GetSingle(ctx context.Context, id int64) (model.Post, error) {
	var post model.Post
	err := r.db.QueryRow(ctx,
		"SELECT id, title, body, user_id FROM posts WHERE id = $1", id,
	).Scan(&post.ID, &post.Title, &post.Body, &post.UserID)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return model.Post{}, errors.NewNotFound("post", strconv.FormatInt(id, 10))
		}
		return model.Post{}, errors.NewTemporary("failed to get post", err)
	}
	return post, nil
}

func (r *PostgresPostRepository) GetMany(ctx context.Context) ([]model.Post, error) {
	rows, err := r.db.Query(ctx, "SELECT id, title, body, user_id FROM posts ORDER BY id")
	if err != nil {
		return nil, errors.NewTemporary("failed to list posts", err)
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		var post model.Post
		if err := rows.Scan(&post.ID, &post.Title, &post.Body, &post.UserID); err != nil {
			return nil, errors.NewTemporary("failed to scan post", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewTemporary("failed to read posts", err)
	}
	return posts, nil
}

// PostgresCommentRepository stores comments in PostgreSQL.
type PostgresCommentRepository struct {
	db database.Querier
}

// NewPostgresCommentRepository creates a comment repository over db.
func NewPostgresCommentRepository(db database.Querier) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

func (r *PostgresCommentRepository) Add(ctx context.Context, comment model.Comment) (model.Comment, error) {
	err := r.db.QueryRow(ctx,
		"INSERT INTO comments (body, post_id, user_id) VALUES ($1, $2, $3) RETURNING id",
		comment.Body, comment.PostID, comment.UserID,
	).Scan(&comment.ID)
	if err != nil {
		return model.Comment{}, errors.NewTemporary("failed to insert comment", err)
	}
	return comment, nil
}

func (r *PostgresCommentRepository) Update(ctx context.Context, comment model.Comment) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE comments SET body = $1 WHERE id = $2",
		comment.Body, comment.ID,
	)
	if err != nil {
		return errors.NewTemporary("failed to update comment", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.NewNotFound("comment", strconv.FormatInt(comment.ID, 10))
	}
	return nil
}

func (r *PostgresCommentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM comments WHERE id = $1", id)
	if err != nil {
		return errors.NewTemporary("failed to delete comment", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.NewNotFound("comment", strconv.FormatInt(id, 10))
	}
	return nil
}

func (r *PostgresCommentRepository) GetSingle(ctx context.Context, id int64) (model.Comment, error) {
	var comment model.Comment
	err := r.db.QueryRow(ctx,
		"SELECT id, body, post_id, user_id FROM comments WHERE id = $1", id,
	).Scan(&comment.ID, &comment.Body, &comment.PostID, &comment.UserID)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return model.Comment{}, errors.NewNotFound("comment", strconv.FormatInt(id, 10))
		}
		return model.Comment{}, errors.NewTemporary("failed to get comment", err)
	}
	return comment, nil
}

func (r *PostgresCommentRepository) GetMany(ctx context.Context) ([]model.Comment, error) {
	rows, err := r.db.Query(ctx, "SELECT id, body, post_id, user_id FROM comments ORDER BY id")
	if err != nil {
		return nil, errors.NewTemporary("failed to list comments", err)
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		var comment model.Comment
		if err := rows.Scan(&comment.ID, &comment.Body, &comment.PostID, &comment.UserID); err != nil {
			return nil, errors.NewTemporary("failed to scan comment", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewTemporary("failed to read comments", err)
	}
	return comments, nil
}

var (
	_ UserRepository    = (*PostgresUserRepository)(nil)
	_ PostRepository    = (*PostgresPostRepository)(nil)
	_ CommentRepository = (*PostgresCommentRepository)(nil)
)
