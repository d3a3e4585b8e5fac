package forum

import (
	"context"
	"testing"
	"time"

	"github.com/studhub/forum/pkg/auth"
	"github.com/studhub/forum/pkg/cache"
	"github.com/studhub/forum/pkg/config"
	"github.com/studhub/forum/pkg/logging"
	"github.com/studhub/forum/pkg/model"
	"github.com/studhub/forum/pkg/repository"
)

func testCacheConfig() config.CacheConfig {
	return config.CacheConfig{
		ListTTL:       10 * time.Minute,
		EntrySliding:  2 * time.Minute,
		EntryAbsolute: 10 * time.Minute,
	}
}

func testLogger() *logging.Logger {
	return logging.New(config.LogConfig{Level: "error", Format: "json", Output: "stderr"})
}

type testEnv struct {
	repos *repository.Repositories
	store *cache.MemoryStore
	svc   *Services
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repos := &repository.Repositories{
		Users:    repository.NewMemoryUserRepository(),
		Posts:    repository.NewMemoryPostRepository(),
		Comments: repository.NewMemoryCommentRepository(),
	}
	store := cache.NewMemoryStore()
	issuer := auth.NewIssuer(config.AuthConfig{
		Secret:   "test-secret",
		Issuer:   "forum",
		TokenTTL: time.Hour,
	})
	svc := NewServices(repos, store, testCacheConfig(), issuer, testLogger())

	return &testEnv{repos: repos, store: store, svc: svc}
}

// mustCreateUser is a test fixture helper.
func (e *testEnv) mustCreateUser(t *testing.T, username string) model.UserSummary {
	t.Helper()
	user, err := e.svc.Users.Create(context.Background(), model.CreateUser{
		Username: username,
		Password: "pw",
	})
	if err != nil {
		t.Fatalf("create user %q: %v", username, err)
	}
	return user
}

func (e *testEnv) mustCreatePost(t *testing.T, title string, userID int64) model.PostView {
	t.Helper()
	post, err := e.svc.Posts.Create(context.Background(), model.CreatePost{
		Title:  title,
		Body:   "body",
		UserID: userID,
	})
	if err != nil {
		t.Fatalf("create post %q: %v", title, err)
	}
	return post
}

func (e *testEnv) mustCreateComment(t *testing.T, body string, postID, userID int64) model.CommentView {
	t.Helper()
	comment, err := e.svc.Comments.Create(context.Background(), model.CreateComment{
		Body:   body,
		PostID: postID,
		UserID: userID,
	})
	if err != nil {
		t.Fatalf("create comment %q: %v", body, err)
	}
	return comment
}

func int64ptr(v int64) *int64 {
	return &v
}
