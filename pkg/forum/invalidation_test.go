package forum

import (
	"context"
	"testing"

	"github.com/studhub/forum/pkg/model"
)

// primeAll populates every cache key shape by reading through the services.
func primeAll(t *testing.T, env *testEnv, userID, postID, commentID int64) {
	t.Helper()
	ctx := context.Background()

	if _, err := env.svc.Users.GetSingle(ctx, userID); err != nil {
		t.Fatalf("prime user: %v", err)
	}
	if _, err := env.svc.Users.List(ctx, UserFilter{}); err != nil {
		t.Fatalf("prime user list: %v", err)
	}
	if _, err := env.svc.Posts.GetSingle(ctx, postID); err != nil {
		t.Fatalf("prime post: %v", err)
	}
	if _, err := env.svc.Posts.List(ctx, PostFilter{}); err != nil {
		t.Fatalf("prime post list: %v", err)
	}
	if _, err := env.svc.Posts.GetWithComments(ctx, postID); err != nil {
		t.Fatalf("prime post comments: %v", err)
	}
	if _, err := env.svc.Comments.GetSingle(ctx, commentID); err != nil {
		t.Fatalf("prime comment: %v", err)
	}
	if _, err := env.svc.Comments.List(ctx, CommentFilter{}); err != nil {
		t.Fatalf("prime comment list: %v", err)
	}
}

func assertMiss(t *testing.T, env *testEnv, key string) {
	t.Helper()
	if _, ok := env.store.TryGet(context.Background(), key); ok {
		t.Errorf("cache key %q survived the mutation", key)
	}
}

func assertHit(t *testing.T, env *testEnv, key string) {
	t.Helper()
	if _, ok := env.store.TryGet(context.Background(), key); !ok {
		t.Errorf("cache key %q was invalidated but should not have been", key)
	}
}

func TestInvalidationOnUserMutations(t *testing.T) {
	ctx := context.Background()

	t.Run("create", func(t *testing.T) {
		env := newTestEnv(t)
		env.mustCreateUser(t, "alice")
		if _, err := env.svc.Users.List(ctx, UserFilter{}); err != nil {
			t.Fatal(err)
		}

		env.mustCreateUser(t, "bob")
		assertMiss(t, env, usersAllKey())
	})

	t.Run("update", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.mustCreateUser(t, "alice")
		post := env.mustCreatePost(t, "t", alice.ID)
		comment := env.mustCreateComment(t, "hi", post.ID, alice.ID)
		primeAll(t, env, alice.ID, post.ID, comment.ID)

		// Same username: only the user's own keys go.
		if _, err := env.svc.Users.Update(ctx, alice.ID, model.UpdateUser{Username: "alice", Password: "new"}); err != nil {
			t.Fatal(err)
		}
		assertMiss(t, env, userKey(alice.ID))
		assertMiss(t, env, usersAllKey())
		assertHit(t, env, postKey(post.ID))
	})

	t.Run("rename invalidates denormalized author shapes", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.mustCreateUser(t, "alice")
		post := env.mustCreatePost(t, "t", alice.ID)
		comment := env.mustCreateComment(t, "hi", post.ID, alice.ID)
		primeAll(t, env, alice.ID, post.ID, comment.ID)

		if _, err := env.svc.Users.Update(ctx, alice.ID, model.UpdateUser{Username: "renamed"}); err != nil {
			t.Fatal(err)
		}
		assertMiss(t, env, userKey(alice.ID))
		assertMiss(t, env, usersAllKey())
		assertMiss(t, env, postsAllKey())
		assertMiss(t, env, commentsAllKey())
		assertMiss(t, env, postKey(post.ID))
		assertMiss(t, env, postCommentsKey(post.ID))
		assertMiss(t, env, commentKey(comment.ID))
	})

	t.Run("rename reaches comments on other users' posts", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.mustCreateUser(t, "alice")
		bob := env.mustCreateUser(t, "bob")
		bobPost := env.mustCreatePost(t, "bobs", bob.ID)
		aliceComment := env.mustCreateComment(t, "hi", bobPost.ID, alice.ID)

		if _, err := env.svc.Posts.GetSingle(ctx, bobPost.ID); err != nil {
			t.Fatal(err)
		}
		if _, err := env.svc.Posts.GetWithComments(ctx, bobPost.ID); err != nil {
			t.Fatal(err)
		}
		if _, err := env.svc.Comments.GetSingle(ctx, aliceComment.ID); err != nil {
			t.Fatal(err)
		}

		if _, err := env.svc.Users.Update(ctx, alice.ID, model.UpdateUser{Username: "renamed"}); err != nil {
			t.Fatal(err)
		}

		// Alice's comment embeds her name, as does the comment list of
		// bob's post. The post itself only embeds bob's name and survives.
		assertMiss(t, env, commentKey(aliceComment.ID))
		assertMiss(t, env, postCommentsKey(bobPost.ID))
		assertHit(t, env, postKey(bobPost.ID))

		view, err := env.svc.Posts.GetWithComments(ctx, bobPost.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(view.Comments) != 1 || view.Comments[0].Author == nil || view.Comments[0].Author.Username != "renamed" {
			t.Errorf("comment list still embeds the old author name: %+v", view.Comments)
		}
	})

	t.Run("case-only rename refreshes cached author names", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.mustCreateUser(t, "alice")
		post := env.mustCreatePost(t, "t", alice.ID)

		if _, err := env.svc.Posts.GetSingle(ctx, post.ID); err != nil {
			t.Fatal(err)
		}

		if _, err := env.svc.Users.Update(ctx, alice.ID, model.UpdateUser{Username: "Alice"}); err != nil {
			t.Fatalf("case-only rename failed: %v", err)
		}
		assertMiss(t, env, postKey(post.ID))

		got, err := env.svc.Posts.GetSingle(ctx, post.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.Author == nil || got.Author.Username != "Alice" {
			t.Errorf("cached author kept the old casing: %+v", got.Author)
		}
	})

	t.Run("delete", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.mustCreateUser(t, "alice")
		post := env.mustCreatePost(t, "t", alice.ID)
		comment := env.mustCreateComment(t, "hi", post.ID, alice.ID)
		primeAll(t, env, alice.ID, post.ID, comment.ID)

		if err := env.svc.Users.Delete(ctx, alice.ID); err != nil {
			t.Fatal(err)
		}
		for _, key := range []string{
			userKey(alice.ID), usersAllKey(),
			postKey(post.ID), postsAllKey(), postCommentsKey(post.ID),
			commentKey(comment.ID), commentsAllKey(),
		} {
			assertMiss(t, env, key)
		}
	})
}

func TestInvalidationOnPostMutations(t *testing.T) {
	ctx := context.Background()

	t.Run("create", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.mustCreateUser(t, "alice")
		if _, err := env.svc.Posts.List(ctx, PostFilter{}); err != nil {
			t.Fatal(err)
		}

		env.mustCreatePost(t, "t", alice.ID)
		assertMiss(t, env, postsAllKey())
	})

	t.Run("update", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.mustCreateUser(t, "alice")
		post := env.mustCreatePost(t, "t", alice.ID)
		comment := env.mustCreateComment(t, "hi", post.ID, alice.ID)
		primeAll(t, env, alice.ID, post.ID, comment.ID)

		if _, err := env.svc.Posts.Update(ctx, post.ID, model.UpdatePost{Title: "t2", Body: "b2"}); err != nil {
			t.Fatal(err)
		}
		assertMiss(t, env, postKey(post.ID))
		assertMiss(t, env, postsAllKey())
		assertMiss(t, env, postCommentsKey(post.ID))
		// The user's keys are untouched by a post mutation.
		assertHit(t, env, userKey(alice.ID))
	})

	t.Run("delete", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.mustCreateUser(t, "alice")
		post := env.mustCreatePost(t, "t", alice.ID)
		comment := env.mustCreateComment(t, "hi", post.ID, alice.ID)
		primeAll(t, env, alice.ID, post.ID, comment.ID)

		if err := env.svc.Posts.Delete(ctx, post.ID); err != nil {
			t.Fatal(err)
		}
		assertMiss(t, env, postKey(post.ID))
		assertMiss(t, env, postsAllKey())
		assertMiss(t, env, postCommentsKey(post.ID))
		assertMiss(t, env, commentKey(comment.ID))
		assertMiss(t, env, commentsAllKey())
	})
}

func TestInvalidationOnCommentMutations(t *testing.T) {
	ctx := context.Background()

	t.Run("create", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.mustCreateUser(t, "alice")
		post := env.mustCreatePost(t, "t", alice.ID)
		first := env.mustCreateComment(t, "first", post.ID, alice.ID)
		primeAll(t, env, alice.ID, post.ID, first.ID)

		env.mustCreateComment(t, "second", post.ID, alice.ID)
		assertMiss(t, env, commentsAllKey())
		assertMiss(t, env, postCommentsKey(post.ID))
		// The sibling comment's own key is unaffected.
		assertHit(t, env, commentKey(first.ID))
	})

	t.Run("update", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.mustCreateUser(t, "alice")
		post := env.mustCreatePost(t, "t", alice.ID)
		comment := env.mustCreateComment(t, "hi", post.ID, alice.ID)
		primeAll(t, env, alice.ID, post.ID, comment.ID)

		if _, err := env.svc.Comments.Update(ctx, comment.ID, model.UpdateComment{Body: "edited"}); err != nil {
			t.Fatal(err)
		}
		assertMiss(t, env, commentKey(comment.ID))
		assertMiss(t, env, commentsAllKey())
		assertMiss(t, env, postCommentsKey(post.ID))
		// The post's own single-entity key does not embed comments.
		assertHit(t, env, postKey(post.ID))
	})

	t.Run("stale read recomputes from repository", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.mustCreateUser(t, "alice")
		post := env.mustCreatePost(t, "t", alice.ID)
		comment := env.mustCreateComment(t, "hi", post.ID, alice.ID)

		if _, err := env.svc.Posts.GetWithComments(ctx, post.ID); err != nil {
			t.Fatal(err)
		}
		if _, err := env.svc.Comments.Update(ctx, comment.ID, model.UpdateComment{Body: "edited"}); err != nil {
			t.Fatal(err)
		}

		view, err := env.svc.Posts.GetWithComments(ctx, post.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(view.Comments) != 1 || view.Comments[0].Body != "edited" {
			t.Errorf("read after invalidation returned stale data: %+v", view.Comments)
		}
	})
}
