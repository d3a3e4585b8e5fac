package forum

import (
	"context"
	"testing"

	"github.com/studhub/forum/pkg/errors"
)

func TestCascadeDeletePost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.mustCreateUser(t, "alice")
	bob := env.mustCreateUser(t, "bob")
	post := env.mustCreatePost(t, "t", alice.ID)
	other := env.mustCreatePost(t, "other", bob.ID)
	c1 := env.mustCreateComment(t, "on target", post.ID, bob.ID)
	c2 := env.mustCreateComment(t, "elsewhere", other.ID, bob.ID)

	if err := env.svc.Posts.Delete(ctx, post.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := env.repos.Posts.GetSingle(ctx, post.ID); !errors.IsNotFound(err) {
		t.Errorf("post survived deletion: %v", err)
	}
	if _, err := env.repos.Comments.GetSingle(ctx, c1.ID); !errors.IsNotFound(err) {
		t.Errorf("comment on deleted post survived: %v", err)
	}
	if _, err := env.repos.Comments.GetSingle(ctx, c2.ID); err != nil {
		t.Errorf("unrelated comment was deleted: %v", err)
	}
	if _, err := env.repos.Posts.GetSingle(ctx, other.ID); err != nil {
		t.Errorf("unrelated post was deleted: %v", err)
	}
}

func TestCascadeDeleteUserCompleteness(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.mustCreateUser(t, "alice")
	bob := env.mustCreateUser(t, "bob")

	// Alice owns two posts; bob comments on one of them. Alice also
	// comments on bob's post.
	p1 := env.mustCreatePost(t, "alice p1", alice.ID)
	p2 := env.mustCreatePost(t, "alice p2", alice.ID)
	bobPost := env.mustCreatePost(t, "bob post", bob.ID)
	env.mustCreateComment(t, "bob on alice", p1.ID, bob.ID)
	env.mustCreateComment(t, "alice on own", p2.ID, alice.ID)
	aliceElsewhere := env.mustCreateComment(t, "alice on bob", bobPost.ID, alice.ID)
	bobOnOwn := env.mustCreateComment(t, "bob on own", bobPost.ID, bob.ID)

	if err := env.svc.Users.Delete(ctx, alice.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := env.repos.Users.GetSingle(ctx, alice.ID); !errors.IsNotFound(err) {
		t.Errorf("user survived deletion: %v", err)
	}

	posts, _ := env.repos.Posts.GetMany(ctx)
	for _, p := range posts {
		if p.UserID == alice.ID {
			t.Errorf("post %d authored by deleted user survived", p.ID)
		}
	}
	if len(posts) != 1 || posts[0].ID != bobPost.ID {
		t.Errorf("remaining posts = %+v, want only bob's", posts)
	}

	comments, _ := env.repos.Comments.GetMany(ctx)
	for _, c := range comments {
		if c.UserID == alice.ID {
			t.Errorf("comment %d authored by deleted user survived", c.ID)
		}
		if c.PostID == p1.ID || c.PostID == p2.ID {
			t.Errorf("comment %d on deleted post survived", c.ID)
		}
	}
	if len(comments) != 1 || comments[0].ID != bobOnOwn.ID {
		t.Errorf("remaining comments = %+v, want only bob's on his own post", comments)
	}
	_ = aliceElsewhere
}

func TestCascadeDeleteAbsentEntities(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.svc.Posts.Delete(ctx, 1); !errors.IsNotFound(err) {
		t.Errorf("expected NotFound deleting absent post, got %v", err)
	}
	if err := env.svc.Users.Delete(ctx, 1); !errors.IsNotFound(err) {
		t.Errorf("expected NotFound deleting absent user, got %v", err)
	}
}

func TestEndToEndScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.mustCreateUser(t, "alice")
	if user.ID != 1 {
		t.Fatalf("user id = %d, want 1", user.ID)
	}

	post := env.mustCreatePost(t, "t", user.ID)
	if post.ID != 1 {
		t.Fatalf("post id = %d, want 1", post.ID)
	}

	comment := env.mustCreateComment(t, "hi", post.ID, user.ID)
	if comment.ID != 1 {
		t.Fatalf("comment id = %d, want 1", comment.ID)
	}

	if err := env.svc.Users.Delete(ctx, user.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := env.svc.Posts.GetSingle(ctx, post.ID); !errors.IsNotFound(err) {
		t.Errorf("post lookup after cascade: expected NotFound, got %v", err)
	}
	if _, err := env.svc.Comments.GetSingle(ctx, comment.ID); !errors.IsNotFound(err) {
		t.Errorf("comment lookup after cascade: expected NotFound, got %v", err)
	}
}
