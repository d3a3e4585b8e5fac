package forum

import (
	"context"

	"github.com/studhub/forum/pkg/cache"
	"github.com/studhub/forum/pkg/logging"
	"github.com/studhub/forum/pkg/repository"
)

// Cascade orchestrates multi-entity deletes: comments go before their post,
// posts before their user, so a concurrent reader never observes a parent
// outliving its children for longer than one deletion step.
//
// Dependent comments are deleted through the CommentService, not the raw
// repository, so every removal triggers its own cache invalidation. A
// failure mid-cascade aborts and propagates, leaving the entities deleted so
// far gone; there is no rollback.
type Cascade struct {
	users       repository.UserRepository
	posts       repository.PostRepository
	commentRepo repository.CommentRepository
	commentSvc  *CommentService
	inv         invalidator
	log         *logging.Logger
}

// NewCascade creates a Cascade over the given repositories and the comment
// service used for dependent-comment deletion.
func NewCascade(
	users repository.UserRepository,
	posts repository.PostRepository,
	commentRepo repository.CommentRepository,
	commentSvc *CommentService,
	store cache.Store,
	log *logging.Logger,
) *Cascade {
	return &Cascade{
		users:       users,
		posts:       posts,
		commentRepo: commentRepo,
		commentSvc:  commentSvc,
		inv:         invalidator{store: store},
		log:         log.WithComponent("forum.cascade"),
	}
}

// DeletePost removes every comment on the post, then the post itself.
func (c *Cascade) DeletePost(ctx context.Context, id int64) error {
	if _, err := c.posts.GetSingle(ctx, id); err != nil {
		return err
	}

	if err := c.deleteCommentsOnPost(ctx, id); err != nil {
		return err
	}

	if err := c.posts.Delete(ctx, id); err != nil {
		return err
	}

	c.inv.post(ctx, id)
	c.log.Info().Int64("post_id", id).Msg("post deleted")
	return nil
}

// DeleteUser removes the user's posts (each with its comments), then the
// user's remaining comments on other posts, then the user itself.
func (c *Cascade) DeleteUser(ctx context.Context, id int64) error {
	if _, err := c.users.GetSingle(ctx, id); err != nil {
		return err
	}

	posts, err := c.posts.GetMany(ctx)
	if err != nil {
		return err
	}
	for _, p := range posts {
		if p.UserID != id {
			continue
		}
		if err := c.DeletePost(ctx, p.ID); err != nil {
			return err
		}
	}

	if err := c.deleteCommentsByUser(ctx, id); err != nil {
		return err
	}

	if err := c.users.Delete(ctx, id); err != nil {
		return err
	}

	c.inv.user(ctx, id)
	c.log.Info().Int64(logging.UserID, id).Msg("user deleted")
	return nil
}

func (c *Cascade) deleteCommentsOnPost(ctx context.Context, postID int64) error {
	comments, err := c.commentRepo.GetMany(ctx)
	if err != nil {
		return err
	}
	for _, cm := range comments {
		if cm.PostID != postID {
			continue
		}
		if err := c.commentSvc.Delete(ctx, cm.ID); err != nil {
			return err
		}
	}
	return nil
}

func (c *Cascade) deleteCommentsByUser(ctx context.Context, userID int64) error {
	comments, err := c.commentRepo.GetMany(ctx)
	if err != nil {
		return err
	}
	for _, cm := range comments {
		if cm.UserID != userID {
			continue
		}
		if err := c.commentSvc.Delete(ctx, cm.ID); err != nil {
			return err
		}
	}
	return nil
}
