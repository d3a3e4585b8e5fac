package forum

import (
	"context"
	"sort"
	"strings"

	"github.com/studhub/forum/pkg/cache"
	"github.com/studhub/forum/pkg/config"
	"github.com/studhub/forum/pkg/errors"
	"github.com/studhub/forum/pkg/logging"
	"github.com/studhub/forum/pkg/model"
	"github.com/studhub/forum/pkg/repository"
)

// Comment sort keys accepted by CommentFilter.SortBy.
const (
	SortCommentsByUserIDAsc  = "userid_asc"
	SortCommentsByUserIDDesc = "userid_desc"
	SortCommentsByPostIDAsc  = "postid_asc"
	SortCommentsByPostIDDesc = "postid_desc"
)

// CommentFilter narrows and orders the comment list. Zero values mean
// "no filter".
type CommentFilter struct {
	// UserID keeps comments authored by this user.
	UserID *int64

	// PostID keeps comments on this post.
	PostID *int64

	// AuthorName keeps comments whose author's username contains this
	// substring, case-insensitive.
	AuthorName string

	// SortBy is one of the SortCommentsBy constants. Empty keeps storage order.
	SortBy string
}

// CommentService owns comment validation, persistence, enrichment, and the
// comments:* cache keys. Mutations also drop the owning post's
// embedded-comments shape.
type CommentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
	users    repository.UserRepository
	store    cache.Store
	inv      invalidator
	policy   cachePolicy
	log      *logging.Logger
}

// NewCommentService creates a CommentService. The post and user repositories
// back referential checks at creation and author enrichment.
func NewCommentService(
	comments repository.CommentRepository,
	posts repository.PostRepository,
	users repository.UserRepository,
	store cache.Store,
	cacheCfg config.CacheConfig,
	log *logging.Logger,
) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
		users:    users,
		store:    store,
		inv:      invalidator{store: store},
		policy:   cachePolicy{cfg: cacheCfg},
		log:      log.WithComponent("forum.comments"),
	}
}

// Create persists a new comment. The body must be non-blank and both the
// post and the author must exist; nothing is written when either check fails.
func (s *CommentService) Create(ctx context.Context, input model.CreateComment) (model.CommentView, error) {
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return model.CommentView{}, errors.NewInvalidInput("body", "body must not be empty")
	}

	if _, err := s.posts.GetSingle(ctx, input.PostID); err != nil {
		return model.CommentView{}, err
	}
	author, err := s.users.GetSingle(ctx, input.UserID)
	if err != nil {
		return model.CommentView{}, err
	}

	comment, err := s.comments.Add(ctx, model.Comment{
		Body:   body,
		PostID: input.PostID,
		UserID: input.UserID,
	})
	if err != nil {
		return model.CommentView{}, err
	}

	s.inv.comment(ctx, comment.ID, comment.PostID)
	s.log.Info().
		Int64("comment_id", comment.ID).
		Int64("post_id", comment.PostID).
		Int64(logging.UserID, comment.UserID).
		Msg("comment created")

	return commentView(comment, author.Summary()), nil
}

// Update changes the body. The post and author references are immutable and
// are not re-validated.
func (s *CommentService) Update(ctx context.Context, id int64, input model.UpdateComment) (model.CommentView, error) {
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return model.CommentView{}, errors.NewInvalidInput("body", "body must not be empty")
	}

	comment, err := s.comments.GetSingle(ctx, id)
	if err != nil {
		return model.CommentView{}, err
	}

	comment.Body = body
	if err := s.comments.Update(ctx, comment); err != nil {
		return model.CommentView{}, err
	}

	s.inv.comment(ctx, comment.ID, comment.PostID)
	s.log.Info().Int64("comment_id", comment.ID).Msg("comment updated")

	return commentView(comment, s.authorSummary(ctx, comment.UserID)), nil
}

// Delete removes the comment and drops its cache keys, including the owning
// post's embedded-comments shape.
func (s *CommentService) Delete(ctx context.Context, id int64) error {
	comment, err := s.comments.GetSingle(ctx, id)
	if err != nil {
		return err
	}

	if err := s.comments.Delete(ctx, id); err != nil {
		return err
	}

	s.inv.comment(ctx, comment.ID, comment.PostID)
	s.log.Info().Int64("comment_id", comment.ID).Msg("comment deleted")
	return nil
}

// List returns all comments, filtered and ordered per filter and enriched
// with author summaries. The unfiltered collection is cached under
// comments:all.
func (s *CommentService) List(ctx context.Context, filter CommentFilter) ([]model.CommentView, error) {
	cached, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	authors, err := s.authorIndex(ctx)
	if err != nil {
		return nil, err
	}

	comments := make([]model.Comment, 0, len(cached))
	for _, c := range cached {
		if matchComment(c, authors[c.UserID], filter) {
			comments = append(comments, c)
		}
	}

	switch filter.SortBy {
	case SortCommentsByUserIDAsc:
		sort.SliceStable(comments, func(i, j int) bool { return comments[i].UserID < comments[j].UserID })
	case SortCommentsByUserIDDesc:
		sort.SliceStable(comments, func(i, j int) bool { return comments[i].UserID > comments[j].UserID })
	case SortCommentsByPostIDAsc:
		sort.SliceStable(comments, func(i, j int) bool { return comments[i].PostID < comments[j].PostID })
	case SortCommentsByPostIDDesc:
		sort.SliceStable(comments, func(i, j int) bool { return comments[i].PostID > comments[j].PostID })
	}

	views := make([]model.CommentView, len(comments))
	for i, c := range comments {
		views[i] = commentView(c, authors[c.UserID])
	}
	return views, nil
}

// GetSingle returns one comment by id, served from comments:{id} when cached.
func (s *CommentService) GetSingle(ctx context.Context, id int64) (model.CommentView, error) {
	if v, ok := s.store.TryGet(ctx, commentKey(id)); ok {
		if view, ok := v.(*model.CommentView); ok {
			return *view, nil
		}
	}

	comment, err := s.comments.GetSingle(ctx, id)
	if err != nil {
		return model.CommentView{}, err
	}

	view := commentView(comment, s.authorSummary(ctx, comment.UserID))
	s.store.Set(ctx, commentKey(id), &view, s.policy.entry())
	return view, nil
}

// loadAll serves the unfiltered comment collection from comments:all,
// loading and caching it on a miss.
func (s *CommentService) loadAll(ctx context.Context) ([]model.Comment, error) {
	if v, ok := s.store.TryGet(ctx, commentsAllKey()); ok {
		if comments, ok := v.([]model.Comment); ok {
			return comments, nil
		}
	}

	comments, err := s.comments.GetMany(ctx)
	if err != nil {
		return nil, err
	}

	s.store.Set(ctx, commentsAllKey(), comments, s.policy.list())
	return comments, nil
}

func (s *CommentService) authorIndex(ctx context.Context) (map[int64]*model.UserSummary, error) {
	users, err := s.users.GetMany(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[int64]*model.UserSummary, len(users))
	for _, u := range users {
		index[u.ID] = u.Summary()
	}
	return index, nil
}

func (s *CommentService) authorSummary(ctx context.Context, userID int64) *model.UserSummary {
	user, err := s.users.GetSingle(ctx, userID)
	if err != nil {
		return nil
	}
	return user.Summary()
}

func commentView(c model.Comment, author *model.UserSummary) model.CommentView {
	return model.CommentView{
		ID:     c.ID,
		Body:   c.Body,
		PostID: c.PostID,
		UserID: c.UserID,
		Author: author,
	}
}

func matchComment(c model.Comment, author *model.UserSummary, filter CommentFilter) bool {
	if filter.UserID != nil && c.UserID != *filter.UserID {
		return false
	}
	if filter.PostID != nil && c.PostID != *filter.PostID {
		return false
	}
	if name := strings.TrimSpace(filter.AuthorName); name != "" {
		if author == nil || !containsFold(author.Username, name) {
			return false
		}
	}
	return true
}
