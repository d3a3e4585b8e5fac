package forum

import (
	"context"
	"strings"

	"github.com/studhub/forum/pkg/cache"
	"github.com/studhub/forum/pkg/config"
	"github.com/studhub/forum/pkg/errors"
	"github.com/studhub/forum/pkg/logging"
	"github.com/studhub/forum/pkg/model"
	"github.com/studhub/forum/pkg/repository"
)

// PostFilter narrows the post list. Zero values mean "no filter".
type PostFilter struct {
	// Title keeps posts whose title contains this substring, case-insensitive.
	Title string

	// UserID keeps posts authored by this user.
	UserID *int64

	// AuthorName keeps posts whose author's username contains this
	// substring, case-insensitive.
	AuthorName string
}

// PostService owns post validation, persistence, enrichment, and the
// posts:* cache keys.
type PostService struct {
	posts    repository.PostRepository
	users    repository.UserRepository
	comments repository.CommentRepository
	store    cache.Store
	inv      invalidator
	policy   cachePolicy
	cascade  *Cascade
	log      *logging.Logger
}

// NewPostService creates a PostService. The user repository backs author
// enrichment; the comment repository backs the embedded-comments read shape.
func NewPostService(
	posts repository.PostRepository,
	users repository.UserRepository,
	comments repository.CommentRepository,
	store cache.Store,
	cacheCfg config.CacheConfig,
	cascade *Cascade,
	log *logging.Logger,
) *PostService {
	return &PostService{
		posts:    posts,
		users:    users,
		comments: comments,
		store:    store,
		inv:      invalidator{store: store},
		policy:   cachePolicy{cfg: cacheCfg},
		cascade:  cascade,
		log:      log.WithComponent("forum.posts"),
	}
}

// Create persists a new post. Title and body must be non-blank and the
// author must exist.
func (s *PostService) Create(ctx context.Context, input model.CreatePost) (model.PostView, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return model.PostView{}, errors.NewInvalidInput("title", "title must not be empty")
	}
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return model.PostView{}, errors.NewInvalidInput("body", "body must not be empty")
	}

	author, err := s.users.GetSingle(ctx, input.UserID)
	if err != nil {
		return model.PostView{}, err
	}

	post, err := s.posts.Add(ctx, model.Post{Title: title, Body: body, UserID: input.UserID})
	if err != nil {
		return model.PostView{}, err
	}

	s.inv.post(ctx, post.ID)
	s.log.Info().Int64("post_id", post.ID).Int64(logging.UserID, post.UserID).Msg("post created")

	return postView(post, author.Summary()), nil
}

// Update changes title and body. Authorship is immutable.
func (s *PostService) Update(ctx context.Context, id int64, input model.UpdatePost) (model.PostView, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return model.PostView{}, errors.NewInvalidInput("title", "title must not be empty")
	}
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return model.PostView{}, errors.NewInvalidInput("body", "body must not be empty")
	}

	post, err := s.posts.GetSingle(ctx, id)
	if err != nil {
		return model.PostView{}, err
	}

	post.Title = title
	post.Body = body
	if err := s.posts.Update(ctx, post); err != nil {
		return model.PostView{}, err
	}

	s.inv.post(ctx, post.ID)
	s.log.Info().Int64("post_id", post.ID).Msg("post updated")

	return postView(post, s.authorSummary(ctx, post.UserID)), nil
}

// Delete removes the post and every comment on it.
func (s *PostService) Delete(ctx context.Context, id int64) error {
	return s.cascade.DeletePost(ctx, id)
}

// List returns all posts, filtered per filter and enriched with author
// summaries. The unfiltered collection is cached under posts:all.
func (s *PostService) List(ctx context.Context, filter PostFilter) ([]model.PostView, error) {
	posts, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	authors, err := s.authorIndex(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]model.PostView, 0, len(posts))
	for _, p := range posts {
		author := authors[p.UserID]
		if !matchPost(p, author, filter) {
			continue
		}
		views = append(views, postView(p, author))
	}
	return views, nil
}

// GetSingle returns one post by id, served from posts:{id} when cached.
func (s *PostService) GetSingle(ctx context.Context, id int64) (model.PostView, error) {
	if v, ok := s.store.TryGet(ctx, postKey(id)); ok {
		if view, ok := v.(*model.PostView); ok {
			return *view, nil
		}
	}

	post, err := s.posts.GetSingle(ctx, id)
	if err != nil {
		return model.PostView{}, err
	}

	view := postView(post, s.authorSummary(ctx, post.UserID))
	s.store.Set(ctx, postKey(id), &view, s.policy.entry())
	return view, nil
}

// GetWithComments returns one post with its comments embedded, served from
// posts:{id}:comments when cached.
func (s *PostService) GetWithComments(ctx context.Context, id int64) (model.PostWithComments, error) {
	if v, ok := s.store.TryGet(ctx, postCommentsKey(id)); ok {
		if view, ok := v.(*model.PostWithComments); ok {
			return *view, nil
		}
	}

	post, err := s.posts.GetSingle(ctx, id)
	if err != nil {
		return model.PostWithComments{}, err
	}

	comments, err := s.comments.GetMany(ctx)
	if err != nil {
		return model.PostWithComments{}, err
	}

	authors, err := s.authorIndex(ctx)
	if err != nil {
		return model.PostWithComments{}, err
	}

	view := model.PostWithComments{
		PostView: postView(post, authors[post.UserID]),
		Comments: []model.CommentView{},
	}
	for _, c := range comments {
		if c.PostID == id {
			view.Comments = append(view.Comments, commentView(c, authors[c.UserID]))
		}
	}

	s.store.Set(ctx, postCommentsKey(id), &view, s.policy.entry())
	return view, nil
}

// loadAll serves the unfiltered post collection from posts:all, loading and
// caching it on a miss.
func (s *PostService) loadAll(ctx context.Context) ([]model.Post, error) {
	if v, ok := s.store.TryGet(ctx, postsAllKey()); ok {
		if posts, ok := v.([]model.Post); ok {
			return posts, nil
		}
	}

	posts, err := s.posts.GetMany(ctx)
	if err != nil {
		return nil, err
	}

	s.store.Set(ctx, postsAllKey(), posts, s.policy.list())
	return posts, nil
}

// authorIndex maps user ids to summaries for batch enrichment.
func (s *PostService) authorIndex(ctx context.Context) (map[int64]*model.UserSummary, error) {
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

// authorSummary resolves a single author, tolerating absence: a post whose
// author has disappeared still renders, just without the author block.
func (s *PostService) authorSummary(ctx context.Context, userID int64) *model.UserSummary {
	user, err := s.users.GetSingle(ctx, userID)
	if err != nil {
		return nil
	}
	return user.Summary()
}

func postView(p model.Post, author *model.UserSummary) model.PostView {
	return model.PostView{
		ID:     p.ID,
		Title:  p.Title,
		Body:   p.Body,
		UserID: p.UserID,
		Author: author,
	}
}

func matchPost(p model.Post, author *model.UserSummary, filter PostFilter) bool {
	if title := strings.TrimSpace(filter.Title); title != "" {
		if !containsFold(p.Title, title) {
			return false
		}
	}
	if filter.UserID != nil && p.UserID != *filter.UserID {
		return false
	}
	if name := strings.TrimSpace(filter.AuthorName); name != "" {
		if author == nil || !containsFold(author.Username, name) {
			return false
		}
	}
	return true
}

// containsFold reports whether s contains substr, case-insensitively.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
