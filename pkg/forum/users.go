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

// User sort keys accepted by UserFilter.SortBy.
const (
	SortUsersByUsername = "username"
	SortUsersByIDAsc    = "id_asc"
	SortUsersByIDDesc   = "id_desc"
)

// UserFilter narrows and orders the user list. Zero values mean "no filter".
type UserFilter struct {
	// StartsWith keeps users whose username has this prefix, case-insensitive.
	StartsWith string

	// SortBy is one of the SortUsersBy constants. Empty keeps storage order.
	SortBy string
}

// UserService owns user validation, persistence, and the users:* cache keys.
type UserService struct {
	users    repository.UserRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
	store    cache.Store
	inv      invalidator
	policy   cachePolicy
	cascade  *Cascade
	log      *logging.Logger
}

// NewUserService creates a UserService. The post and comment repositories are
// needed to invalidate denormalized author snapshots when a username changes.
func NewUserService(
	users repository.UserRepository,
	posts repository.PostRepository,
	comments repository.CommentRepository,
	store cache.Store,
	cacheCfg config.CacheConfig,
	cascade *Cascade,
	log *logging.Logger,
) *UserService {
	return &UserService{
		users:    users,
		posts:    posts,
		comments: comments,
		store:    store,
		inv:      invalidator{store: store},
		policy:   cachePolicy{cfg: cacheCfg},
		cascade:  cascade,
		log:      log.WithComponent("forum.users"),
	}
}

// Create registers a new user. The username must be non-blank and unique
// across all users, compared case-insensitively.
func (s *UserService) Create(ctx context.Context, input model.CreateUser) (model.UserSummary, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return model.UserSummary{}, errors.NewInvalidInput("username", "username must not be empty")
	}
	if strings.TrimSpace(input.Password) == "" {
		return model.UserSummary{}, errors.NewInvalidInput("password", "password must not be empty")
	}

	if err := s.checkUsernameFree(ctx, username); err != nil {
		return model.UserSummary{}, err
	}

	user, err := s.users.Add(ctx, model.User{Username: username, Password: input.Password})
	if err != nil {
		return model.UserSummary{}, err
	}

	s.inv.user(ctx, user.ID)
	s.log.Info().Int64(logging.UserID, user.ID).Msg("user created")

	return *user.Summary(), nil
}

// Update changes the username and, when non-blank, the password.
// A username change invalidates every cached shape embedding the old name.
func (s *UserService) Update(ctx context.Context, id int64, input model.UpdateUser) (model.UserSummary, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return model.UserSummary{}, errors.NewInvalidInput("username", "username must not be empty")
	}

	user, err := s.users.GetSingle(ctx, id)
	if err != nil {
		return model.UserSummary{}, err
	}

	// Any byte-level change counts as a rename so cached author snapshots
	// get refreshed, but only a fold-level change can collide with another
	// user. A case-only rename would otherwise find the user itself.
	renamed := user.Username != username
	if renamed && !strings.EqualFold(user.Username, username) {
		if err := s.checkUsernameFree(ctx, username); err != nil {
			return model.UserSummary{}, err
		}
	}

	user.Username = username
	if password := input.Password; password != "" {
		user.Password = password
	}

	if err := s.users.Update(ctx, user); err != nil {
		return model.UserSummary{}, err
	}

	s.inv.user(ctx, user.ID)
	if renamed {
		s.invalidateAuthoredShapes(ctx, user.ID)
	}
	s.log.Info().Int64(logging.UserID, user.ID).Msg("user updated")

	return *user.Summary(), nil
}

// Delete removes the user and cascades to their posts, the comments on
// those posts, and the user's comments elsewhere.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.cascade.DeleteUser(ctx, id)
}

// List returns all users, filtered and ordered per filter. The unfiltered
// collection is cached under users:all; filtering never touches the cache key.
func (s *UserService) List(ctx context.Context, filter UserFilter) ([]model.UserSummary, error) {
	cached, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	// Copy before filtering/sorting; the cached slice is shared state.
	users := append([]model.User(nil), cached...)

	if prefix := strings.TrimSpace(filter.StartsWith); prefix != "" {
		filtered := users[:0:0]
		for _, u := range users {
			if hasPrefixFold(u.Username, prefix) {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}

	switch filter.SortBy {
	case SortUsersByUsername:
		sort.SliceStable(users, func(i, j int) bool {
			return strings.ToLower(users[i].Username) < strings.ToLower(users[j].Username)
		})
	case SortUsersByIDAsc:
		sort.SliceStable(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	case SortUsersByIDDesc:
		sort.SliceStable(users, func(i, j int) bool { return users[i].ID > users[j].ID })
	}

	summaries := make([]model.UserSummary, len(users))
	for i, u := range users {
		summaries[i] = *u.Summary()
	}
	return summaries, nil
}

// GetSingle returns one user by id, served from users:{id} when cached.
func (s *UserService) GetSingle(ctx context.Context, id int64) (model.UserSummary, error) {
	if v, ok := s.store.TryGet(ctx, userKey(id)); ok {
		if summary, ok := v.(*model.UserSummary); ok {
			return *summary, nil
		}
	}

	user, err := s.users.GetSingle(ctx, id)
	if err != nil {
		return model.UserSummary{}, err
	}

	summary := user.Summary()
	s.store.Set(ctx, userKey(id), summary, s.policy.entry())
	return *summary, nil
}

// loadAll serves the unfiltered user collection from users:all, loading and
// caching it on a miss.
func (s *UserService) loadAll(ctx context.Context) ([]model.User, error) {
	if v, ok := s.store.TryGet(ctx, usersAllKey()); ok {
		if users, ok := v.([]model.User); ok {
			return users, nil
		}
	}

	users, err := s.users.GetMany(ctx)
	if err != nil {
		return nil, err
	}

	s.store.Set(ctx, usersAllKey(), users, s.policy.list())
	return users, nil
}

// checkUsernameFree returns Conflict when another user already holds the
// username, compared case-insensitively.
func (s *UserService) checkUsernameFree(ctx context.Context, username string) error {
	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return errors.NewConflict("user", username)
	}
	if !errors.IsNotFound(err) {
		return err
	}
	return nil
}

// invalidateAuthoredShapes drops every cached shape that embeds the user's
// denormalized author summary: the post and comment collections, each of the
// user's own posts, each of the user's comments, and the comment lists of
// every post the user commented on, whoever authored it.
func (s *UserService) invalidateAuthoredShapes(ctx context.Context, userID int64) {
	s.store.Remove(ctx, postsAllKey())
	s.store.Remove(ctx, commentsAllKey())

	posts, err := s.posts.GetMany(ctx)
	if err != nil {
		// The collection keys are already gone; the per-post keys age out
		// via their TTLs.
		s.log.Warn().Err(err).Msg("could not enumerate posts for author invalidation")
	} else {
		for _, p := range posts {
			if p.UserID == userID {
				s.store.Remove(ctx, postKey(p.ID))
				s.store.Remove(ctx, postCommentsKey(p.ID))
			}
		}
	}

	comments, err := s.comments.GetMany(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("could not enumerate comments for author invalidation")
		return
	}
	for _, c := range comments {
		if c.UserID == userID {
			s.store.Remove(ctx, commentKey(c.ID))
			s.store.Remove(ctx, postCommentsKey(c.PostID))
		}
	}
}

// hasPrefixFold reports whether s begins with prefix, case-insensitively.
func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
