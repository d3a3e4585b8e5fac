package forum

import (
	"github.com/studhub/forum/pkg/auth"
	"github.com/studhub/forum/pkg/cache"
	"github.com/studhub/forum/pkg/config"
	"github.com/studhub/forum/pkg/logging"
	"github.com/studhub/forum/pkg/repository"
)

// Services bundles the fully wired entity services.
type Services struct {
	Users    *UserService
	Posts    *PostService
	Comments *CommentService
	Auth     *AuthService
	Cascade  *Cascade
}

// NewServices wires the services, cascade coordinator, and login flow over
// one repository backend and one shared cache store.
func NewServices(
	repos *repository.Repositories,
	store cache.Store,
	cacheCfg config.CacheConfig,
	issuer *auth.Issuer,
	log *logging.Logger,
) *Services {
	comments := NewCommentService(repos.Comments, repos.Posts, repos.Users, store, cacheCfg, log)
	cascade := NewCascade(repos.Users, repos.Posts, repos.Comments, comments, store, log)

	return &Services{
		Users:    NewUserService(repos.Users, repos.Posts, repos.Comments, store, cacheCfg, cascade, log),
		Posts:    NewPostService(repos.Posts, repos.Users, repos.Comments, store, cacheCfg, cascade, log),
		Comments: comments,
		Auth:     NewAuthService(repos.Users, issuer, log),
		Cascade:  cascade,
	}
}
