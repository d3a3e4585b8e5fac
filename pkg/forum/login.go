package forum

import (
	"context"

	"github.com/studhub/forum/pkg/auth"
	"github.com/studhub/forum/pkg/errors"
	"github.com/studhub/forum/pkg/logging"
	"github.com/studhub/forum/pkg/model"
	"github.com/studhub/forum/pkg/repository"
)

// AuthService authenticates credentials and issues bearer tokens.
type AuthService struct {
	users  repository.UserRepository
	issuer *auth.Issuer
	log    *logging.Logger
}

// NewAuthService creates an AuthService over the user repository.
func NewAuthService(users repository.UserRepository, issuer *auth.Issuer, log *logging.Logger) *AuthService {
	return &AuthService{
		users:  users,
		issuer: issuer,
		log:    log.WithComponent("forum.auth"),
	}
}

// Login authenticates a username/password pair and returns a signed token.
// The distinct "incorrect username" and "incorrect password" messages match
// the original client contract.
func (s *AuthService) Login(ctx context.Context, input model.Login) (model.LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.IsNotFound(err) {
			return model.LoginResult{}, errors.NewUnauthorized("incorrect username")
		}
		return model.LoginResult{}, err
	}

	if user.Password != input.Password {
		return model.LoginResult{}, errors.NewUnauthorized("incorrect password")
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return model.LoginResult{}, err
	}

	s.log.Info().Int64(logging.UserID, user.ID).Msg("user logged in")

	return model.LoginResult{User: *user.Summary(), Token: token}, nil
}
