// Package auth issues and validates the bearer tokens returned by login.
// Tokens are HMAC-signed JWTs carrying the user id and username; the service
// is both issuer and consumer, so a single shared secret covers both sides.
//
// Example usage:
//
//	issuer := auth.NewIssuer(cfg.Auth)
//	token, _ := issuer.Issue(user)
//
//	mux.Handle("/posts/", auth.Middleware(issuer)(handler))
package auth

import (
	"context"

	"github.com/studhub/forum/pkg/errors"
)

// AuthContext carries the authenticated identity extracted from a bearer
// token. It is stored in context.Context by Middleware.
type AuthContext struct {
	// UserID is the authenticated user's id.
	UserID int64

	// Username is the authenticated user's username.
	Username string

	// Claims holds all claims from the validated token.
	Claims map[string]interface{}
}

// contextKey is a private type for context keys to avoid collisions.
type contextKey int

const authContextKey contextKey = iota

// GetAuthContext retrieves the AuthContext from ctx.
// Returns Unauthorized if the request was not authenticated.
func GetAuthContext(ctx context.Context) (*AuthContext, error) {
	ac, ok := ctx.Value(authContextKey).(*AuthContext)
	if !ok || ac == nil {
		return nil, errors.NewUnauthorized("no authentication context found")
	}
	return ac, nil
}

// setAuthContext stores the AuthContext in ctx. Used by Middleware.
func setAuthContext(ctx context.Context, ac *AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey, ac)
}
