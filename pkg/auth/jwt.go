package auth

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/studhub/forum/pkg/config"
	"github.com/studhub/forum/pkg/errors"
	"github.com/studhub/forum/pkg/model"
)

// Issuer signs and validates HS256 tokens with a shared secret.
type Issuer struct {
	secret   []byte
	issuer   string
	tokenTTL time.Duration

	// now is injectable for expiry tests.
	now func() time.Time
}

// NewIssuer creates an Issuer from the auth configuration.
func NewIssuer(cfg config.AuthConfig) *Issuer {
	return &Issuer{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		tokenTTL: cfg.TokenTTL,
		now:      time.Now,
	}
}

// Issue creates a signed token for user carrying the user id as subject and
// the username as a custom claim.
func (i *Issuer) Issue(user model.User) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatInt(user.ID, 10),
		"username": user.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(i.tokenTTL).Unix(),
	}
	if i.issuer != "" {
		claims["iss"] = i.issuer
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify validates a token string and returns the identity it carries.
func (i *Issuer) Verify(tokenString string) (*AuthContext, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil {
		return nil, errors.NewUnauthorizedWithCause("invalid token", err)
	}
	if !token.Valid {
		return nil, errors.NewUnauthorized("token is not valid")
	}

	if i.issuer != "" {
		iss, _ := claims["iss"].(string)
		if iss != i.issuer {
			return nil, errors.NewUnauthorized("invalid token issuer")
		}
	}

	sub, _ := claims["sub"].(string)
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return nil, errors.NewUnauthorized("token subject is not a user id")
	}
	username, _ := claims["username"].(string)

	return &AuthContext{
		UserID:   userID,
		Username: username,
		Claims:   claims,
	}, nil
}

// Middleware validates the Authorization header and injects the resulting
// AuthContext into the request context. Requests without a valid bearer
// token get 401.
func Middleware(issuer *Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				errors.WriteHTTPError(w, errors.NewUnauthorized("missing Authorization header"))
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				errors.WriteHTTPError(w, errors.NewUnauthorized("invalid Authorization header format, expected 'Bearer {token}'"))
				return
			}

			ac, err := issuer.Verify(parts[1])
			if err != nil {
				errors.WriteHTTPError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(setAuthContext(r.Context(), ac)))
		})
	}
}
