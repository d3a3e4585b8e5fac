// Package api maps the REST surface onto the entity services. Routing uses
// net/http method patterns; every response body is JSON. Errors surface
// through the shared error-to-status mapping, so a NotFound from three
// layers down still answers 404.
package api

import (
	"net/http"

	"github.com/studhub/forum/pkg/auth"
	"github.com/studhub/forum/pkg/config"
	"github.com/studhub/forum/pkg/errors"
	"github.com/studhub/forum/pkg/forum"
	"github.com/studhub/forum/pkg/health"
	"github.com/studhub/forum/pkg/logging"
	"github.com/studhub/forum/pkg/metrics"
)

// Server holds the handler dependencies.
type Server struct {
	svc     *forum.Services
	issuer  *auth.Issuer
	authCfg config.AuthConfig
	health  *health.Health
	log     *logging.Logger
}

// NewServer creates a Server over the wired services.
func NewServer(svc *forum.Services, issuer *auth.Issuer, authCfg config.AuthConfig, h *health.Health, log *logging.Logger) *Server {
	return &Server{
		svc:     svc,
		issuer:  issuer,
		authCfg: authCfg,
		health:  h,
		log:     log.WithComponent("api"),
	}
}

// Handler builds the full route table wrapped in the middleware chain:
// recovery, then request metrics, then request logging. Mutating entity
// routes additionally require a bearer token when auth is enabled; reads,
// login, and health probes stay open.
func (s *Server) Handler(metricsNamespace string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", s.handleLogin)

	// Signup stays open even with auth enabled; login needs an account first.
	mux.HandleFunc("POST /users", s.handleCreateUser)
	mux.HandleFunc("GET /users", s.handleListUsers)
	mux.HandleFunc("GET /users/{id}", s.handleGetUser)
	mux.Handle("PUT /users/{id}/update", s.protected(s.handleUpdateUser))
	mux.Handle("DELETE /users/{id}", s.protected(s.handleDeleteUser))

	mux.HandleFunc("GET /posts", s.handleListPosts)
	mux.HandleFunc("GET /posts/{id}", s.handleGetPost)
	mux.Handle("POST /posts", s.protected(s.handleCreatePost))
	mux.Handle("PUT /posts/{id}/update", s.protected(s.handleUpdatePost))
	mux.Handle("DELETE /posts/{id}", s.protected(s.handleDeletePost))

	mux.HandleFunc("GET /comments", s.handleListComments)
	mux.HandleFunc("GET /comments/{id}", s.handleGetComment)
	mux.Handle("POST /comments", s.protected(s.handleCreateComment))
	mux.Handle("PUT /comments/{id}/update", s.protected(s.handleUpdateComment))
	mux.Handle("DELETE /comments/{id}", s.protected(s.handleDeleteComment))

	mux.HandleFunc("GET /health/live", s.health.LivenessHandler())
	mux.HandleFunc("GET /health/ready", s.health.ReadinessHandler())

	var handler http.Handler = mux
	handler = logging.HTTPMiddleware(s.log)(handler)
	handler = metrics.HTTPMiddleware(metricsNamespace)(handler)
	handler = errors.RecoveryMiddleware(nil)(handler)
	return handler
}

// protected wraps a handler with bearer-token enforcement when auth is
// enabled.
func (s *Server) protected(h http.HandlerFunc) http.Handler {
	if !s.authCfg.Enabled {
		return h
	}
	return auth.Middleware(s.issuer)(h)
}
