package logging

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// HTTPMiddleware is an HTTP middleware that logs request and response details.
// It generates a request ID if the caller didn't supply one and logs:
// - Request start (method, path, request_id)
// - Request end (method, path, status, duration, request_id)
func HTTPMiddleware(logger *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.NewString()
			}

			ctx := WithRequestID(r.Context(), requestID)
			ctx = WithLogger(ctx, logger)
			r = r.WithContext(ctx)

			logger.Info().
				Str(RequestID, requestID).
				Str(Method, r.Method).
				Str(Path, r.URL.Path).
				Str("remote_addr", r.RemoteAddr).
				Msg("request started")

			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Milliseconds()
			logEvent := logger.Info()

			// Use Error level for 5xx errors
			if wrapped.statusCode >= 500 {
				logEvent = logger.Error()
			}

			logEvent.
				Str(RequestID, requestID).
				Str(Method, r.Method).
				Str(Path, r.URL.Path).
				Int(StatusCode, wrapped.statusCode).
				Int64(Duration, duration).
				Msg("request completed")
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}
