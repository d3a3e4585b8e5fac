// Package logging provides structured logging with zerolog and request-scoped
// context propagation. Every HTTP request carries a request ID used as the
// correlation identifier when failures are logged.
//
// Example usage:
//
//	cfg := config.LogConfig{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "stdout",
//	}
//	logger := logging.New(cfg)
//	logger.Info().Str("user_id", "123").Msg("user logged in")
package logging

// Standard field names for structured logging.
// These constants ensure consistent field naming across all packages.
const (
	// ServiceName is the field name for the service generating the log.
	ServiceName = "service_name"

	// Error is the field name for error information.
	Error = "error"

	// RequestID is the field name for the HTTP request correlation ID.
	RequestID = "request_id"

	// Method is the field name for HTTP method.
	Method = "method"

	// Path is the field name for HTTP path.
	Path = "path"

	// StatusCode is the field name for HTTP status code.
	StatusCode = "status_code"

	// Duration is the field name for operation duration.
	Duration = "duration_ms"

	// UserID is the field name for authenticated user ID.
	UserID = "user_id"

	// Component is the field name for the component/package generating the log.
	Component = "component"
)
