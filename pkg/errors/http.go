package errors

import (
	"encoding/json"
	"net/http"
)

// HTTPStatusCode returns the appropriate HTTP status code for the given error.
// It maps error kinds to standard HTTP status codes:
//   - NotFoundError -> 404 Not Found
//   - InvalidInputError -> 400 Bad Request
//   - UnauthorizedError -> 401 Unauthorized
//   - ConflictError -> 409 Conflict
//   - TemporaryError -> 503 Service Unavailable
//   - PermanentError -> 500 Internal Server Error
//   - Unknown errors -> 500 Internal Server Error
func HTTPStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case IsNotFound(err):
		return http.StatusNotFound // 404
	case IsInvalidInput(err):
		return http.StatusBadRequest // 400
	case IsUnauthorized(err):
		return http.StatusUnauthorized // 401
	case IsConflict(err):
		return http.StatusConflict // 409
	case IsTemporary(err):
		return http.StatusServiceUnavailable // 503
	case IsPermanent(err):
		return http.StatusInternalServerError // 500
	default:
		return http.StatusInternalServerError // 500
	}
}

// errorBody is the JSON shape written for error responses.
type errorBody struct {
	Error string `json:"error"`
}

// WriteHTTPError writes a JSON error response to an HTTP response writer.
// The status code is determined by the error kind.
func WriteHTTPError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatusCode(err))
	_ = json.NewEncoder(w).Encode(errorBody{Error: err.Error()})
}
