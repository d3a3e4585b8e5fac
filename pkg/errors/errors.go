// Package errors provides the structured error types used across the forum
// backend. It defines error categories (NotFound, InvalidInput, Unauthorized,
// Conflict, Temporary, Permanent) that map directly onto HTTP response
// classes, so the API layer can surface repository and service failures
// without inspecting messages.
//
// Example usage:
//
//	if post == nil {
//	    return errors.NewNotFound("post", strconv.FormatInt(id, 10))
//	}
//
//	if strings.TrimSpace(req.Title) == "" {
//	    return errors.NewInvalidInput("title", "is required and cannot be empty")
//	}
package errors

import (
	"fmt"
)

// NotFoundError represents an error when a requested resource doesn't exist.
// Examples: user not found, post not found, dangling foreign key at creation.
type NotFoundError struct {
	resource string
	id       string
	cause    error
}

// NewNotFound creates a new not found error for the given resource and ID.
func NewNotFound(resource, id string) error {
	return &NotFoundError{resource: resource, id: id}
}

// NewNotFoundWithCause creates a new not found error with an underlying cause.
func NewNotFoundWithCause(resource, id string, cause error) error {
	return &NotFoundError{resource: resource, id: id, cause: cause}
}

func (e *NotFoundError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s not found: %s (%v)", e.resource, e.id, e.cause)
	}
	return fmt.Sprintf("%s not found: %s", e.resource, e.id)
}

func (e *NotFoundError) Unwrap() error {
	return e.cause
}

// Resource returns the type of resource that wasn't found.
func (e *NotFoundError) Resource() string {
	return e.resource
}

// ID returns the identifier of the resource that wasn't found.
func (e *NotFoundError) ID() string {
	return e.id
}

// InvalidInputError represents an error due to invalid caller input.
// Examples: blank required fields, malformed filter values.
type InvalidInputError struct {
	field string
	msg   string
	cause error
}

// NewInvalidInput creates a new invalid input error for the given field and message.
func NewInvalidInput(field, msg string) error {
	return &InvalidInputError{field: field, msg: msg}
}

// NewInvalidInputWithCause creates a new invalid input error with an underlying cause.
func NewInvalidInputWithCause(field, msg string, cause error) error {
	return &InvalidInputError{field: field, msg: msg, cause: cause}
}

func (e *InvalidInputError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("invalid input for %s: %s (%v)", e.field, e.msg, e.cause)
	}
	return fmt.Sprintf("invalid input for %s: %s", e.field, e.msg)
}

func (e *InvalidInputError) Unwrap() error {
	return e.cause
}

// Field returns the field name that had invalid input.
func (e *InvalidInputError) Field() string {
	return e.field
}

// Message returns the validation error message.
func (e *InvalidInputError) Message() string {
	return e.msg
}

// UnauthorizedError represents an authentication failure.
// Examples: unknown username, wrong password, invalid bearer token.
type UnauthorizedError struct {
	msg   string
	cause error
}

// NewUnauthorized creates a new unauthorized error with the given message.
func NewUnauthorized(msg string) error {
	return &UnauthorizedError{msg: msg}
}

// NewUnauthorizedWithCause creates a new unauthorized error with an underlying cause.
func NewUnauthorizedWithCause(msg string, cause error) error {
	return &UnauthorizedError{msg: msg, cause: cause}
}

func (e *UnauthorizedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("unauthorized: %s (%v)", e.msg, e.cause)
	}
	return fmt.Sprintf("unauthorized: %s", e.msg)
}

func (e *UnauthorizedError) Unwrap() error {
	return e.cause
}

// Message returns the failure message without the "unauthorized" prefix.
func (e *UnauthorizedError) Message() string {
	return e.msg
}

// ConflictError represents a uniqueness violation on caller-supplied data.
// Example: username already taken. Distinct from NotFound so the API layer
// can answer 409 instead of overloading the 404 shape.
type ConflictError struct {
	resource string
	value    string
	cause    error
}

// NewConflict creates a new conflict error for the given resource and conflicting value.
func NewConflict(resource, value string) error {
	return &ConflictError{resource: resource, value: value}
}

// NewConflictWithCause creates a new conflict error with an underlying cause.
func NewConflictWithCause(resource, value string, cause error) error {
	return &ConflictError{resource: resource, value: value, cause: cause}
}

func (e *ConflictError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s already exists: %s (%v)", e.resource, e.value, e.cause)
	}
	return fmt.Sprintf("%s already exists: %s", e.resource, e.value)
}

func (e *ConflictError) Unwrap() error {
	return e.cause
}

// Resource returns the type of resource that conflicted.
func (e *ConflictError) Resource() string {
	return e.resource
}

// Value returns the conflicting value.
func (e *ConflictError) Value() string {
	return e.value
}

// TemporaryError represents an error that might succeed if retried by the caller.
// Examples: storage file momentarily unavailable, database connection lost.
// The service itself never retries; the classification exists for the HTTP
// mapping and for operators reading logs.
type TemporaryError struct {
	msg   string
	cause error
}

// NewTemporary creates a new temporary error with the given message and optional cause.
func NewTemporary(msg string, cause error) error {
	return &TemporaryError{msg: msg, cause: cause}
}

func (e *TemporaryError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *TemporaryError) Unwrap() error {
	return e.cause
}

// PermanentError represents an error that won't succeed even if retried.
// Examples: corrupt storage file, serialization failure, programming errors.
type PermanentError struct {
	msg   string
	cause error
}

// NewPermanent creates a new permanent error with the given message and optional cause.
func NewPermanent(msg string, cause error) error {
	return &PermanentError{msg: msg, cause: cause}
}

func (e *PermanentError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *PermanentError) Unwrap() error {
	return e.cause
}
