package errors

import (
	"fmt"
)

// Wrap wraps an error with additional context while preserving the original
// error kind. If err is already a typed error (NotFound, Conflict, etc.), the
// wrapper keeps the same kind so HTTP mapping and Is* checks still hold.
// Untyped errors become PermanentErrors.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}

	switch {
	case IsNotFound(err):
		var nfe *NotFoundError
		if As(err, &nfe) {
			return NewNotFoundWithCause(nfe.resource, nfe.id, err)
		}
		return NewPermanent(msg, err)
	case IsInvalidInput(err):
		var iie *InvalidInputError
		if As(err, &iie) {
			return NewInvalidInputWithCause(iie.field, msg, err)
		}
		return NewInvalidInput("", msg)
	case IsUnauthorized(err):
		return NewUnauthorizedWithCause(msg, err)
	case IsConflict(err):
		var ce *ConflictError
		if As(err, &ce) {
			return NewConflictWithCause(ce.resource, ce.value, err)
		}
		return NewPermanent(msg, err)
	case IsTemporary(err):
		return NewTemporary(msg, err)
	case IsPermanent(err):
		return NewPermanent(msg, err)
	default:
		return NewPermanent(msg, err)
	}
}

// Wrapf wraps an error with a formatted message while preserving the original error kind.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}
