package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrValidation         = errors.New("validation failed")
	ErrForbidden          = errors.New("not authorized")
	ErrStage              = errors.New("illegal stage transition")
)

// Validation wraps ErrValidation with a caller-facing reason.
func Validation(format string, args ...any) error {
	return wrap(ErrValidation, format, args...)
}

// Forbidden wraps ErrForbidden with a caller-facing reason.
func Forbidden(format string, args ...any) error {
	return wrap(ErrForbidden, format, args...)
}

// Stage wraps ErrStage with a caller-facing reason.
func Stage(format string, args ...any) error {
	return wrap(ErrStage, format, args...)
}

// NotFound wraps ErrNotFound with a caller-facing reason.
func NotFound(format string, args ...any) error {
	return wrap(ErrNotFound, format, args...)
}

func wrap(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}

// Message returns the reason attached by one of the helpers, or the error text otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, sentinel := range []error{ErrValidation, ErrForbidden, ErrStage, ErrNotFound} {
		prefix := sentinel.Error() + ": "
		if errors.Is(err, sentinel) && len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
			return msg[len(prefix):]
		}
	}
	return msg
}
