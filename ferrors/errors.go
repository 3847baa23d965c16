// Package ferrors defines the error taxonomy shared by every layer of the
// FAT engine. It follows the teacher's split between a small sentinel-error
// catalogue (errno.go) and a wrapper type that attaches a message and an
// underlying cause without losing the sentinel identity.
package ferrors

import "fmt"

// DriverError is the error interface returned by every public operation in
// the engine. It behaves like a normal `error` but lets callers attach
// additional context without discarding the original sentinel, so that
// `errors.Is(err, ferrors.ErrNotFound)` keeps working after the message has
// been enriched.
type DriverError interface {
	error
	WithMessage(message string) DriverError
	WrapError(err error) DriverError
	Unwrap() error
}

type wrappedError struct {
	message string
	cause   error
}

func (e wrappedError) Error() string {
	return e.message
}

func (e wrappedError) WithMessage(message string) DriverError {
	return wrappedError{
		message: fmt.Sprintf("%s: %s", message, e.message),
		cause:   e,
	}
}

// WrapError appends err's message for context but keeps e as the Unwrap
// target, so the original sentinel stays reachable via errors.Is even after
// multiple rounds of wrapping.
func (e wrappedError) WrapError(err error) DriverError {
	return wrappedError{
		message: fmt.Sprintf("%s: %s", e.message, err.Error()),
		cause:   e,
	}
}

func (e wrappedError) Unwrap() error {
	return e.cause
}
