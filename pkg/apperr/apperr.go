package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an action failure so the boundary layer can branch on it
// without parsing store error text.
type Kind string

const (
	// KindUnauthenticated means no resolvable caller identity.
	KindUnauthenticated Kind = "unauthenticated"
	// KindNotFound means a referenced user, post or comment is absent.
	KindNotFound Kind = "not_found"
	// KindForbidden means the caller lacks ownership of the target.
	KindForbidden Kind = "forbidden"
	// KindInvalid means empty or malformed input.
	KindInvalid Kind = "invalid"
	// KindSelfReference means an edge was attempted from a user to itself.
	KindSelfReference Kind = "self_reference"
	// KindConflict means a unique-constraint race; recoverable by re-read.
	KindConflict Kind = "conflict"
	// KindInternal covers store failures not meant for the caller's eyes.
	KindInternal Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds a tagged error with no underlying cause.
func E(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap tags an underlying error. The message is what callers see; the
// wrapped error stays available for logs.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Internal tags a store failure. The caller-visible message is generic on
// purpose; raw store errors never surface.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// Is reports whether err carries the given kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Message returns the caller-visible message for err, without the kind
// prefix or any wrapped store error text.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

// KindOf extracts the kind from err, defaulting to KindInternal for
// untagged errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
