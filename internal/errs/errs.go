// Package errs defines the error taxonomy shared across the board
// engine: the command layer, the execution engine, and the façade all
// wrap errors in a Kind so callers can switch on programmatic cause
// rather than parsing messages.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error the way spec.md §7 requires it to be
// surfaced, both programmatically and in run events.
type Kind string

const (
	KindValidation           Kind = "Validation"
	KindMissingRuntimeVar    Kind = "MissingRuntimeVariable"
	KindMissingOAuth         Kind = "MissingOAuth"
	KindInsufficientScopes   Kind = "InsufficientScopes"
	KindPermissionDenied     Kind = "PermissionDenied"
	KindNotFound             Kind = "NotFound"
	KindConflict             Kind = "Conflict"
	KindRemoteOnly           Kind = "RemoteOnly"
	KindLocalOnly            Kind = "LocalOnly"
	KindNodeError            Kind = "NodeError"
	KindCancelled            Kind = "Cancelled"
	KindInvalidToken         Kind = "InvalidToken"
	KindInternal             Kind = "Internal"
)

// Error pairs a Kind with the underlying cause. It implements the
// standard unwrap protocol so errors.Is/As keep working across the
// command/engine/façade boundary.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a Kind-tagged error with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a Kind to an existing error without losing it.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: cause}
}

// KindOf extracts the Kind from err, defaulting to KindInternal for
// errors that never passed through this package — the same "never
// swallowed" guarantee spec.md §7 asks for Internal errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if err == nil {
		return ""
	}
	return KindInternal
}

// Is reports whether err (or something it wraps) carries kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
