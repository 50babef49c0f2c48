// Package fault normalizes internal failures into a closed taxonomy so
// the transport layer can map each kind to a stable HTTP status without
// inspecting storage-specific error values.
package fault

import (
	"errors"
	"fmt"
)

// Kind identifies a failure class.
type Kind int

const (
	// KindInternal is the fallthrough for unclassified failures.
	KindInternal Kind = iota
	// KindMalformedID means the identifier does not parse; no store
	// access was attempted.
	KindMalformedID
	// KindNotFound means a well-formed identifier matched no record.
	KindNotFound
	// KindValidation means the payload violated a field constraint.
	KindValidation
	// KindDuplicateUsername means the username uniqueness constraint
	// was violated.
	KindDuplicateUsername
	// KindAuthentication means the caller's credential was missing,
	// malformed, or invalid. Reported before any mutation.
	KindAuthentication
	// KindOwnership means an authenticated caller attempted an
	// owner-restricted operation on a resource they do not own.
	KindOwnership
	// KindPartialWrite means a two-store mutation succeeded on one
	// store and failed on the other, leaving the blog/user reference
	// inconsistent until the next reconciliation sweep.
	KindPartialWrite
)

// String returns a stable machine-readable code for the kind.
func (k Kind) String() string {
	switch k {
	case KindMalformedID:
		return "MALFORMED_ID"
	case KindNotFound:
		return "NOT_FOUND"
	case KindValidation:
		return "VALIDATION_FAILED"
	case KindDuplicateUsername:
		return "DUPLICATE_USERNAME"
	case KindAuthentication:
		return "AUTHENTICATION_FAILED"
	case KindOwnership:
		return "OWNERSHIP_MISMATCH"
	case KindPartialWrite:
		return "PARTIAL_WRITE"
	default:
		return "INTERNAL"
	}
}

// Error is a classified failure. Field is set for validation failures
// that concern a specific payload field.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a classified error with no underlying cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap classifies an underlying error.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// Validation creates a field-level validation failure.
func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

// KindOf classifies an arbitrary error. Unclassified errors, including
// nil-free wrapping chains without a *Error, report KindInternal.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindInternal
}

// FieldOf returns the field name for validation failures, or "".
func FieldOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Field
	}
	return ""
}

// MessageOf returns the classified message without the cause, falling
// back to a generic message for unclassified errors so internal detail
// never leaks to clients.
func MessageOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Message
	}
	return "an internal error occurred"
}
