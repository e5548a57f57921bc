// Package apperrors defines the closed error taxonomy returned by the
// lifecycle engine. Services return *Error values; the HTTP layer maps
// each kind to a status code without inspecting message text.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an engine failure
type Kind int

const (
	// KindInternal is an unexpected failure (rendering, encoding, storage)
	KindInternal Kind = iota
	// KindNotFound means a referenced entity does not exist
	KindNotFound
	// KindAccessDenied means the access policy rejected the actor
	KindAccessDenied
	// KindRuleViolation means the operation would break a business invariant
	KindRuleViolation
	// KindConflict means a unique constraint was violated
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAccessDenied:
		return "access_denied"
	case KindRuleViolation:
		return "rule_violation"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error carries a taxonomy kind plus a human-readable message
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

// NotFound reports a missing entity
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// AccessDenied reports a policy rejection
func AccessDenied(message string) *Error {
	return &Error{Kind: KindAccessDenied, Message: message}
}

// RuleViolation reports a broken business invariant
func RuleViolation(message string) *Error {
	return &Error{Kind: KindRuleViolation, Message: message}
}

// Conflict reports a duplicate unique constraint
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Internal wraps an unexpected failure
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf extracts the taxonomy kind from an error chain.
// Unrecognized errors classify as KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// MessageOf extracts the human-readable message from an error chain,
// falling back to the raw error text
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
