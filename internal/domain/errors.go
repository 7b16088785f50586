package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain error for transport mapping.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindNotFound     ErrorKind = "not_found"
	KindInvalidState ErrorKind = "invalid_state"
	KindConflict     ErrorKind = "conflict"
	KindInternal     ErrorKind = "internal"
)

// Error is the common error type for all domain failures.
type Error struct {
	Kind    ErrorKind
	Message string

	// CurrentState is set on invalid-state errors so callers can re-sync.
	CurrentState string
}

func (e *Error) Error() string {
	return e.Message
}

// NewValidationError reports malformed or missing input.
func NewValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// NewUnauthorizedError reports a missing or invalid identity.
func NewUnauthorizedError(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

// NewForbiddenError reports an actor lacking rights over a resource.
func NewForbiddenError(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// NewNotFoundError reports a missing entity.
func NewNotFoundError(entity, id string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s %s not found", entity, id),
	}
}

// NewInvalidStateError reports a transition attempted from an ineligible state.
// The current state is included so the caller can re-sync its view.
func NewInvalidStateError(current, requested string) *Error {
	return &Error{
		Kind:         KindInvalidState,
		Message:      fmt.Sprintf("cannot transition from %s to %s", current, requested),
		CurrentState: current,
	}
}

// NewConflictError reports a concurrent-modification conflict.
func NewConflictError(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// NewInternalError reports an upstream or infrastructure failure.
func NewInternalError(msg string) *Error {
	return &Error{Kind: KindInternal, Message: msg}
}

// KindOf extracts the error kind, defaulting to internal for unknown errors.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
