// Package apperror defines the error kinds services return and the HTTP layer translates.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Wrap them with an *Error and test with errors.Is.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
)

// Details maps a request field name to its validation messages.
type Details map[string][]string

// Error carries a kind, a message safe to show to the caller and optional field details.
type Error struct {
	Kind    error
	Message string
	Details Details
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Unauthorized is returned when no valid session or identity is present.
func Unauthorized(message string) *Error {
	return &Error{Kind: ErrUnauthorized, Message: message}
}

// NotFound reports a missing resource.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// Forbidden reports an action outside the caller's membership.
func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: ErrForbidden, Message: fmt.Sprintf(format, args...)}
}

// Conflict reports a state clash, e.g. joining while already in a team.
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

// Validation reports malformed input with per field details.
func Validation(details Details) *Error {
	return &Error{
		Kind:    ErrValidation,
		Message: `Form contains error. Check "details" field for more information.`,
		Details: details,
	}
}

// FieldInvalid is a Validation error for a single field.
func FieldInvalid(field, message string) *Error {
	return Validation(Details{field: {message}})
}

// As extracts the *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}

	return nil, false
}
