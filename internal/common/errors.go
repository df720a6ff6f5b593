// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Error taxonomy. Every engine failure wraps exactly one of these so
// callers can dispatch with errors.Is.
var (
	// ErrValidation covers bad input: blank names, missing amounts,
	// missing or forbidden card/debt links, invalid dates.
	ErrValidation = errors.New("validation failed")

	// ErrConflict covers state conflicts: duplicate category names at
	// one level, deleting a category with children, deleting a
	// protected default.
	ErrConflict = errors.New("conflict")

	// ErrNotFound means a referenced category, card, debt account, or
	// transaction no longer exists.
	ErrNotFound = errors.New("not found")

	// ErrAmbiguousState means the operation needs explicit user
	// confirmation before proceeding, e.g. collapsing several planned
	// rows in one bucket into a single total.
	ErrAmbiguousState = errors.New("ambiguous state requires confirmation")

	// ErrIntegrity marks a reconciliation sequence that failed after a
	// partial write, leaving a balance out of sync with history.
	ErrIntegrity = errors.New("data integrity violation")
)

// Validationf wraps ErrValidation with a descriptive message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Conflictf wraps ErrConflict with a descriptive message.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// NotFoundf wraps ErrNotFound with a descriptive message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// UserError represents an error that should be shown to the user.
// Unexpected persistence failures are reported through the generic
// message only; the wrapped error stays in the logs.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// UserMessage extracts the message safe to show a user. Validation,
// conflict, not-found, and confirmation errors are descriptive by
// construction; anything else collapses to a generic message.
func UserMessage(err error) string {
	var uerr *UserError
	if errors.As(err, &uerr) {
		return uerr.UserMessage
	}
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrAmbiguousState):
		return err.Error()
	}
	return "something went wrong; please try again"
}
