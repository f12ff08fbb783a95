package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a row referenced by id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition covers state changes the ledger forbids, such as
	// manually closing a credit entry instead of paying its statement.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrAlreadyPaid is a specific invalid transition: settling a statement twice.
	ErrAlreadyPaid = fmt.Errorf("statement already paid: %w", ErrInvalidTransition)

	// ErrMonthLocked is returned for mutations dated inside a closed month.
	ErrMonthLocked = errors.New("month is closed")

	// ErrConstraintViolation covers structural rules, such as deleting a
	// credit card that still has an unpaid statement.
	ErrConstraintViolation = errors.New("constraint violation")

	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyName     = errors.New("empty name")
)

// ValidationError reports a rejected field at the operation boundary.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
