package ledger

import (
	"errors"
	"fmt"
)

// Validation failures wrapped by ValidationError.
var (
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
	ErrFutureDate      = errors.New("date cannot be in the future")
	ErrMissingDate     = errors.New("date is required")
	ErrUnknownCategory = errors.New("unknown category")
)

// ValidationError reports a rejected expense input.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }
