package core

import (
	"errors"
	"fmt"
)

// Field-level validation sentinels. Wrapped in ValidationError so callers can
// match either the class of failure or the exact field rule.
var (
	ErrEmptyTitle      = errors.New("title cannot be empty")
	ErrTitleTooLong    = errors.New("title too long (max 200 characters)")
	ErrNegativeAmount  = errors.New("amount cannot be negative")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrUnknownCategory = errors.New("unknown category")
	ErrInvalidDate     = errors.New("invalid date")
)

// ErrUnauthenticated signals that no principal was supplied. The transport
// boundary renders it as an authorization failure.
var ErrUnauthenticated = errors.New("authentication required")

// ErrNotFound covers both "record does not exist" and "record belongs to a
// different owner". The two cases are intentionally indistinguishable so that
// callers cannot enumerate other owners' record IDs.
var ErrNotFound = errors.New("expense not found")

// ValidationError is a malformed-input failure tied to a specific field.
// It is always recoverable by the caller correcting the input.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
