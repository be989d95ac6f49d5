package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the business outcomes the API layer needs to tell
// apart. Lower-level storage and locking failures are wrapped into a
// PersistenceError by the services.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrFlightNotFound    = errors.New("flight not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInsufficientSeats = errors.New("not enough available seats")
	ErrAlreadyCancelled  = errors.New("booking already cancelled")
)

// PersistenceError wraps a durable-write failure. A booking attempt that
// hits one has already had its seat reservation rolled back.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ValidationError reports a malformed booking request. The request had no
// side effects and retrying it unchanged will fail the same way.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
