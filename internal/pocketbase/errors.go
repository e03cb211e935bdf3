package pocketbase

import (
	"errors"
	"fmt"
)

// Common record-store errors
var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrRequestFailed is returned when the record store answers with a
	// non-2xx status that is not a plain 404.
	ErrRequestFailed = errors.New("record store request failed")

	// ErrUnreachable is returned when the record store cannot be reached
	// at the transport level.
	ErrUnreachable = errors.New("record store unreachable")

	// ErrBadResponse is returned when the response body cannot be decoded.
	ErrBadResponse = errors.New("malformed record store response")
)

// StoreError wraps record-store failures with the operation and HTTP status.
type StoreError struct {
	// Op is the operation that failed (e.g. "List", "Update").
	Op string

	// Err is the underlying error.
	Err error

	// Status is the HTTP status code, when a response was received.
	Status int

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("pocketbase: %s failed (status %d): %v", e.Op, e.Status, e.Err)
	}
	if e.Details != "" {
		return fmt.Sprintf("pocketbase: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("pocketbase: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is.
func (e *StoreError) Is(target error) bool {
	return errors.Is(e.Err, target)
}
