// Package errs defines the error categories shared by the flight operations
// packages. Every domain error wraps exactly one of these sentinels so callers
// can classify failures with errors.Is.
package errs

import "errors"

var (
	// ErrValidation marks malformed input: unknown seat ids, empty or
	// duplicate flight numbers, missing passengers.
	ErrValidation = errors.New("validation failed")

	// ErrConflict marks an operation refused because of current state, such
	// as a seat that is not available or a ticket that cannot be checked in.
	ErrConflict = errors.New("state conflict")

	// ErrNotFound marks a lookup miss.
	ErrNotFound = errors.New("not found")
)
