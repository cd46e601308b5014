package services

import "errors"

// Sentinel errors returned by the service layer. Handlers map these to HTTP
// status codes with errors.Is so wrapped context survives up the stack.
var (
	// ErrConflict means the requested range or slot is already taken.
	ErrConflict = errors.New("requested period is not available")

	// ErrValidation means the input failed a business rule check.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound means the referenced record does not exist.
	ErrNotFound = errors.New("record not found")
)
