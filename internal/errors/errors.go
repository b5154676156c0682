package errors

import "errors"

// This package defines a centralized set of sentinel errors for the application.
// Services return these recognizable errors without coupling themselves to HTTP
// status codes; the API layer checks them with `errors.Is()` and maps them to
// the correct responses.

var (
	// ErrNotFound signifies that a requested resource could not be located.
	// Mapped to 404 Not Found.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that client input failed business rule validation.
	// Mapped to 400 Bad Request.
	ErrValidation = errors.New("validation failed")

	// ErrConflict signifies that an operation conflicts with the current state
	// of a resource, such as provisioning a SIM with an ICCID that already
	// exists. Mapped to 409 Conflict.
	ErrConflict = errors.New("resource conflict")

	// ErrInternal signifies an unexpected server-side error. Used to avoid
	// leaking implementation details to the client. Mapped to 500.
	ErrInternal = errors.New("internal server error")
)
