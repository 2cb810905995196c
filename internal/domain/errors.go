package domain

import "errors"

// Closed error taxonomy. Repositories and services wrap these sentinels
// with fmt.Errorf("...: %w", ...); the HTTP boundary matches them with
// errors.Is and maps anything else to a generic server error.
var (
	// ErrValidation indicates malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicate indicates a uniqueness violation (username, email,
	// or a same-named group under one owner).
	ErrDuplicate = errors.New("already exists")
	// ErrNotFound covers both absent resources and resources the caller
	// has no rights to, so existence never leaks.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials is returned for unknown identifier and wrong
	// password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates a malformed, tampered or expired session token.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUnauthenticated indicates a request with no usable credential.
	ErrUnauthenticated = errors.New("authentication required")
)
