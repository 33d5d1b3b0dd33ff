// Package common defines shared constants and sentinel errors used across
// the Celestia service layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// Conflict errors. Unique-constraint violations from the storage layer
	// are translated into these and never leak as raw driver errors.
	ErrUsernameTaken = errors.New("username already registered")
	ErrEmailTaken    = errors.New("email already registered")

	// Auth errors. ErrInvalidCredentials covers both unknown username and
	// wrong password so login failures are indistinguishable.
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")

	// ErrTokenNotFound covers both unknown and already-consumed ledger
	// tokens; the two cases must stay indistinguishable to callers.
	ErrTokenNotFound = errors.New("invalid or expired token")

	// Upstream model errors.
	ErrModelUnavailable = errors.New("model unavailable")
	ErrModelCredential  = errors.New("model rejected credentials")
)
