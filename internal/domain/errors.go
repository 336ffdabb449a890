package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")

	// ErrAuthenticationRequired is returned when an operation scoped to the caller's
	// identity cannot resolve that identity. Surfaced as 403, never as 404.
	ErrAuthenticationRequired = errors.New("authentication required")
)
