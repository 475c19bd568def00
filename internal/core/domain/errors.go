package domain

import "errors"

// Cross-cutting errors shared by several services.
var (
	// ErrValidation marks a request rejected before any store access.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden marks an operation the caller's role does not permit.
	ErrForbidden = errors.New("access forbidden")

	// ErrUnavailable marks a bounded-timeout store failure surfaced to the
	// caller on critical paths.
	ErrUnavailable = errors.New("service unavailable")
)
