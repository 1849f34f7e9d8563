package domain

import "errors"

// Sentinel errors for the booking and rating core. Services wrap these
// with %w and context; the HTTP layer maps them to status codes with
// errors.Is. Nothing in this core is a fatal error.
var (
	// ErrValidation marks malformed caller input (bad dates, end <= start,
	// rps out of range). Always recoverable by correcting the request.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a missing booking, horse, stable, user or league.
	ErrNotFound = errors.New("not found")

	// ErrForbidden marks an actor without the role or ownership the
	// transition requires.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict marks an unavailable slot or an already-scored booking.
	ErrConflict = errors.New("conflict")

	// ErrInvalidState marks a transition attempted on a terminal or
	// inapplicable booking/league state.
	ErrInvalidState = errors.New("invalid state")

	// ErrPreconditionFailed marks an unmet business precondition: horse
	// inactive or untiered, stable not approved, missing payment reference.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrExternalDependency marks a payment-provider or notification
	// channel failure. Payment failures are surfaced; notification
	// failures are logged and swallowed.
	ErrExternalDependency = errors.New("external dependency failed")
)
