package domain

import (
	"errors"
	"fmt"
)

// Error classes. Every error returned by the services wraps exactly one of
// these so transport layers can map them with errors.Is.
var (
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrValidation          = errors.New("validation error")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

var (
	ErrFlightNotFound   = fmt.Errorf("flight %w", ErrNotFound)
	ErrScheduleNotFound = fmt.Errorf("schedule %w", ErrNotFound)
	ErrTicketNotFound   = fmt.Errorf("ticket %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)

	ErrDuplicateFlightNumber = fmt.Errorf("%w: flight number already exists", ErrConflict)
	ErrCapacityBelowBooked   = fmt.Errorf("%w: capacity cannot be reduced below booked seats", ErrConflict)
	ErrVersionConflict       = fmt.Errorf("%w: flight was modified concurrently", ErrConflict)
	ErrNoSeatsAvailable      = fmt.Errorf("%w: no available seats", ErrConflict)
	ErrAlreadyCancelled      = fmt.Errorf("%w: ticket is already cancelled", ErrConflict)
	ErrTicketNotCancellable  = fmt.Errorf("%w: ticket is completed", ErrConflict)
	ErrDuplicateUsername     = fmt.Errorf("%w: username already taken", ErrConflict)

	ErrInvalidTimeRange = fmt.Errorf("%w: departure must be before arrival", ErrValidation)

	ErrInvalidToken       = fmt.Errorf("%w: invalid token", ErrUnauthorized)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", ErrUnauthorized)

	ErrIdentityLookupFailed = fmt.Errorf("%w: identity lookup failed", ErrUpstreamUnavailable)
)

// Validationf builds an ErrValidation with a human readable reason.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
