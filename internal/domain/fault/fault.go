// Package fault defines the error kinds the booking core reports to callers.
// Concrete errors wrap exactly one kind so the transport layer can map them
// with errors.Is without knowing the originating package.
package fault

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks lookups of absent listings or bookings.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest marks precondition failures and illegal transitions.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrForbidden marks actors lacking authorization for a transition.
	ErrForbidden = errors.New("forbidden")
	// ErrUnavailable marks transient store failures; callers may retry with backoff.
	ErrUnavailable = errors.New("store unavailable")
)

func NotFound(format string, args ...any) error {
	return wrap(ErrNotFound, format, args...)
}

func InvalidRequest(format string, args ...any) error {
	return wrap(ErrInvalidRequest, format, args...)
}

func Forbidden(format string, args ...any) error {
	return wrap(ErrForbidden, format, args...)
}

func Unavailable(format string, args ...any) error {
	return wrap(ErrUnavailable, format, args...)
}

func wrap(kind error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), kind)
}
