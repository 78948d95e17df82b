package domain

import (
	"errors"
	"fmt"
)

// Error categories for the retention API. Handlers map these to HTTP statuses;
// services wrap them with context via fmt.Errorf and %w.
var (
	// ErrValidation marks input that cannot be clamped into a usable value,
	// such as an unparseable date or a too-short search query.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a reference to an absent customer or subscription.
	ErrNotFound = errors.New("not found")

	// ErrPermission marks an actor lacking the required role. Surfaced to the
	// caller, never retried.
	ErrPermission = errors.New("permission denied")

	// ErrTransient marks a record-store or network failure that is safe to
	// retry manually.
	ErrTransient = errors.New("transient failure")
)

func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
