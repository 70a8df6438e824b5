package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure the services report wraps one of these, so the
// transport layer can map it with errors.Is without knowing the exact cause.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
)

var (
	ErrInvalidInterval = fmt.Errorf("%w: booking end must be after start", ErrValidation)
	ErrPastStart       = fmt.Errorf("%w: booking start is in the past", ErrValidation)
	ErrItemUnavailable = fmt.Errorf("%w: item is not available for booking", ErrValidation)
	ErrIntervalTaken   = fmt.Errorf("%w: interval overlaps an approved booking", ErrValidation)
	ErrAlreadyDecided  = fmt.Errorf("%w: booking status already changed", ErrValidation)
	ErrBadPage         = fmt.Errorf("%w: offset must be non-negative and limit positive", ErrValidation)
	ErrEmailTaken      = fmt.Errorf("%w: email is already registered", ErrValidation)
	ErrNoPastBooking   = fmt.Errorf("%w: comments require a finished booking of the item", ErrValidation)
)

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func Forbiddenf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
