package services

import "errors"

// Dashboard service errors
var (
	// ErrNoData signals that a source loaded successfully but produced no
	// usable records at all.
	ErrNoData = errors.New("no registration data available")

	// ErrInvalidYearRange signals a query whose from-year exceeds its to-year.
	ErrInvalidYearRange = errors.New("invalid year range")

	// General errors
	ErrInvalidInput       = errors.New("invalid input")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)
