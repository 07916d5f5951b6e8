package utils

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidPage     = errors.New("invalid page parameter")
	ErrInvalidPageSize = errors.New("invalid page size parameter")
	ErrDatabaseError   = errors.New("database error")

	ErrAccountNotFound    = errors.New("account not found")
	ErrEmailAlreadyUsed   = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNoCreditsRemaining = errors.New("no generation credits remaining")

	ErrItineraryNotFound   = errors.New("itinerary not found")
	ErrActivityNotFound    = errors.New("activity not found")
	ErrTagNotFound         = errors.New("tag not found")
	ErrDestinationNotFound = errors.New("destination not found")

	ErrServiceNotConfigured = errors.New("service not configured")
)
