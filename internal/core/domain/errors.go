package domain

import "errors"

var (
	ErrListingNotFound       = errors.New("credit listing not found")
	ErrInvalidQuantity       = errors.New("quantity must be a positive integer")
	ErrCapacityExceeded      = errors.New("requested quotas exceed the available balance")
	ErrCapacityBelowReserved = errors.New("capacity cannot be lower than the reserved quotas")
	ErrReservationConflict   = errors.New("listing changed concurrently, try again")
	ErrValidation            = errors.New("validation failed")
)

var (
	ErrIdempotencyKeyReused  = errors.New("idempotency key already used for a different request")
	ErrIdempotencyInProgress = errors.New("a request with this idempotency key is still in progress")
)

// ErrVersionConflict is returned by repositories when a compare-and-swap save
// finds that the stored version moved on since the aggregate was loaded.
var ErrVersionConflict = errors.New("version conflict")

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("access forbidden")
)
