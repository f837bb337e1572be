package ports

import (
	"context"
	"time"
)

type IdempotencyStatus string

const (
	IdempotencyPending IdempotencyStatus = "pending"
	IdempotencyDone    IdempotencyStatus = "done"
)

// IdempotencyRecord is what an idempotency key remembers: the request it was
// first used for and, once that request succeeded, the granted result.
type IdempotencyRecord struct {
	ListingID string
	Quantity  int
	Status    IdempotencyStatus

	// Set only when Status is IdempotencyDone.
	UserTotal  int
	Available  int
	ReservedAt time.Time
}

// IdempotencyStore keeps idempotency keys per scope (the caller).
type IdempotencyStore interface {
	// Begin stores rec as pending under key unless the key already exists,
	// in which case it returns the stored record and false.
	Begin(ctx context.Context, scope, key string, rec IdempotencyRecord) (*IdempotencyRecord, bool, error)
	// Complete marks key as done with the granted result.
	Complete(ctx context.Context, scope, key string, rec IdempotencyRecord) error
	// Release forgets key so a failed request may be retried with it.
	Release(ctx context.Context, scope, key string) error
}
