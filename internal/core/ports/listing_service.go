package ports

import (
	"context"
	"time"

	"github.com/credjud/marketplace/internal/core/domain"
)

// CreateListingInput carries the fields of a new credit listing.
type CreateListingInput struct {
	Value         float64
	Area          string
	Phase         string
	Subject       string
	DiscountRate  float64
	Price         float64
	ProcessNumber string
	Description   string
	Capacity      int
	Acquired      bool
}

// UpdateListingInput is a partial update: nil fields are left unchanged.
type UpdateListingInput struct {
	ID            string
	Value         *float64
	Area          *string
	Phase         *string
	Subject       *string
	DiscountRate  *float64
	Price         *float64
	ProcessNumber *string
	Description   *string
	Capacity      *int
	Acquired      *bool
}

// ListingService covers the listing store operations.
type ListingService interface {
	Create(ctx context.Context, input CreateListingInput) (*domain.Listing, error)
	Get(ctx context.Context, id string) (*domain.Listing, error)
	List(ctx context.Context) ([]*domain.Listing, error)
	ListAcquired(ctx context.Context) ([]*domain.Listing, error)
	Update(ctx context.Context, input UpdateListingInput) (*domain.Listing, error)
	Delete(ctx context.Context, id string) error
}

// ReserveInput is a request to reserve Quantity quota units of a listing.
type ReserveInput struct {
	ListingID string
	UserID    string
	Quantity  int
	// IdempotencyKey, when set, makes retries of the same request safe.
	IdempotencyKey string
}

// ReservationResult describes the state after a reservation.
type ReservationResult struct {
	ListingID string
	UserID    string
	// UserTotal is the caller's aggregated quota on the listing.
	UserTotal  int
	Available  int
	ReservedAt time.Time
	// Replayed is true when the idempotency key belongs to an earlier granted
	// reservation. Nothing is reserved by this call and the figures are the
	// ones recorded when the reservation was granted.
	Replayed bool
}

// QuotaLedger reserves quota units while keeping every listing within capacity.
type QuotaLedger interface {
	Reserve(ctx context.Context, input ReserveInput) (*ReservationResult, error)
}
