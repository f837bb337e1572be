package ports

import (
	"context"

	"github.com/credjud/marketplace/internal/core/domain"
)

// ListingFilter narrows List results.
type ListingFilter struct {
	AcquiredOnly bool
}

// ListingRepository defines persistence operations for credit listings and
// their embedded quotas.
type ListingRepository interface {
	Create(ctx context.Context, l *domain.Listing) (*domain.Listing, error)
	FindByID(ctx context.Context, id string) (*domain.Listing, error)
	List(ctx context.Context, filter ListingFilter) ([]*domain.Listing, error)
	// Save persists l only if the stored version still equals l.Version, and
	// bumps the version on success. A stale version yields
	// domain.ErrVersionConflict; a missing listing domain.ErrListingNotFound.
	Save(ctx context.Context, l *domain.Listing) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	// CountReservations counts quota records across all listings.
	CountReservations(ctx context.Context) (int64, error)
}

// ReservationLogRepository stores the audit trail of granted reservations.
type ReservationLogRepository interface {
	Insert(ctx context.Context, entry *domain.ReservationEntry) error
}
