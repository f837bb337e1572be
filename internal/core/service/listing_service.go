package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/credjud/marketplace/internal/core/domain"
	"github.com/credjud/marketplace/internal/core/ports"
)

const defaultMaxAttempts = 10

type ListingService struct {
	repo        ports.ListingRepository
	maxAttempts int
	logger      zerolog.Logger
}

func NewListingService(repo ports.ListingRepository, maxAttempts int, logger zerolog.Logger) *ListingService {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &ListingService{repo: repo, maxAttempts: maxAttempts, logger: logger}
}

func (s *ListingService) Create(ctx context.Context, in ports.CreateListingInput) (*domain.Listing, error) {
	now := time.Now().UTC()
	l := &domain.Listing{
		Value:         in.Value,
		Area:          in.Area,
		Phase:         in.Phase,
		Subject:       in.Subject,
		DiscountRate:  in.DiscountRate,
		Price:         in.Price,
		ProcessNumber: in.ProcessNumber,
		Description:   in.Description,
		Capacity:      in.Capacity,
		Acquired:      in.Acquired,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, l)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create listing")
		return nil, err
	}

	s.logger.Info().Str("listing_id", created.ID).Int("capacity", created.Capacity).Msg("listing created")
	return created, nil
}

func (s *ListingService) Get(ctx context.Context, id string) (*domain.Listing, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ListingService) List(ctx context.Context) ([]*domain.Listing, error) {
	return s.repo.List(ctx, ports.ListingFilter{})
}

// ListAcquired returns the listings whose acquired flag is set. No write path
// derives the flag; it is whatever an admin stored.
func (s *ListingService) ListAcquired(ctx context.Context) ([]*domain.Listing, error) {
	return s.repo.List(ctx, ports.ListingFilter{AcquiredOnly: true})
}

// Update applies a partial update. Capacity changes go through
// Listing.SetCapacity so a listing can never shrink below its reservations.
func (s *ListingService) Update(ctx context.Context, in ports.UpdateListingInput) (*domain.Listing, error) {
	updated, _, err := mutateListing(ctx, s.repo, in.ID, s.maxAttempts, func(l *domain.Listing) error {
		applyPatch(l, in)
		if in.Capacity != nil {
			if err := l.SetCapacity(*in.Capacity); err != nil {
				return err
			}
		}
		l.UpdatedAt = time.Now().UTC()
		return l.Validate()
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("listing_id", updated.ID).Int64("version", updated.Version).Msg("listing updated")
	return updated, nil
}

func (s *ListingService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("listing_id", id).Msg("listing deleted")
	return nil
}

func applyPatch(l *domain.Listing, in ports.UpdateListingInput) {
	if in.Value != nil {
		l.Value = *in.Value
	}
	if in.Area != nil {
		l.Area = *in.Area
	}
	if in.Phase != nil {
		l.Phase = *in.Phase
	}
	if in.Subject != nil {
		l.Subject = *in.Subject
	}
	if in.DiscountRate != nil {
		l.DiscountRate = *in.DiscountRate
	}
	if in.Price != nil {
		l.Price = *in.Price
	}
	if in.ProcessNumber != nil {
		l.ProcessNumber = *in.ProcessNumber
	}
	if in.Description != nil {
		l.Description = *in.Description
	}
	if in.Acquired != nil {
		l.Acquired = *in.Acquired
	}
}

// mutateListing runs a load → mutate → compare-and-swap save cycle. When the
// save loses a race the listing is reloaded and fn re-evaluated against the
// fresh state, so fn's checks always see what is actually stored. It returns
// the saved listing and the number of lost races.
func mutateListing(
	ctx context.Context,
	repo ports.ListingRepository,
	id string,
	attempts int,
	fn func(l *domain.Listing) error,
) (*domain.Listing, int, error) {
	conflicts := 0
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, conflicts, err
		}

		l, err := repo.FindByID(ctx, id)
		if err != nil {
			return nil, conflicts, err
		}

		if err := fn(l); err != nil {
			return nil, conflicts, err
		}

		err = repo.Save(ctx, l)
		if err == nil {
			return l, conflicts, nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) {
			return nil, conflicts, err
		}
		conflicts++
	}
	return nil, conflicts, domain.ErrReservationConflict
}
