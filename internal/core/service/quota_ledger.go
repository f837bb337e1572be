package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/credjud/marketplace/internal/core/domain"
	"github.com/credjud/marketplace/internal/core/ports"
)

// ReservationQueue receives audit entries for granted reservations.
type ReservationQueue interface {
	Enqueue(entry domain.ReservationEntry)
}

// QuotaLedger reserves quota units on credit listings. Every reservation is an
// optimistic read-decide-write on the listing aggregate: the capacity check
// runs against the loaded version and the save only lands if that version is
// still current.
type QuotaLedger struct {
	repo        ports.ListingRepository
	idempotency ports.IdempotencyStore
	audit       ReservationQueue
	maxAttempts int
	log         zerolog.Logger
	now         func() time.Time
}

// NewQuotaLedger returns a QuotaLedger. idempotency and audit may be nil.
func NewQuotaLedger(
	repo ports.ListingRepository,
	idempotency ports.IdempotencyStore,
	audit ReservationQueue,
	maxAttempts int,
	log zerolog.Logger,
) *QuotaLedger {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &QuotaLedger{
		repo:        repo,
		idempotency: idempotency,
		audit:       audit,
		maxAttempts: maxAttempts,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Reserve grants in.Quantity quota units of in.ListingID to in.UserID.
func (q *QuotaLedger) Reserve(ctx context.Context, in ports.ReserveInput) (*ports.ReservationResult, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if in.UserID == "" {
		return nil, domain.ErrUnauthorized
	}

	// 1. Idempotency: a key that already granted this exact request replays
	// the recorded result; anything else about a known key is a conflict.
	claimed := false
	if in.IdempotencyKey != "" && q.idempotency != nil {
		stored, first, err := q.idempotency.Begin(ctx, in.UserID, in.IdempotencyKey, ports.IdempotencyRecord{
			ListingID: in.ListingID,
			Quantity:  in.Quantity,
		})
		switch {
		case err != nil:
			q.log.Warn().Err(err).Str("listing_id", in.ListingID).Msg("idempotency claim failed, reserving anyway")
		case !first:
			return q.replay(in, stored)
		default:
			claimed = true
		}
	}

	// 2. Decide and apply under the listing's version.
	at := q.now()
	listing, conflicts, err := mutateListing(ctx, q.repo, in.ListingID, q.maxAttempts, func(l *domain.Listing) error {
		return l.Reserve(in.UserID, in.Quantity, at)
	})
	if conflicts > 0 {
		q.log.Debug().Str("listing_id", in.ListingID).Int("conflicts", conflicts).Msg("reservation retried after concurrent update")
	}
	if err != nil {
		if claimed {
			q.release(in)
		}
		return nil, q.wrap(in, err)
	}

	result := resultFor(listing, in.UserID, at)
	if claimed {
		q.complete(in, result)
	}

	// 3. Audit trail is best effort and asynchronous.
	if q.audit != nil {
		q.audit.Enqueue(domain.ReservationEntry{
			ListingID:      listing.ID,
			UserID:         in.UserID,
			Quantity:       in.Quantity,
			UserTotal:      result.UserTotal,
			Available:      result.Available,
			IdempotencyKey: in.IdempotencyKey,
			ReservedAt:     at,
		})
	}

	q.log.Info().
		Str("listing_id", listing.ID).
		Str("user_id", in.UserID).
		Int("quantity", in.Quantity).
		Int("available", result.Available).
		Msg("quotas reserved")

	return result, nil
}

// replay answers a request whose key was already claimed. Only a key that
// completed the same listing and quantity counts as success.
func (q *QuotaLedger) replay(in ports.ReserveInput, rec *ports.IdempotencyRecord) (*ports.ReservationResult, error) {
	switch {
	case rec == nil:
		return nil, domain.ErrIdempotencyInProgress
	case rec.ListingID != in.ListingID || rec.Quantity != in.Quantity:
		return nil, domain.ErrIdempotencyKeyReused
	case rec.Status != ports.IdempotencyDone:
		return nil, domain.ErrIdempotencyInProgress
	}

	q.log.Info().Str("listing_id", in.ListingID).Str("idempotency_key", in.IdempotencyKey).Msg("idempotent replay")
	return &ports.ReservationResult{
		ListingID:  rec.ListingID,
		UserID:     in.UserID,
		UserTotal:  rec.UserTotal,
		Available:  rec.Available,
		ReservedAt: rec.ReservedAt,
		Replayed:   true,
	}, nil
}

// complete records the granted result under the claimed key. If it fails the
// key stays pending until it expires, so retries get a conflict rather than a
// second reservation. Like release it runs detached from the request context,
// which may already be cancelled.
func (q *QuotaLedger) complete(in ports.ReserveInput, res *ports.ReservationResult) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := q.idempotency.Complete(ctx, in.UserID, in.IdempotencyKey, ports.IdempotencyRecord{
		ListingID:  in.ListingID,
		Quantity:   in.Quantity,
		Status:     ports.IdempotencyDone,
		UserTotal:  res.UserTotal,
		Available:  res.Available,
		ReservedAt: res.ReservedAt,
	})
	if err != nil {
		q.log.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("failed to complete idempotency key")
	}
}

// release frees the claim of a failed attempt so the client may retry with
// the same key.
func (q *QuotaLedger) release(in ports.ReserveInput) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := q.idempotency.Release(ctx, in.UserID, in.IdempotencyKey); err != nil {
		q.log.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("failed to release idempotency key")
	}
}

func (q *QuotaLedger) wrap(in ports.ReserveInput, err error) error {
	switch {
	case errors.Is(err, domain.ErrCapacityExceeded),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrListingNotFound),
		errors.Is(err, domain.ErrReservationConflict):
		return err
	}
	return fmt.Errorf("reserve quotas on listing %s: %w", in.ListingID, err)
}

func resultFor(l *domain.Listing, userID string, at time.Time) *ports.ReservationResult {
	total := 0
	if quota := l.QuotaOf(userID); quota != nil {
		total = quota.Quantity
	}
	return &ports.ReservationResult{
		ListingID:  l.ID,
		UserID:     userID,
		UserTotal:  total,
		Available:  l.Available(),
		ReservedAt: at,
	}
}
