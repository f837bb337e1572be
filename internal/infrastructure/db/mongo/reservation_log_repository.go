package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/credjud/marketplace/internal/core/domain"
	"github.com/credjud/marketplace/internal/core/ports"
)

const collectionReservationLog = "quota_reservations_log"

// ReservationLogRepository implements ports.ReservationLogRepository using MongoDB.
type ReservationLogRepository struct {
	col *mongo.Collection
}

// NewReservationLogRepository creates a new ReservationLogRepository.
func NewReservationLogRepository(db *mongo.Database) ports.ReservationLogRepository {
	return &ReservationLogRepository{col: db.Collection(collectionReservationLog)}
}

// Insert appends a granted reservation to the audit collection.
func (r *ReservationLogRepository) Insert(ctx context.Context, e *domain.ReservationEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"listing_id":  e.ListingID,
		"user_id":     e.UserID,
		"quantity":    e.Quantity,
		"user_total":  e.UserTotal,
		"available":   e.Available,
		"reserved_at": e.ReservedAt.UTC(),
		"logged_at":   time.Now().UTC(),
	}
	if e.IdempotencyKey != "" {
		doc["idempotency_key"] = e.IdempotencyKey
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}
