package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/credjud/marketplace/internal/core/domain"
	"github.com/credjud/marketplace/internal/core/ports"
)

const collectionListings = "credit_listings"

// ListingRepository stores credit listings with their quotas embedded, so a
// listing and its reservations always change in one single-document write.
type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection(collectionListings)}
}

type mongoQuota struct {
	UserID    string    `bson:"user_id"`
	Quantity  int       `bson:"quantity"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type mongoListing struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Value         float64            `bson:"value"`
	Area          string             `bson:"area"`
	Phase         string             `bson:"phase"`
	Subject       string             `bson:"subject"`
	DiscountRate  float64            `bson:"discount_rate"`
	Price         float64            `bson:"price"`
	ProcessNumber string             `bson:"process_number"`
	Description   string             `bson:"description"`
	Capacity      int                `bson:"capacity"`
	Acquired      bool               `bson:"acquired"`
	Quotas        []mongoQuota       `bson:"quotas"`
	Reserved      int                `bson:"reserved"`
	Version       int64              `bson:"version"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

// Create inserts a new listing document at version 1.
func (r *ListingRepository) Create(ctx context.Context, l *domain.Listing) (*domain.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := fromDomain(l)
	doc.ID = primitive.NewObjectID()
	doc.Version = 1

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert listing: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoListing
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("find listing: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ListingRepository) List(ctx context.Context, filter ports.ListingFilter) ([]*domain.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.AcquiredOnly {
		query["acquired"] = true
	}

	cur, err := r.col.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoListing
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}

	out := make([]*domain.Listing, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

// Save replaces the listing's mutable state only when the stored version
// equals l.Version. The version filter and the write are a single atomic
// UpdateOne, which is what keeps two concurrent reservations from both
// landing on the same snapshot.
func (r *ListingRepository) Save(ctx context.Context, l *domain.Listing) error {
	oid, err := primitive.ObjectIDFromHex(l.ID)
	if err != nil {
		return domain.ErrListingNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := fromDomain(l)
	filter := bson.M{"_id": oid, "version": l.Version}
	update := bson.M{"$set": bson.M{
		"value":          doc.Value,
		"area":           doc.Area,
		"phase":          doc.Phase,
		"subject":        doc.Subject,
		"discount_rate":  doc.DiscountRate,
		"price":          doc.Price,
		"process_number": doc.ProcessNumber,
		"description":    doc.Description,
		"capacity":       doc.Capacity,
		"acquired":       doc.Acquired,
		"quotas":         doc.Quotas,
		"reserved":       doc.Reserved,
		"version":        l.Version + 1,
		"updated_at":     doc.UpdatedAt,
	}}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("save listing: %w", err)
	}
	if res.MatchedCount == 0 {
		n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid})
		if err != nil {
			return fmt.Errorf("save listing: %w", err)
		}
		if n == 0 {
			return domain.ErrListingNotFound
		}
		return domain.ErrVersionConflict
	}

	l.Version++
	return nil
}

// Delete removes the listing together with its embedded quotas.
func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrListingNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{})
}

// CountReservations sums the number of quota records across all listings.
func (r *ListingRepository) CountReservations(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$project", Value: bson.M{"n": bson.M{"$size": bson.M{"$ifNull": bson.A{"$quotas", bson.A{}}}}}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$n"}}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("count reservations: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Total int64 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("count reservations: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

// EnsureIndexes creates necessary indexes on the listings collection.
func (r *ListingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "acquired", Value: 1}}},
		{Keys: bson.D{{Key: "quotas.user_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func fromDomain(l *domain.Listing) mongoListing {
	quotas := make([]mongoQuota, len(l.Quotas))
	for i, q := range l.Quotas {
		quotas[i] = mongoQuota{
			UserID:    q.UserID,
			Quantity:  q.Quantity,
			CreatedAt: q.CreatedAt.UTC(),
			UpdatedAt: q.UpdatedAt.UTC(),
		}
	}
	return mongoListing{
		Value:         l.Value,
		Area:          l.Area,
		Phase:         l.Phase,
		Subject:       l.Subject,
		DiscountRate:  l.DiscountRate,
		Price:         l.Price,
		ProcessNumber: l.ProcessNumber,
		Description:   l.Description,
		Capacity:      l.Capacity,
		Acquired:      l.Acquired,
		Quotas:        quotas,
		Reserved:      l.UsedQuotas(),
		Version:       l.Version,
		CreatedAt:     l.CreatedAt.UTC(),
		UpdatedAt:     l.UpdatedAt.UTC(),
	}
}

func (m *mongoListing) toDomain() *domain.Listing {
	quotas := make([]domain.Quota, len(m.Quotas))
	for i, q := range m.Quotas {
		quotas[i] = domain.Quota{
			UserID:    q.UserID,
			Quantity:  q.Quantity,
			CreatedAt: q.CreatedAt.UTC(),
			UpdatedAt: q.UpdatedAt.UTC(),
		}
	}
	return &domain.Listing{
		ID:            m.ID.Hex(),
		Value:         m.Value,
		Area:          m.Area,
		Phase:         m.Phase,
		Subject:       m.Subject,
		DiscountRate:  m.DiscountRate,
		Price:         m.Price,
		ProcessNumber: m.ProcessNumber,
		Description:   m.Description,
		Capacity:      m.Capacity,
		Acquired:      m.Acquired,
		Quotas:        quotas,
		Version:       m.Version,
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}
