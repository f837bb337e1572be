package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/credjud/marketplace/internal/core/ports"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour
	defaultPendingTTL     = 2 * time.Minute
)

// IdempotencyStore remembers client-supplied idempotency keys in Redis.
// Key format: idem:reserve:<scope>:<key>
//
// A key is written as pending with a short TTL when a request claims it and
// rewritten as done with the full TTL once the reservation is granted. A
// request that dies mid-flight therefore only blocks its key until the
// pending TTL runs out.
type IdempotencyStore struct {
	client     *redis.Client
	ttl        time.Duration
	pendingTTL time.Duration
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given Redis client.
func NewIdempotencyStore(client *redis.Client, ttl, pendingTTL time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	if pendingTTL <= 0 {
		pendingTTL = defaultPendingTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl, pendingTTL: pendingTTL}
}

type idempotencyValue struct {
	ListingID  string                  `json:"listing_id"`
	Quantity   int                     `json:"quantity"`
	Status     ports.IdempotencyStatus `json:"status"`
	UserTotal  int                     `json:"user_total,omitempty"`
	Available  int                     `json:"available,omitempty"`
	ReservedAt time.Time               `json:"reserved_at,omitempty"`
}

// Begin atomically stores rec as pending. When the key is already taken the
// stored record is returned instead.
func (s *IdempotencyStore) Begin(ctx context.Context, scope, key string, rec ports.IdempotencyRecord) (*ports.IdempotencyRecord, bool, error) {
	rec.Status = ports.IdempotencyPending
	payload, err := encodeRecord(rec)
	if err != nil {
		return nil, false, err
	}

	k := s.key(scope, key)
	// A second round covers the key expiring between SETNX and GET.
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := s.client.SetNX(ctx, k, payload, s.pendingTTL).Result()
		if err != nil {
			return nil, false, fmt.Errorf("idempotency claim: %w", err)
		}
		if ok {
			return nil, true, nil
		}

		raw, err := s.client.Get(ctx, k).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, false, fmt.Errorf("idempotency lookup: %w", err)
		}
		stored, err := decodeRecord(raw)
		if err != nil {
			return nil, false, err
		}
		return stored, false, nil
	}
	return nil, false, errors.New("idempotency claim: key expired twice during claim")
}

// Complete overwrites the key with the done record and the full TTL.
func (s *IdempotencyStore) Complete(ctx context.Context, scope, key string, rec ports.IdempotencyRecord) error {
	rec.Status = ports.IdempotencyDone
	payload, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(scope, key), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency complete: %w", err)
	}
	return nil
}

// Release forgets a claimed key so a failed request can be retried with it.
func (s *IdempotencyStore) Release(ctx context.Context, scope, key string) error {
	if err := s.client.Del(ctx, s.key(scope, key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(scope, key string) string {
	return fmt.Sprintf("idem:reserve:%s:%s", scope, key)
}

func encodeRecord(rec ports.IdempotencyRecord) ([]byte, error) {
	b, err := json.Marshal(idempotencyValue(rec))
	if err != nil {
		return nil, fmt.Errorf("idempotency encode: %w", err)
	}
	return b, nil
}

func decodeRecord(raw []byte) (*ports.IdempotencyRecord, error) {
	var v idempotencyValue
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("idempotency decode: %w", err)
	}
	rec := ports.IdempotencyRecord(v)
	return &rec, nil
}
