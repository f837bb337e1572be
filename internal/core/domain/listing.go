package domain

import (
	"fmt"
	"time"
)

// Quota is a single user's reservation against a listing. It lives inside
// the listing aggregate and is keyed by UserID: a user never holds two quotas
// on the same listing.
type Quota struct {
	UserID    string    `json:"user_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Listing is a judicial credit offered for sale, divided into Capacity quota
// units. It is the aggregate root for its quotas.
//
// Invariant: UsedQuotas() <= Capacity.
type Listing struct {
	ID            string
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
	Quotas        []Quota
	// Version is bumped on every successful save and guards concurrent writers.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UsedQuotas is the sum of every reservation held against the listing.
func (l *Listing) UsedQuotas() int {
	used := 0
	for _, q := range l.Quotas {
		used += q.Quantity
	}
	return used
}

// Available is the number of quota units still open for reservation.
func (l *Listing) Available() int {
	return l.Capacity - l.UsedQuotas()
}

// QuotaOf returns the reservation held by userID, or nil.
func (l *Listing) QuotaOf(userID string) *Quota {
	for i := range l.Quotas {
		if l.Quotas[i].UserID == userID {
			return &l.Quotas[i]
		}
	}
	return nil
}

// Reserve grants qty quota units to userID. Repeated reservations by the same
// user are folded into one quota. On error the listing is left untouched.
func (l *Listing) Reserve(userID string, qty int, at time.Time) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if available := l.Available(); qty > available {
		return fmt.Errorf("%w: requested %d, available %d", ErrCapacityExceeded, qty, available)
	}

	if q := l.QuotaOf(userID); q != nil {
		q.Quantity += qty
		q.UpdatedAt = at
	} else {
		l.Quotas = append(l.Quotas, Quota{
			UserID:    userID,
			Quantity:  qty,
			CreatedAt: at,
			UpdatedAt: at,
		})
	}
	l.UpdatedAt = at
	return nil
}

// SetCapacity changes the total quota count without breaking the invariant.
func (l *Listing) SetCapacity(capacity int) error {
	if capacity < 0 {
		return fmt.Errorf("%w: capacity must be >= 0", ErrValidation)
	}
	if used := l.UsedQuotas(); capacity < used {
		return fmt.Errorf("%w: capacity %d, reserved %d", ErrCapacityBelowReserved, capacity, used)
	}
	l.Capacity = capacity
	return nil
}

// Validate checks the field-level rules of a listing.
func (l *Listing) Validate() error {
	switch {
	case l.Capacity < 0:
		return fmt.Errorf("%w: capacity must be >= 0", ErrValidation)
	case l.Value < 0:
		return fmt.Errorf("%w: value must be >= 0", ErrValidation)
	case l.Price < 0:
		return fmt.Errorf("%w: price must be >= 0", ErrValidation)
	case l.DiscountRate < 0 || l.DiscountRate > 100:
		return fmt.Errorf("%w: discount rate must be between 0 and 100", ErrValidation)
	case l.UsedQuotas() > l.Capacity:
		return ErrCapacityBelowReserved
	}
	return nil
}

// Clone returns a deep copy so callers can mutate it without aliasing quotas.
func (l *Listing) Clone() *Listing {
	c := *l
	c.Quotas = append([]Quota(nil), l.Quotas...)
	return &c
}
