package domain

import "time"

// ReservationEntry is an audit record of one granted reservation.
type ReservationEntry struct {
	ListingID      string
	UserID         string
	Quantity       int
	UserTotal      int
	Available      int
	IdempotencyKey string
	ReservedAt     time.Time
}
