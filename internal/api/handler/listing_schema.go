package handler

import "time"

type createListingRequest struct {
	Value         float64 `json:"value"          validate:"gte=0"`
	Area          string  `json:"area"           validate:"required"`
	Phase         string  `json:"phase"`
	Subject       string  `json:"subject"`
	DiscountRate  float64 `json:"discount_rate"  validate:"gte=0,lte=100"`
	Price         float64 `json:"price"          validate:"gte=0"`
	ProcessNumber string  `json:"process_number"`
	Description   string  `json:"description"`
	Capacity      int     `json:"capacity"       validate:"gte=0"`
	Acquired      bool    `json:"acquired"`
}

// updateListingRequest is a partial update: absent fields stay unchanged.
type updateListingRequest struct {
	Value         *float64 `json:"value"          validate:"omitempty,gte=0"`
	Area          *string  `json:"area"           validate:"omitempty,min=1"`
	Phase         *string  `json:"phase"`
	Subject       *string  `json:"subject"`
	DiscountRate  *float64 `json:"discount_rate"  validate:"omitempty,gte=0,lte=100"`
	Price         *float64 `json:"price"          validate:"omitempty,gte=0"`
	ProcessNumber *string  `json:"process_number"`
	Description   *string  `json:"description"`
	Capacity      *int     `json:"capacity"       validate:"omitempty,gte=0"`
	Acquired      *bool    `json:"acquired"`
}

type quotaResponse struct {
	UserID    string    `json:"user_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type listingResponse struct {
	ID            string          `json:"id"`
	Value         float64         `json:"value"`
	Area          string          `json:"area"`
	Phase         string          `json:"phase"`
	Subject       string          `json:"subject"`
	DiscountRate  float64         `json:"discount_rate"`
	Price         float64         `json:"price"`
	ProcessNumber string          `json:"process_number"`
	Description   string          `json:"description"`
	Capacity      int             `json:"capacity"`
	Reserved      int             `json:"reserved"`
	Available     int             `json:"available"`
	Acquired      bool            `json:"acquired"`
	Quotas        []quotaResponse `json:"quotas"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type confirmRequest struct {
	Quantity *int `json:"quantity" validate:"required,gt=0"`
}

type confirmResponse struct {
	Success   bool `json:"success"`
	UserTotal int  `json:"user_total"`
	Available int  `json:"available"`
	Replayed  bool `json:"replayed,omitempty"`
}

type promoteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type dashboardResponse struct {
	Users        int64 `json:"users"`
	Listings     int64 `json:"listings"`
	Reservations int64 `json:"reservations"`
}
