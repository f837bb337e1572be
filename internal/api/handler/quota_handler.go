package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/credjud/marketplace/internal/api/metrics"
	"github.com/credjud/marketplace/internal/core/domain"
	"github.com/credjud/marketplace/internal/core/ports"
)

// HeaderIdempotencyKey lets clients retry a confirmation safely.
const HeaderIdempotencyKey = "Idempotency-Key"

// QuotaHandler exposes the quota ledger.
type QuotaHandler struct {
	ledger ports.QuotaLedger
}

func NewQuotaHandler(ledger ports.QuotaLedger) *QuotaHandler {
	return &QuotaHandler{ledger: ledger}
}

// Confirm reserves quota units of a listing for the caller.
//
// @Summary      Reserve quotas of a credit listing
// @Tags         credits
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id               path      string          true   "Listing ID"
// @Param        Idempotency-Key  header    string          false  "Makes retries safe"
// @Param        body             body      confirmRequest  true   "Quantity to reserve"
// @Success      200              {object}  confirmResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      500              {object}  errorResponse
// @Router       /api/credits/{id}/confirm [post]
func (h *QuotaHandler) Confirm(c echo.Context) error {
	userID, _, err := caller(c)
	if err != nil {
		return err
	}

	var req confirmRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "quantity must be a positive integer")
	}
	if err := c.Validate(&req); err != nil {
		metrics.ReservationsTotal.WithLabelValues("invalid_quantity").Inc()
		return err
	}

	start := time.Now()
	res, err := h.ledger.Reserve(c.Request().Context(), ports.ReserveInput{
		ListingID:      c.Param("id"),
		UserID:         userID,
		Quantity:       *req.Quantity,
		IdempotencyKey: c.Request().Header.Get(HeaderIdempotencyKey),
	})
	metrics.ReservationDuration.Observe(time.Since(start).Seconds())
	metrics.ReservationsTotal.WithLabelValues(reservationResult(res, err)).Inc()
	if err != nil {
		return err
	}
	if !res.Replayed {
		metrics.ReservedQuotasTotal.Add(float64(*req.Quantity))
	}

	return c.JSON(http.StatusOK, confirmResponse{
		Success:   true,
		UserTotal: res.UserTotal,
		Available: res.Available,
		Replayed:  res.Replayed,
	})
}

func reservationResult(res *ports.ReservationResult, err error) string {
	switch {
	case err == nil && res.Replayed:
		return "replayed"
	case err == nil:
		return "granted"
	case errors.Is(err, domain.ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, domain.ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, domain.ErrListingNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrReservationConflict):
		return "conflict"
	case errors.Is(err, domain.ErrIdempotencyKeyReused),
		errors.Is(err, domain.ErrIdempotencyInProgress):
		return "idempotency_conflict"
	default:
		return "error"
	}
}
