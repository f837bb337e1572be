package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/credjud/marketplace/internal/core/domain"
)

func TestHTTPErrorHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"listing not found", domain.ErrListingNotFound, http.StatusNotFound, domain.ErrListingNotFound.Error()},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound, domain.ErrUserNotFound.Error()},
		{"capacity exceeded wrapped", fmt.Errorf("%w: requested 50, available 40", domain.ErrCapacityExceeded), http.StatusBadRequest,
			"requested quotas exceed the available balance: requested 50, available 40"},
		{"invalid quantity", domain.ErrInvalidQuantity, http.StatusBadRequest, domain.ErrInvalidQuantity.Error()},
		{"validation", fmt.Errorf("%w: quantity is required", domain.ErrValidation), http.StatusBadRequest, "validation failed: quantity is required"},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, domain.ErrInvalidCredentials.Error()},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized, domain.ErrUnauthorized.Error()},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, domain.ErrForbidden.Error()},
		{"duplicate email", domain.ErrUserExists, http.StatusConflict, domain.ErrUserExists.Error()},
		{"retries exhausted", domain.ErrReservationConflict, http.StatusConflict, domain.ErrReservationConflict.Error()},
		{"idempotency key reused", domain.ErrIdempotencyKeyReused, http.StatusConflict, domain.ErrIdempotencyKeyReused.Error()},
		{"idempotency key in flight", domain.ErrIdempotencyInProgress, http.StatusConflict, domain.ErrIdempotencyInProgress.Error()},
		{"capacity below reserved", domain.ErrCapacityBelowReserved, http.StatusConflict, domain.ErrCapacityBelowReserved.Error()},
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload"},
		{"unknown", errors.New("mongo: connection reset"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/api/credits/x/confirm", nil)
			rec := httptest.NewRecorder()

			NewHTTPErrorHandler(zerolog.Nop())(tt.err, e.NewContext(req, rec))

			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error != tt.msg {
				t.Fatalf("expected message %q, got %q", tt.msg, body.Error)
			}
		})
	}
}

func TestHTTPErrorHandler_SkipsCommittedResponse(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrListingNotFound, c)

	if rec.Code != http.StatusOK || rec.Body.String() != "done" {
		t.Fatalf("committed response must be left alone, got %d %q", rec.Code, rec.Body.String())
	}
}
