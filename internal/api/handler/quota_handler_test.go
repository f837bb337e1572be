package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	. "github.com/onsi/gomega"

	"github.com/credjud/marketplace/internal/api/middleware"
	"github.com/credjud/marketplace/internal/core/domain"
	"github.com/credjud/marketplace/internal/core/ports"
)

type stubLedger struct {
	calls  []ports.ReserveInput
	result *ports.ReservationResult
	err    error
}

func (s *stubLedger) Reserve(_ context.Context, in ports.ReserveInput) (*ports.ReservationResult, error) {
	s.calls = append(s.calls, in)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func confirmContext(e *echo.Echo, body, userID string) (echo.Context, *http.Request, func() []byte) {
	req, rec := jsonRequest(http.MethodPost, "/api/credits/l1/confirm", body)
	c := e.NewContext(req, rec)
	c.SetPath("/api/credits/:id/confirm")
	c.SetParamNames("id")
	c.SetParamValues("l1")
	if userID != "" {
		c.Set(middleware.CtxUserID, userID)
		c.Set(middleware.CtxRole, domain.RoleUser)
	}
	return c, req, func() []byte { return rec.Body.Bytes() }
}

func TestQuotaHandler_Confirm_Success(t *testing.T) {
	g := NewWithT(t)
	ledger := &stubLedger{result: &ports.ReservationResult{ListingID: "l1", UserID: "u1", UserTotal: 60, Available: 40}}
	h := NewQuotaHandler(ledger)

	c, req, body := confirmContext(newTestEcho(), `{"quantity":60}`, "u1")
	req.Header.Set(HeaderIdempotencyKey, "k-1")

	g.Expect(h.Confirm(c)).To(Succeed())
	g.Expect(c.Response().Status).To(Equal(http.StatusOK))

	var resp map[string]any
	g.Expect(json.Unmarshal(body(), &resp)).To(Succeed())
	g.Expect(resp).To(HaveKeyWithValue("success", true))
	g.Expect(resp).To(HaveKeyWithValue("available", BeNumerically("==", 40)))

	g.Expect(ledger.calls).To(ConsistOf(ports.ReserveInput{
		ListingID: "l1", UserID: "u1", Quantity: 60, IdempotencyKey: "k-1",
	}))
}

func TestQuotaHandler_Confirm_RejectsBadQuantity(t *testing.T) {
	for _, body := range []string{`{}`, `{"quantity":0}`, `{"quantity":-3}`} {
		t.Run(body, func(t *testing.T) {
			g := NewWithT(t)
			ledger := &stubLedger{}
			c, _, _ := confirmContext(newTestEcho(), body, "u1")

			err := NewQuotaHandler(ledger).Confirm(c)
			g.Expect(err).To(MatchError(domain.ErrValidation))
			g.Expect(ledger.calls).To(BeEmpty())
		})
	}
}

func TestQuotaHandler_Confirm_NonIntegerQuantity(t *testing.T) {
	for _, body := range []string{`{"quantity":1.5}`, `{"quantity":"ten"}`, `not-json`} {
		t.Run(body, func(t *testing.T) {
			ledger := &stubLedger{}
			c, _, _ := confirmContext(newTestEcho(), body, "u1")

			assertHTTPError(t, NewQuotaHandler(ledger).Confirm(c), http.StatusBadRequest)
			if len(ledger.calls) != 0 {
				t.Fatalf("ledger must not be called")
			}
		})
	}
}

func TestQuotaHandler_Confirm_MissingCaller(t *testing.T) {
	ledger := &stubLedger{}
	c, _, _ := confirmContext(newTestEcho(), `{"quantity":1}`, "")

	assertHTTPError(t, NewQuotaHandler(ledger).Confirm(c), http.StatusUnauthorized)
	if len(ledger.calls) != 0 {
		t.Fatalf("ledger must not be called")
	}
}

func TestQuotaHandler_Confirm_PropagatesLedgerErrors(t *testing.T) {
	g := NewWithT(t)
	ledger := &stubLedger{err: domain.ErrCapacityExceeded}
	c, _, _ := confirmContext(newTestEcho(), `{"quantity":50}`, "u1")

	err := NewQuotaHandler(ledger).Confirm(c)
	g.Expect(errors.Is(err, domain.ErrCapacityExceeded)).To(BeTrue())
	g.Expect(c.Response().Committed).To(BeFalse())
}

func TestQuotaHandler_Confirm_IdempotencyConflictIsNotSuccess(t *testing.T) {
	g := NewWithT(t)
	ledger := &stubLedger{err: domain.ErrIdempotencyInProgress}
	c, req, body := confirmContext(newTestEcho(), `{"quantity":5}`, "u1")
	req.Header.Set(HeaderIdempotencyKey, "k-2")

	err := NewQuotaHandler(ledger).Confirm(c)
	g.Expect(err).To(MatchError(domain.ErrIdempotencyInProgress))
	g.Expect(c.Response().Committed).To(BeFalse())
	g.Expect(string(body())).ToNot(ContainSubstring("success"))
}

func TestReservationResult(t *testing.T) {
	tests := []struct {
		res  *ports.ReservationResult
		err  error
		want string
	}{
		{&ports.ReservationResult{}, nil, "granted"},
		{&ports.ReservationResult{Replayed: true}, nil, "replayed"},
		{nil, domain.ErrCapacityExceeded, "capacity_exceeded"},
		{nil, domain.ErrInvalidQuantity, "invalid_quantity"},
		{nil, domain.ErrListingNotFound, "not_found"},
		{nil, domain.ErrReservationConflict, "conflict"},
		{nil, domain.ErrIdempotencyInProgress, "idempotency_conflict"},
		{nil, domain.ErrIdempotencyKeyReused, "idempotency_conflict"},
		{nil, errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		if got := reservationResult(tt.res, tt.err); got != tt.want {
			t.Errorf("reservationResult(%v, %v) = %q, want %q", tt.res, tt.err, got, tt.want)
		}
	}
}
