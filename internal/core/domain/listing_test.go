package domain

import (
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

var reservedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestListing_Reserve_CreatesQuota(t *testing.T) {
	g := NewWithT(t)
	l := &Listing{ID: "l1", Capacity: 10}

	err := l.Reserve("alice", 4, reservedAt)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(l.Quotas).To(HaveLen(1))
	g.Expect(l.Quotas[0]).To(Equal(Quota{UserID: "alice", Quantity: 4, CreatedAt: reservedAt, UpdatedAt: reservedAt}))
	g.Expect(l.Available()).To(Equal(6))
}

func TestListing_Reserve_AggregatesSameUser(t *testing.T) {
	g := NewWithT(t)
	l := &Listing{ID: "l1", Capacity: 10}

	g.Expect(l.Reserve("alice", 3, reservedAt)).To(Succeed())
	later := reservedAt.Add(time.Minute)
	g.Expect(l.Reserve("alice", 5, later)).To(Succeed())

	g.Expect(l.Quotas).To(HaveLen(1))
	g.Expect(l.Quotas[0].Quantity).To(Equal(8))
	g.Expect(l.Quotas[0].CreatedAt).To(Equal(reservedAt))
	g.Expect(l.Quotas[0].UpdatedAt).To(Equal(later))
}

func TestListing_Reserve_CapacityExceededLeavesListingUntouched(t *testing.T) {
	g := NewWithT(t)
	l := &Listing{ID: "l1", Capacity: 5}
	g.Expect(l.Reserve("alice", 3, reservedAt)).To(Succeed())
	before := l.Clone()

	err := l.Reserve("bob", 3, reservedAt.Add(time.Hour))
	g.Expect(err).To(MatchError(ErrCapacityExceeded))
	g.Expect(l).To(Equal(before))
}

func TestListing_Reserve_InvalidQuantity(t *testing.T) {
	g := NewWithT(t)
	l := &Listing{ID: "l1", Capacity: 5}

	for _, qty := range []int{0, -1, -100} {
		g.Expect(l.Reserve("alice", qty, reservedAt)).To(MatchError(ErrInvalidQuantity))
	}
	g.Expect(l.Quotas).To(BeEmpty())
}

func TestListing_Reserve_ExactlyFillsCapacity(t *testing.T) {
	g := NewWithT(t)
	l := &Listing{ID: "l1", Capacity: 100}

	g.Expect(l.Reserve("alice", 60, reservedAt)).To(Succeed())
	g.Expect(l.Available()).To(Equal(40))

	g.Expect(l.Reserve("bob", 50, reservedAt)).To(MatchError(ErrCapacityExceeded))
	g.Expect(l.Available()).To(Equal(40))

	g.Expect(l.Reserve("bob", 40, reservedAt)).To(Succeed())
	g.Expect(l.Available()).To(Equal(0))
	g.Expect(l.UsedQuotas()).To(Equal(100))
}

func TestListing_SetCapacity(t *testing.T) {
	g := NewWithT(t)
	l := &Listing{ID: "l1", Capacity: 10}
	g.Expect(l.Reserve("alice", 6, reservedAt)).To(Succeed())

	g.Expect(l.SetCapacity(5)).To(MatchError(ErrCapacityBelowReserved))
	g.Expect(l.Capacity).To(Equal(10))

	g.Expect(l.SetCapacity(-1)).To(MatchError(ErrValidation))

	g.Expect(l.SetCapacity(6)).To(Succeed())
	g.Expect(l.Available()).To(Equal(0))
}

func TestListing_Validate(t *testing.T) {
	g := NewWithT(t)

	g.Expect((&Listing{Capacity: 1, Value: 10, Price: 5, DiscountRate: 30}).Validate()).To(Succeed())
	g.Expect((&Listing{Capacity: -1}).Validate()).To(MatchError(ErrValidation))
	g.Expect((&Listing{Value: -1}).Validate()).To(MatchError(ErrValidation))
	g.Expect((&Listing{Price: -1}).Validate()).To(MatchError(ErrValidation))
	g.Expect((&Listing{DiscountRate: 101}).Validate()).To(MatchError(ErrValidation))
	g.Expect((&Listing{Capacity: 1, Quotas: []Quota{{UserID: "a", Quantity: 2}}}).Validate()).
		To(MatchError(ErrCapacityBelowReserved))
}

func TestListing_CloneDoesNotAliasQuotas(t *testing.T) {
	g := NewWithT(t)
	l := &Listing{ID: "l1", Capacity: 10, Quotas: []Quota{{UserID: "alice", Quantity: 1}}}

	c := l.Clone()
	c.Quotas[0].Quantity = 9

	g.Expect(l.Quotas[0].Quantity).To(Equal(1))
}
