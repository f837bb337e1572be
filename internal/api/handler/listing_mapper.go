package handler

import (
	"github.com/credjud/marketplace/internal/core/domain"
	"github.com/credjud/marketplace/internal/core/ports"
)

func toListingResponse(l *domain.Listing) listingResponse {
	quotas := make([]quotaResponse, 0, len(l.Quotas))
	for _, q := range l.Quotas {
		quotas = append(quotas, quotaResponse{
			UserID:    q.UserID,
			Quantity:  q.Quantity,
			CreatedAt: q.CreatedAt,
			UpdatedAt: q.UpdatedAt,
		})
	}
	return listingResponse{
		ID:            l.ID,
		Value:         l.Value,
		Area:          l.Area,
		Phase:         l.Phase,
		Subject:       l.Subject,
		DiscountRate:  l.DiscountRate,
		Price:         l.Price,
		ProcessNumber: l.ProcessNumber,
		Description:   l.Description,
		Capacity:      l.Capacity,
		Reserved:      l.UsedQuotas(),
		Available:     l.Available(),
		Acquired:      l.Acquired,
		Quotas:        quotas,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

func toListingResponses(ls []*domain.Listing) []listingResponse {
	out := make([]listingResponse, 0, len(ls))
	for _, l := range ls {
		out = append(out, toListingResponse(l))
	}
	return out
}

func toCreateInput(r createListingRequest) ports.CreateListingInput {
	return ports.CreateListingInput{
		Value:         r.Value,
		Area:          r.Area,
		Phase:         r.Phase,
		Subject:       r.Subject,
		DiscountRate:  r.DiscountRate,
		Price:         r.Price,
		ProcessNumber: r.ProcessNumber,
		Description:   r.Description,
		Capacity:      r.Capacity,
		Acquired:      r.Acquired,
	}
}

func toUpdateInput(id string, r updateListingRequest) ports.UpdateListingInput {
	return ports.UpdateListingInput{
		ID:            id,
		Value:         r.Value,
		Area:          r.Area,
		Phase:         r.Phase,
		Subject:       r.Subject,
		DiscountRate:  r.DiscountRate,
		Price:         r.Price,
		ProcessNumber: r.ProcessNumber,
		Description:   r.Description,
		Capacity:      r.Capacity,
		Acquired:      r.Acquired,
	}
}
