package domain

import "context"

// TierSales is the per-tier slice of a sales summary. Remaining is
// quantity minus tickets sold, floored at zero for display.
type TierSales struct {
	Type         string `json:"type"`
	TicketsSold  int    `json:"tickets_sold"`
	RevenueCents int64  `json:"revenue_cents"`
	Quantity     int    `json:"quantity"`
	Remaining    int    `json:"remaining"`
}

// SalesSummary is the aggregate of all registrations for one event, or
// across all events when EventID is empty. Amounts are integer cents.
// swagger:model SalesSummary
type SalesSummary struct {
	EventID      string      `json:"event_id,omitempty"`
	TicketsSold  int         `json:"tickets_sold"`
	RevenueCents int64       `json:"revenue_cents"`
	ByTier       []TierSales `json:"by_tier"`
}

// SalesService folds registration records into display aggregates. Every
// call refetches and refolds; there is no cache.
type SalesService interface {
	EventSummary(ctx context.Context, eventID string) (*SalesSummary, error)
	GlobalSummary(ctx context.Context) (*SalesSummary, error)
}
