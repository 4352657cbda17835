package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"eventconsole/internal/domain"
)

type salesService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.RegistrationRepository
	contextTimeout   time.Duration
}

func NewSalesService(
	eventRepo domain.EventRepository,
	registrationRepo domain.RegistrationRepository,
	timeout time.Duration,
) domain.SalesService {
	return &salesService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		contextTimeout:   timeout,
	}
}

// foldRegistrations sums quantities and amounts per tier type. The fold
// is commutative: only + over ints, so iteration order is irrelevant.
func foldRegistrations(regs []*domain.Registration) (ticketsSold int, revenueCents int64, byType map[string]*domain.TierSales) {
	byType = make(map[string]*domain.TierSales)
	for _, reg := range regs {
		ticketsSold += reg.Quantity
		revenueCents += reg.AmountCents
		ts, ok := byType[reg.TierType]
		if !ok {
			ts = &domain.TierSales{Type: reg.TierType}
			byType[reg.TierType] = ts
		}
		ts.TicketsSold += reg.Quantity
		ts.RevenueCents += reg.AmountCents
	}
	return ticketsSold, revenueCents, byType
}

func (s *salesService) EventSummary(ctx context.Context, eventID string) (*domain.SalesSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	regs, err := s.registrationRepo.ListAllByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	ticketsSold, revenueCents, byType := foldRegistrations(regs)

	// Tiers drive the breakdown so capacity shows even for tiers with no
	// sales yet. Sales against a since-renamed tier type still appear,
	// appended after the live tiers.
	summary := &domain.SalesSummary{
		EventID:      eventID,
		TicketsSold:  ticketsSold,
		RevenueCents: revenueCents,
		ByTier:       []domain.TierSales{},
	}
	seen := make(map[string]struct{})
	for _, tier := range event.Tiers {
		ts := domain.TierSales{Type: tier.Type, Quantity: tier.Quantity}
		if sold, ok := byType[tier.Type]; ok {
			ts.TicketsSold = sold.TicketsSold
			ts.RevenueCents = sold.RevenueCents
		}
		ts.Remaining = tier.Quantity - ts.TicketsSold
		if ts.Remaining < 0 {
			ts.Remaining = 0
		}
		summary.ByTier = append(summary.ByTier, ts)
		seen[tier.Type] = struct{}{}
	}
	orphans := make([]domain.TierSales, 0)
	for tierType, sold := range byType {
		if _, ok := seen[tierType]; ok {
			continue
		}
		orphans = append(orphans, *sold)
	}
	sort.Slice(orphans, func(i, j int) bool { return orphans[i].Type < orphans[j].Type })
	summary.ByTier = append(summary.ByTier, orphans...)

	return summary, nil
}

func (s *salesService) GlobalSummary(ctx context.Context) (*domain.SalesSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	regs, err := s.registrationRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	ticketsSold, revenueCents, byType := foldRegistrations(regs)
	summary := &domain.SalesSummary{
		TicketsSold:  ticketsSold,
		RevenueCents: revenueCents,
		ByTier:       make([]domain.TierSales, 0, len(byType)),
	}
	for _, ts := range byType {
		summary.ByTier = append(summary.ByTier, *ts)
	}
	sort.Slice(summary.ByTier, func(i, j int) bool { return summary.ByTier[i].Type < summary.ByTier[j].Type })
	return summary, nil
}
