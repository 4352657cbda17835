package services

import (
	"context"
	"testing"
	"time"

	"eventconsole/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoldRegistrations_OrderIndependent(t *testing.T) {
	regs := []*domain.Registration{
		{TierType: "VIP", Quantity: 2, AmountCents: 30000},
		{TierType: "General", Quantity: 5, AmountCents: 25000},
		{TierType: "VIP", Quantity: 1, AmountCents: 15000},
	}
	reversed := []*domain.Registration{regs[2], regs[1], regs[0]}

	sold1, revenue1, byType1 := foldRegistrations(regs)
	sold2, revenue2, byType2 := foldRegistrations(reversed)

	assert.Equal(t, sold1, sold2)
	assert.Equal(t, revenue1, revenue2)
	require.Equal(t, len(byType1), len(byType2))
	for tierType, ts := range byType1 {
		assert.Equal(t, ts.TicketsSold, byType2[tierType].TicketsSold)
		assert.Equal(t, ts.RevenueCents, byType2[tierType].RevenueCents)
	}

	assert.Equal(t, 8, sold1)
	assert.Equal(t, int64(70000), revenue1)
	assert.Equal(t, 3, byType1["VIP"].TicketsSold)
}

func TestSalesService_EventSummary(t *testing.T) {
	ctx := context.Background()
	eventRepo := newFakeEventRepo()
	regRepo := newFakeRegistrationRepo()
	event := seedEvent(eventRepo, domain.StatusOngoing,
		&domain.TicketTier{Type: "VIP", PriceCents: 15000, Quantity: 10, Remaining: 2},
		&domain.TicketTier{Type: "General", PriceCents: 5000, Quantity: 100, Remaining: 100},
	)

	// Four VIP purchases of two tickets each.
	for i, id := range []string{"reg-1", "reg-2", "reg-3", "reg-4"} {
		regRepo.byID[id] = &domain.Registration{
			ID:          id,
			EventID:     event.ID,
			TierType:    "VIP",
			Quantity:    2,
			AmountCents: 30000,
			CreatedAt:   time.Date(2025, 5, 1, i, 0, 0, 0, time.UTC),
		}
	}

	svc := NewSalesService(eventRepo, regRepo, time.Second)
	summary, err := svc.EventSummary(ctx, event.ID)
	require.NoError(t, err)

	assert.Equal(t, event.ID, summary.EventID)
	assert.Equal(t, 8, summary.TicketsSold)
	assert.Equal(t, int64(120000), summary.RevenueCents)

	// Both tiers appear, the zero-sales tier included.
	require.Len(t, summary.ByTier, 2)
	vip := summary.ByTier[0]
	assert.Equal(t, "VIP", vip.Type)
	assert.Equal(t, 8, vip.TicketsSold)
	assert.Equal(t, 10, vip.Quantity)
	assert.Equal(t, 2, vip.Remaining)

	general := summary.ByTier[1]
	assert.Equal(t, "General", general.Type)
	assert.Equal(t, 0, general.TicketsSold)
	assert.Equal(t, 100, general.Remaining)
}

func TestSalesService_EventSummary_OrphanedTierType(t *testing.T) {
	ctx := context.Background()
	eventRepo := newFakeEventRepo()
	regRepo := newFakeRegistrationRepo()
	event := seedEvent(eventRepo, domain.StatusOngoing,
		&domain.TicketTier{Type: "General", PriceCents: 5000, Quantity: 100, Remaining: 100},
	)

	// A sale recorded against a tier type that was since renamed away.
	regRepo.byID["reg-1"] = &domain.Registration{
		ID: "reg-1", EventID: event.ID, TierType: "EarlyBird", Quantity: 3, AmountCents: 9000,
	}

	svc := NewSalesService(eventRepo, regRepo, time.Second)
	summary, err := svc.EventSummary(ctx, event.ID)
	require.NoError(t, err)

	require.Len(t, summary.ByTier, 2)
	assert.Equal(t, "General", summary.ByTier[0].Type)
	assert.Equal(t, "EarlyBird", summary.ByTier[1].Type)
	assert.Equal(t, 3, summary.ByTier[1].TicketsSold)
}

func TestSalesService_EventSummary_NotFound(t *testing.T) {
	ctx := context.Background()
	svc := NewSalesService(newFakeEventRepo(), newFakeRegistrationRepo(), time.Second)

	_, err := svc.EventSummary(ctx, "ev-missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSalesService_GlobalSummary(t *testing.T) {
	ctx := context.Background()
	eventRepo := newFakeEventRepo()
	regRepo := newFakeRegistrationRepo()

	regRepo.byID["reg-1"] = &domain.Registration{ID: "reg-1", EventID: "ev-1", TierType: "VIP", Quantity: 2, AmountCents: 30000}
	regRepo.byID["reg-2"] = &domain.Registration{ID: "reg-2", EventID: "ev-2", TierType: "General", Quantity: 4, AmountCents: 20000}

	svc := NewSalesService(eventRepo, regRepo, time.Second)
	summary, err := svc.GlobalSummary(ctx)
	require.NoError(t, err)

	assert.Empty(t, summary.EventID)
	assert.Equal(t, 6, summary.TicketsSold)
	assert.Equal(t, int64(50000), summary.RevenueCents)
	require.Len(t, summary.ByTier, 2)
	assert.Equal(t, "General", summary.ByTier[0].Type)
	assert.Equal(t, "VIP", summary.ByTier[1].Type)
}
