package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"eventconsole/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errInsertFailed  = errors.New("insert failed")
	errReleaseFailed = errors.New("release failed")
)

// fakeRegistrationRepo is an in-memory RegistrationRepository for tests.
type fakeRegistrationRepo struct {
	byID      map[string]*domain.Registration
	createErr error
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{byID: make(map[string]*domain.Registration)}
}

func (f *fakeRegistrationRepo) Create(ctx context.Context, reg *domain.Registration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.byID[reg.ID] = reg
	return nil
}

func (f *fakeRegistrationRepo) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	if reg, ok := f.byID[id]; ok {
		return reg, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRegistrationRepo) ListByEvent(ctx context.Context, eventID, search string, params domain.PaginationParams) ([]*domain.Registration, int, error) {
	regs, _ := f.ListAllByEvent(ctx, eventID)
	return regs, len(regs), nil
}

func (f *fakeRegistrationRepo) ListAllByEvent(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	out := []*domain.Registration{}
	for _, reg := range f.byID {
		if reg.EventID == eventID {
			out = append(out, reg)
		}
	}
	return out, nil
}

func (f *fakeRegistrationRepo) ListAll(ctx context.Context) ([]*domain.Registration, error) {
	out := []*domain.Registration{}
	for _, reg := range f.byID {
		out = append(out, reg)
	}
	return out, nil
}

func (f *fakeRegistrationRepo) CheckIn(ctx context.Context, id string) (*domain.Registration, error) {
	reg, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if reg.Status != domain.CheckInPending {
		return nil, domain.ErrAlreadyCheckedIn
	}
	now := time.Now()
	reg.Status = domain.CheckInRegistered
	reg.CheckedInAt = &now
	return reg, nil
}

func TestDecodeTicketPayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantID  string
		wantErr error
	}{
		{
			name:    "valid json payload",
			payload: `{"v":1,"ticket_id":"reg-1"}`,
			wantID:  "reg-1",
		},
		{
			name:    "legacy comma-delimited form",
			payload: "reg-1,ev-1,VIP,2",
			wantErr: domain.ErrLegacyPayload,
		},
		{
			name:    "empty",
			payload: "  ",
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "garbage",
			payload: "not-a-ticket",
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "wrong version",
			payload: `{"v":2,"ticket_id":"reg-1"}`,
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "missing ticket id",
			payload: `{"v":1}`,
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "malformed json",
			payload: `{"v":1,`,
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeTicketPayload(tt.payload)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got)
		})
	}
}

func TestRegistrationService_RecordPurchase(t *testing.T) {
	ctx := context.Background()

	setup := func(status domain.EventStatus, remaining int) (*fakeEventRepo, *fakeRegistrationRepo, domain.RegistrationService, *domain.Event) {
		eventRepo := newFakeEventRepo()
		regRepo := newFakeRegistrationRepo()
		event := seedEvent(eventRepo, status, &domain.TicketTier{
			Type: "VIP", PriceCents: 15000, Quantity: 10, Remaining: remaining,
		})
		svc := NewRegistrationService(eventRepo, regRepo, time.Second)
		return eventRepo, regRepo, svc, event
	}

	t.Run("success computes amount and reserves tickets", func(t *testing.T) {
		eventRepo, _, svc, event := setup(domain.StatusOngoing, 10)

		reg, err := svc.RecordPurchase(ctx, event.ID, "VIP", "Ada Lovelace", " Ada@Example.com ", "555-0101", 2)
		require.NoError(t, err)
		assert.NotEmpty(t, reg.ID)
		assert.Equal(t, "ada@example.com", reg.Email)
		assert.Equal(t, int64(30000), reg.AmountCents)
		assert.Equal(t, domain.CheckInPending, reg.Status)

		tier, err := eventRepo.GetTierByType(ctx, event.ID, "VIP")
		require.NoError(t, err)
		assert.Equal(t, 8, tier.Remaining)
	})

	t.Run("sold out when fewer tickets remain than requested", func(t *testing.T) {
		_, regRepo, svc, event := setup(domain.StatusOngoing, 1)

		_, err := svc.RecordPurchase(ctx, event.ID, "VIP", "Ada", "ada@example.com", "", 2)
		require.ErrorIs(t, err, domain.ErrSoldOut)
		assert.Empty(t, regRepo.byID)
	})

	t.Run("closed event rejects purchases", func(t *testing.T) {
		_, _, svc, event := setup(domain.StatusClosed, 10)

		_, err := svc.RecordPurchase(ctx, event.ID, "VIP", "Ada", "ada@example.com", "", 1)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown tier", func(t *testing.T) {
		_, _, svc, event := setup(domain.StatusOngoing, 10)

		_, err := svc.RecordPurchase(ctx, event.ID, "Backstage", "Ada", "ada@example.com", "", 1)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("invalid quantity", func(t *testing.T) {
		_, _, svc, event := setup(domain.StatusOngoing, 10)

		_, err := svc.RecordPurchase(ctx, event.ID, "VIP", "Ada", "ada@example.com", "", 0)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("failed insert releases the reserved tickets", func(t *testing.T) {
		eventRepo, regRepo, svc, event := setup(domain.StatusOngoing, 10)
		regRepo.createErr = errInsertFailed

		_, err := svc.RecordPurchase(ctx, event.ID, "VIP", "Ada", "ada@example.com", "", 2)
		require.ErrorIs(t, err, errInsertFailed)
		assert.Empty(t, regRepo.byID)

		tier, err := eventRepo.GetTierByType(ctx, event.ID, "VIP")
		require.NoError(t, err)
		assert.Equal(t, 10, tier.Remaining)
	})

	t.Run("failed release surfaces both errors", func(t *testing.T) {
		eventRepo, regRepo, svc, event := setup(domain.StatusOngoing, 10)
		regRepo.createErr = errInsertFailed
		eventRepo.incremErr = errReleaseFailed

		_, err := svc.RecordPurchase(ctx, event.ID, "VIP", "Ada", "ada@example.com", "", 2)
		require.ErrorIs(t, err, errInsertFailed)
		require.ErrorIs(t, err, errReleaseFailed)
	})
}

func TestRegistrationService_CheckIn(t *testing.T) {
	ctx := context.Background()

	setup := func() (domain.RegistrationService, *domain.Event, *domain.Registration) {
		eventRepo := newFakeEventRepo()
		regRepo := newFakeRegistrationRepo()
		event := seedEvent(eventRepo, domain.StatusOngoing, &domain.TicketTier{
			Type: "VIP", PriceCents: 15000, Quantity: 10, Remaining: 10,
		})
		reg := &domain.Registration{
			ID:       "reg-1",
			EventID:  event.ID,
			TierType: "VIP",
			Name:     "Ada Lovelace",
			Email:    "ada@example.com",
			Quantity: 2,
			Status:   domain.CheckInPending,
		}
		regRepo.byID[reg.ID] = reg
		return NewRegistrationService(eventRepo, regRepo, time.Second), event, reg
	}

	t.Run("first scan transitions to registered", func(t *testing.T) {
		svc, event, _ := setup()

		got, err := svc.CheckIn(ctx, event.ID, `{"v":1,"ticket_id":"reg-1"}`)
		require.NoError(t, err)
		assert.Equal(t, domain.CheckInRegistered, got.Status)
		assert.NotNil(t, got.CheckedInAt)
	})

	t.Run("second scan reports already checked in", func(t *testing.T) {
		svc, event, _ := setup()

		_, err := svc.CheckIn(ctx, event.ID, `{"v":1,"ticket_id":"reg-1"}`)
		require.NoError(t, err)
		_, err = svc.CheckIn(ctx, event.ID, `{"v":1,"ticket_id":"reg-1"}`)
		require.ErrorIs(t, err, domain.ErrAlreadyCheckedIn)
	})

	t.Run("ticket for a different event reads as missing", func(t *testing.T) {
		svc, _, _ := setup()

		_, err := svc.CheckIn(ctx, "ev-other", `{"v":1,"ticket_id":"reg-1"}`)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("legacy payload is rejected outright", func(t *testing.T) {
		svc, event, _ := setup()

		_, err := svc.CheckIn(ctx, event.ID, "reg-1,ev-1,VIP,2")
		require.ErrorIs(t, err, domain.ErrLegacyPayload)
	})

	t.Run("unknown ticket", func(t *testing.T) {
		svc, event, _ := setup()

		_, err := svc.CheckIn(ctx, event.ID, `{"v":1,"ticket_id":"reg-missing"}`)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}
