package postgres

import (
	"context"
	"database/sql"
	"testing"

	"eventconsole/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestEventRepository_AddTier(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tier := &domain.TicketTier{
		EventID:    "ev-1",
		Type:       "VIP",
		PriceCents: 15000,
		Quantity:   10,
		Remaining:  10,
	}
	mock.ExpectQuery(`INSERT INTO ticket_tiers`).
		WithArgs("ev-1", "VIP", int64(15000), 10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "position"}).AddRow("tier-1", 2))

	repo := NewEventRepository(db)
	err = repo.AddTier(ctx, tier)
	require.NoError(t, err)
	require.Equal(t, "tier-1", tier.ID)
	require.Equal(t, 2, tier.Position)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_UpdateTier(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		patch   domain.TierPatch
		mock    func(mock sqlmock.Sqlmock)
		check   func(t *testing.T, got *domain.TicketTier)
		wantErr error
	}{
		{
			name:  "quantity edit resets remaining",
			patch: domain.TierPatch{Quantity: intPtr(25)},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE ticket_tiers SET quantity = \$1, remaining = \$1`).
					WithArgs(25, "tier-1", "ev-1").
					WillReturnRows(tierRows().
						AddRow("tier-1", "ev-1", 0, "VIP", int64(15000), 25, 25))
			},
			check: func(t *testing.T, got *domain.TicketTier) {
				require.Equal(t, 25, got.Quantity)
				require.Equal(t, 25, got.Remaining)
			},
		},
		{
			name:  "price edit leaves remaining alone",
			patch: domain.TierPatch{PriceCents: int64Ptr(9900)},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE ticket_tiers SET price_cents = \$1`).
					WithArgs(int64(9900), "tier-1", "ev-1").
					WillReturnRows(tierRows().
						AddRow("tier-1", "ev-1", 0, "VIP", int64(9900), 10, 6))
			},
			check: func(t *testing.T, got *domain.TicketTier) {
				require.Equal(t, int64(9900), got.PriceCents)
				require.Equal(t, 6, got.Remaining)
			},
		},
		{
			name:  "not found",
			patch: domain.TierPatch{Quantity: intPtr(5)},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE ticket_tiers SET quantity = \$1, remaining = \$1`).
					WithArgs(5, "tier-1", "ev-1").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			got, err := repo.UpdateTier(ctx, "ev-1", "tier-1", tt.patch)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, got)
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			tt.check(t, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_RemoveTier(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM ticket_tiers WHERE id = \$1 AND event_id = \$2`).
		WithArgs("tier-missing", "ev-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewEventRepository(db)
	err = repo.RemoveTier(ctx, "ev-1", "tier-missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_DecrementRemaining(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE ticket_tiers\s+SET remaining = remaining - \$1\s+WHERE id = \$2 AND remaining >= \$1`).
					WithArgs(2, "tier-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "sold out when tier exists but short",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE ticket_tiers`).
					WithArgs(2, "tier-1").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(`SELECT EXISTS`).
					WithArgs("tier-1").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
			},
			wantErr: domain.ErrSoldOut,
		},
		{
			name: "not found when tier missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE ticket_tiers`).
					WithArgs(2, "tier-1").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(`SELECT EXISTS`).
					WithArgs("tier-1").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.DecrementRemaining(ctx, "tier-1", 2)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_IncrementRemaining(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "release is capped at quantity",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE ticket_tiers\s+SET remaining = LEAST\(remaining \+ \$1, quantity\)\s+WHERE id = \$2`).
					WithArgs(2, "tier-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found when tier missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE ticket_tiers`).
					WithArgs(2, "tier-1").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.IncrementRemaining(ctx, "tier-1", 2)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
