package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventconsole/internal/domain"
)

const tierColumns = `id, event_id, position, type, price_cents, quantity, remaining`

func scanTier(row interface{ Scan(...any) error }) (*domain.TicketTier, error) {
	t := &domain.TicketTier{}
	err := row.Scan(&t.ID, &t.EventID, &t.Position, &t.Type, &t.PriceCents, &t.Quantity, &t.Remaining)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *eventRepository) listTiers(ctx context.Context, eventID string) ([]*domain.TicketTier, error) {
	query := `
		SELECT ` + tierColumns + `
		FROM ticket_tiers
		WHERE event_id = $1
		ORDER BY position
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tiers := make([]*domain.TicketTier, 0)
	for rows.Next() {
		t, err := scanTier(rows)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, t)
	}
	return tiers, rows.Err()
}

func (r *eventRepository) AddTier(ctx context.Context, tier *domain.TicketTier) error {
	query := `
		INSERT INTO ticket_tiers (event_id, position, type, price_cents, quantity, remaining)
		VALUES ($1, (SELECT COALESCE(MAX(position), -1) + 1 FROM ticket_tiers WHERE event_id = $1), $2, $3, $4, $5)
		RETURNING id, position
	`
	return r.DB.QueryRowContext(ctx, query,
		tier.EventID, tier.Type, tier.PriceCents, tier.Quantity, tier.Remaining,
	).Scan(&tier.ID, &tier.Position)
}

// UpdateTier overwrites the named fields. A quantity edit resets
// remaining to the new quantity so no stale remaining count survives.
func (r *eventRepository) UpdateTier(ctx context.Context, eventID, tierID string, patch domain.TierPatch) (*domain.TicketTier, error) {
	setClauses := []string{}
	args := []any{}
	n := 1
	if patch.Type != nil {
		setClauses = append(setClauses, fmt.Sprintf("type = $%d", n))
		args = append(args, *patch.Type)
		n++
	}
	if patch.PriceCents != nil {
		setClauses = append(setClauses, fmt.Sprintf("price_cents = $%d", n))
		args = append(args, *patch.PriceCents)
		n++
	}
	if patch.Quantity != nil {
		setClauses = append(setClauses, fmt.Sprintf("quantity = $%d, remaining = $%d", n, n))
		args = append(args, *patch.Quantity)
		n++
	}
	if len(setClauses) == 0 {
		return r.GetTierByID(ctx, eventID, tierID)
	}
	args = append(args, tierID, eventID)
	query := fmt.Sprintf(`
		UPDATE ticket_tiers SET %s
		WHERE id = $%d AND event_id = $%d
		RETURNING `+tierColumns+`
	`, strings.Join(setClauses, ", "), n, n+1)
	t, err := scanTier(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *eventRepository) GetTierByID(ctx context.Context, eventID, tierID string) (*domain.TicketTier, error) {
	query := `
		SELECT ` + tierColumns + `
		FROM ticket_tiers
		WHERE id = $1 AND event_id = $2
	`
	t, err := scanTier(r.DB.QueryRowContext(ctx, query, tierID, eventID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *eventRepository) GetTierByType(ctx context.Context, eventID, tierType string) (*domain.TicketTier, error) {
	query := `
		SELECT ` + tierColumns + `
		FROM ticket_tiers
		WHERE event_id = $1 AND type = $2
	`
	t, err := scanTier(r.DB.QueryRowContext(ctx, query, eventID, tierType))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *eventRepository) RemoveTier(ctx context.Context, eventID, tierID string) error {
	query := `DELETE FROM ticket_tiers WHERE id = $1 AND event_id = $2`
	result, err := r.DB.ExecContext(ctx, query, tierID, eventID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DecrementRemaining reserves n tickets only if at least n remain. The
// guard lives in the WHERE clause so concurrent purchases cannot drive
// remaining below zero.
func (r *eventRepository) DecrementRemaining(ctx context.Context, tierID string, n int) error {
	query := `
		UPDATE ticket_tiers
		SET remaining = remaining - $1
		WHERE id = $2 AND remaining >= $1
	`
	result, err := r.DB.ExecContext(ctx, query, n, tierID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		var exists bool
		if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM ticket_tiers WHERE id = $1)`, tierID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrSoldOut
	}
	return nil
}

// IncrementRemaining releases n reserved tickets back to the tier after
// a failed purchase. LEAST caps the count at quantity so a stray double
// release cannot oversell the tier.
func (r *eventRepository) IncrementRemaining(ctx context.Context, tierID string, n int) error {
	query := `
		UPDATE ticket_tiers
		SET remaining = LEAST(remaining + $1, quantity)
		WHERE id = $2
	`
	result, err := r.DB.ExecContext(ctx, query, n, tierID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
