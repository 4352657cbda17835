package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventconsole/internal/domain"
)

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

const registrationColumns = `id, event_id, tier_type, name, email, phone, quantity, amount_cents,
		status, checked_in_at, created_at, updated_at`

func scanRegistration(row interface{ Scan(...any) error }) (*domain.Registration, error) {
	reg := &domain.Registration{}
	var checkedInNull sql.NullTime
	err := row.Scan(
		&reg.ID, &reg.EventID, &reg.TierType, &reg.Name, &reg.Email, &reg.Phone,
		&reg.Quantity, &reg.AmountCents, &reg.Status, &checkedInNull,
		&reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if checkedInNull.Valid {
		reg.CheckedInAt = &checkedInNull.Time
	}
	return reg, nil
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	query := `
		INSERT INTO registrations (id, event_id, tier_type, name, email, phone, quantity, amount_cents,
			status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.DB.ExecContext(ctx, query,
		reg.ID, reg.EventID, reg.TierType, reg.Name, reg.Email, reg.Phone,
		reg.Quantity, reg.AmountCents, reg.Status, reg.CreatedAt, reg.UpdatedAt,
	)
	return err
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE id = $1
	`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) ListByEvent(ctx context.Context, eventID, search string, params domain.PaginationParams) ([]*domain.Registration, int, error) {
	where := []string{"event_id = $1"}
	args := []any{eventID}
	n := 2
	if search != "" {
		where = append(where, fmt.Sprintf("name ILIKE $%d", n))
		args = append(args, "%"+search+"%")
		n++
	}
	whereClause := "WHERE " + strings.Join(where, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM registrations %s`, whereClause)
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT `+registrationColumns+`
		FROM registrations
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, n, n+1)
	args = append(args, params.PageSize, params.Offset())

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	regs := make([]*domain.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, 0, err
		}
		regs = append(regs, reg)
	}
	return regs, total, rows.Err()
}

func (r *registrationRepository) ListAllByEvent(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE event_id = $1
		ORDER BY created_at DESC
	`
	return r.queryRegistrations(ctx, query, eventID)
}

func (r *registrationRepository) ListAll(ctx context.Context) ([]*domain.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		ORDER BY created_at DESC
	`
	return r.queryRegistrations(ctx, query)
}

func (r *registrationRepository) queryRegistrations(ctx context.Context, query string, args ...any) ([]*domain.Registration, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := make([]*domain.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

// CheckIn applies the pending -> registered transition as a conditional
// write. The WHERE clause is the duplicate-scan guard: two concurrent
// scans race on the same row and exactly one update succeeds.
func (r *registrationRepository) CheckIn(ctx context.Context, id string) (*domain.Registration, error) {
	query := `
		UPDATE registrations
		SET status = $1, checked_in_at = NOW(), updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING ` + registrationColumns + `
	`
	for attempt := 0; ; attempt++ {
		reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, domain.CheckInRegistered, id, domain.CheckInPending))
		if err == nil {
			return reg, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		// No row transitioned: distinguish "already scanned" from "no such ticket".
		existing, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		if existing.Status == domain.CheckInRegistered {
			return nil, domain.ErrAlreadyCheckedIn
		}

		// The row still reads pending, so the conditional write lost to a
		// scan that had not committed at read time. Retry once; losing
		// again means another scan owns the transition.
		if attempt == 1 {
			return nil, domain.ErrAlreadyCheckedIn
		}
	}
}
