package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventconsole/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventColumns = `id, name, description, venue, start_date, end_date, start_time, end_time,
		reg_start, reg_end, status, poster_url, seat_map_url, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	var posterNull, seatMapNull sql.NullString
	err := row.Scan(
		&e.ID, &e.Name, &e.Description, &e.Venue, &e.StartDate, &e.EndDate,
		&e.StartTime, &e.EndTime, &e.RegStart, &e.RegEnd, &e.Status,
		&posterNull, &seatMapNull, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if posterNull.Valid {
		e.PosterURL = &posterNull.String
	}
	if seatMapNull.Valid {
		e.SeatMapURL = &seatMapNull.String
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO events (name, description, venue, start_date, end_date, start_time, end_time,
			reg_start, reg_end, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query,
		e.Name, e.Description, e.Venue, e.StartDate, e.EndDate, e.StartTime, e.EndTime,
		e.RegStart, e.RegEnd, e.Status, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		return err
	}

	for i, t := range e.Tiers {
		t.EventID = e.ID
		t.Position = i
		tierQuery := `
			INSERT INTO ticket_tiers (event_id, position, type, price_cents, quantity, remaining)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`
		if err := tx.QueryRowContext(ctx, tierQuery,
			t.EventID, t.Position, t.Type, t.PriceCents, t.Quantity, t.Remaining,
		).Scan(&t.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
	`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	tiers, err := r.listTiers(ctx, id)
	if err != nil {
		return nil, err
	}
	e.Tiers = tiers
	return e, nil
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	where := []string{}
	args := []any{}
	n := 1
	if filter.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", n))
		args = append(args, *filter.Status)
		n++
	} else if !filter.IncludeArchived {
		where = append(where, fmt.Sprintf("status <> $%d", n))
		args = append(args, domain.StatusArchived)
		n++
	}
	if filter.Query != "" {
		where = append(where, fmt.Sprintf("name ILIKE $%d", n))
		args = append(args, "%"+filter.Query+"%")
		n++
	}
	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM events %s`, whereClause)
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT `+eventColumns+`
		FROM events
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

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, e := range events {
		tiers, err := r.listTiers(ctx, e.ID)
		if err != nil {
			return nil, 0, err
		}
		e.Tiers = tiers
	}
	return events, total, nil
}

func (r *eventRepository) Update(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	n := 1
	add := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Venue != nil {
		add("venue", *patch.Venue)
	}
	if patch.StartDate != nil {
		add("start_date", *patch.StartDate)
	}
	if patch.EndDate != nil {
		add("end_date", *patch.EndDate)
	}
	if patch.StartTime != nil {
		add("start_time", *patch.StartTime)
	}
	if patch.EndTime != nil {
		add("end_time", *patch.EndTime)
	}
	if patch.RegStart != nil {
		add("reg_start", *patch.RegStart)
	}
	if patch.RegEnd != nil {
		add("reg_end", *patch.RegEnd)
	}
	if n == 1 {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d
		RETURNING `+eventColumns+`
	`, strings.Join(setClauses, ", "), n)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	tiers, err := r.listTiers(ctx, id)
	if err != nil {
		return nil, err
	}
	e.Tiers = tiers
	return e, nil
}

func (r *eventRepository) SetStatus(ctx context.Context, id string, status domain.EventStatus) error {
	query := `UPDATE events SET status = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetAssetURL writes a poster_url or seat_map_url column. The column name
// is constrained by the caller to the two known asset columns.
func (r *eventRepository) SetAssetURL(ctx context.Context, id, column, url string) error {
	if column != "poster_url" && column != "seat_map_url" {
		return domain.ErrInvalidInput
	}
	query := fmt.Sprintf(`UPDATE events SET %s = $1, updated_at = NOW() WHERE id = $2`, column)
	result, err := r.DB.ExecContext(ctx, query, url, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
