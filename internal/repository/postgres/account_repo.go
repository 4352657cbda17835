package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"eventconsole/internal/domain"
)

type accountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) domain.AccountRepository {
	return &accountRepository{
		DB: db,
	}
}

const accountColumns = `id, first_name, last_name, email, password_hash, salt, role, created_at, updated_at`

func scanAccount(row interface{ Scan(...any) error }) (*domain.Account, error) {
	a := &domain.Account{}
	err := row.Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.PasswordHash, &a.Salt,
		&a.Role, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *accountRepository) Create(ctx context.Context, a *domain.Account) error {
	query := `
		INSERT INTO accounts (first_name, last_name, email, password_hash, salt, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		a.FirstName, a.LastName, a.Email, a.PasswordHash, a.Salt, a.Role, a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE id = $1
	`
	a, err := scanAccount(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE email = $1
	`
	a, err := scanAccount(r.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *accountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]*domain.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *accountRepository) Update(ctx context.Context, id string, patch domain.AccountPatch) (*domain.Account, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	n := 1
	if patch.FirstName != nil {
		setClauses = append(setClauses, fmt.Sprintf("first_name = $%d", n))
		args = append(args, *patch.FirstName)
		n++
	}
	if patch.LastName != nil {
		setClauses = append(setClauses, fmt.Sprintf("last_name = $%d", n))
		args = append(args, *patch.LastName)
		n++
	}
	if patch.Email != nil {
		setClauses = append(setClauses, fmt.Sprintf("email = $%d", n))
		args = append(args, *patch.Email)
		n++
	}
	if n == 1 {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE accounts SET %s
		WHERE id = $%d
		RETURNING `+accountColumns+`
	`, strings.Join(setClauses, ", "), n)
	a, err := scanAccount(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}
	return a, nil
}

func (r *accountRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM accounts WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
