package domain

import (
	"context"
	"time"
)

// Role is an account's console role. It lives on the account row and is
// resolved exactly once at login; it is never re-derived afterwards.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleOrganizer Role = "organizer"
)

// Account is a console user: an admin or an organizer.
// swagger:model Account
type Account struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AccountPatch names the account fields an update may overwrite.
type AccountPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues bearer tokens for an authenticated account.
type TokenIssuer interface {
	Issue(accountID, email string, role Role, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a bearer token and returns the account identity.
type TokenVerifier interface {
	Verify(token string) (accountID string, role Role, err error)
}

// AccountRepository defines storage operations for console accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	List(ctx context.Context) ([]*Account, error)
	Update(ctx context.Context, id string, patch AccountPatch) (*Account, error)
	Delete(ctx context.Context, id string) error
}

// AccountService defines login and account administration.
type AccountService interface {
	Login(ctx context.Context, email, password string) (token string, account *Account, err error)
	CreateAccount(ctx context.Context, firstName, lastName, email, password string, role Role) (*Account, error)
	GetAccount(ctx context.Context, id string) (*Account, error)
	ListAccounts(ctx context.Context) ([]*Account, error)
	UpdateAccount(ctx context.Context, id string, patch AccountPatch) (*Account, error)
	DeleteAccount(ctx context.Context, id string) error
}
