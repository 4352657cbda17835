package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"eventconsole/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAccountRepo is an in-memory AccountRepository for tests.
type fakeAccountRepo struct {
	byID   map[string]*domain.Account
	nextID int
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{byID: make(map[string]*domain.Account), nextID: 1}
}

func (f *fakeAccountRepo) Create(ctx context.Context, a *domain.Account) error {
	for _, existing := range f.byID {
		if existing.Email == a.Email {
			return domain.ErrDuplicateEmail
		}
	}
	a.ID = fmt.Sprintf("acc-%d", f.nextID)
	f.nextID++
	f.byID[a.ID] = a
	return nil
}

func (f *fakeAccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if a, ok := f.byID[id]; ok {
		return a, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	for _, a := range f.byID {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAccountRepo) List(ctx context.Context) ([]*domain.Account, error) {
	out := []*domain.Account{}
	for _, a := range f.byID {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAccountRepo) Update(ctx context.Context, id string, patch domain.AccountPatch) (*domain.Account, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.FirstName != nil {
		a.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		a.LastName = *patch.LastName
	}
	if patch.Email != nil {
		a.Email = *patch.Email
	}
	return a, nil
}

func (f *fakeAccountRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeHasher records passwords verbatim so tests can compare directly.
type fakeHasher struct{}

func (fakeHasher) GenerateSalt() (string, error) { return "salt", nil }

func (fakeHasher) Hash(salt, password string) (string, error) {
	return salt + ":" + password, nil
}

func (fakeHasher) Compare(hash, salt, password string) error {
	if hash != salt+":"+password {
		return errors.New("mismatch")
	}
	return nil
}

// fakeIssuer captures what it was asked to sign.
type fakeIssuer struct {
	accountID string
	role      domain.Role
	expiry    time.Duration
}

func (f *fakeIssuer) Issue(accountID, email string, role domain.Role, expiry time.Duration) (string, error) {
	f.accountID = accountID
	f.role = role
	f.expiry = expiry
	return "token-" + accountID, nil
}

func TestAccountService_Login(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAccountRepo()
	issuer := &fakeIssuer{}
	svc := NewAccountService(repo, fakeHasher{}, issuer, time.Hour, time.Second)

	_, err := svc.CreateAccount(ctx, "Grace", "Hopper", "grace@example.com", "compile-it", domain.RoleAdmin)
	require.NoError(t, err)

	t.Run("success issues a token carrying the stored role", func(t *testing.T) {
		token, account, err := svc.Login(ctx, " Grace@Example.com ", "compile-it")
		require.NoError(t, err)
		assert.Equal(t, "token-"+account.ID, token)
		assert.Equal(t, domain.RoleAdmin, issuer.role)
		assert.Equal(t, time.Hour, issuer.expiry)
	})

	t.Run("unknown email and wrong password give the same answer", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody@example.com", "whatever")
		require.ErrorIs(t, err, domain.ErrForbidden)

		_, _, err = svc.Login(ctx, "grace@example.com", "wrong")
		require.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestAccountService_CreateAccount(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		role     domain.Role
		wantErr  error
	}{
		{
			name:     "success",
			email:    "grace@example.com",
			password: "compile-it",
			role:     domain.RoleOrganizer,
		},
		{
			name:     "invalid email",
			email:    "not-an-email",
			password: "compile-it",
			role:     domain.RoleOrganizer,
			wantErr:  domain.ErrInvalidInput,
		},
		{
			name:     "short password",
			email:    "grace@example.com",
			password: "short",
			role:     domain.RoleOrganizer,
			wantErr:  domain.ErrInvalidInput,
		},
		{
			name:     "unknown role",
			email:    "grace@example.com",
			password: "compile-it",
			role:     "superuser",
			wantErr:  domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAccountService(newFakeAccountRepo(), fakeHasher{}, &fakeIssuer{}, time.Hour, time.Second)
			account, err := svc.CreateAccount(ctx, "Grace", "Hopper", tt.email, tt.password, tt.role)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, account.ID)
			assert.Equal(t, tt.role, account.Role)
			assert.Equal(t, "salt:"+tt.password, account.PasswordHash)
		})
	}

	t.Run("duplicate email", func(t *testing.T) {
		svc := NewAccountService(newFakeAccountRepo(), fakeHasher{}, &fakeIssuer{}, time.Hour, time.Second)
		_, err := svc.CreateAccount(ctx, "Grace", "Hopper", "grace@example.com", "compile-it", domain.RoleAdmin)
		require.NoError(t, err)
		_, err = svc.CreateAccount(ctx, "Grace", "Again", "grace@example.com", "compile-it", domain.RoleAdmin)
		require.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})
}

func TestAccountService_UpdateAccount(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAccountRepo()
	svc := NewAccountService(repo, fakeHasher{}, &fakeIssuer{}, time.Hour, time.Second)

	account, err := svc.CreateAccount(ctx, "Grace", "Hopper", "grace@example.com", "compile-it", domain.RoleAdmin)
	require.NoError(t, err)

	bad := "not-an-email"
	_, err = svc.UpdateAccount(ctx, account.ID, domain.AccountPatch{Email: &bad})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	mixed := " New@Example.com "
	updated, err := svc.UpdateAccount(ctx, account.ID, domain.AccountPatch{Email: &mixed})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)
}
