package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"eventconsole/internal/domain"
)

const minPasswordLen = 8

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type accountService struct {
	accountRepo    domain.AccountRepository
	hasher         domain.PasswordHasher
	issuer         domain.TokenIssuer
	tokenExpiry    time.Duration
	contextTimeout time.Duration
}

func NewAccountService(
	accountRepo domain.AccountRepository,
	hasher domain.PasswordHasher,
	issuer domain.TokenIssuer,
	tokenExpiry time.Duration,
	timeout time.Duration,
) domain.AccountService {
	return &accountService{
		accountRepo:    accountRepo,
		hasher:         hasher,
		issuer:         issuer,
		tokenExpiry:    tokenExpiry,
		contextTimeout: timeout,
	}
}

func (s *accountService) Login(ctx context.Context, email, password string) (string, *domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	account, err := s.accountRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		// Same answer for unknown email and bad password.
		return "", nil, domain.ErrForbidden
	}
	if err := s.hasher.Compare(account.PasswordHash, account.Salt, password); err != nil {
		return "", nil, domain.ErrForbidden
	}

	// The role is resolved here, once, and rides in the token from now on.
	token, err := s.issuer.Issue(account.ID, account.Email, account.Role, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, account, nil
}

func (s *accountService) CreateAccount(ctx context.Context, firstName, lastName, email, password string, role domain.Role) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return nil, domain.ErrInvalidInput
	}
	if len(password) < minPasswordLen {
		return nil, domain.ErrInvalidInput
	}
	if role != domain.RoleAdmin && role != domain.RoleOrganizer {
		return nil, domain.ErrInvalidInput
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	account := &domain.Account{
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		Email:        email,
		PasswordHash: hash,
		Salt:         salt,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	return account, nil
}

func (s *accountService) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	accounts, err := s.accountRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	if accounts == nil {
		accounts = []*domain.Account{}
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, id string, patch domain.AccountPatch) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if patch.Email != nil {
		normalized := strings.TrimSpace(strings.ToLower(*patch.Email))
		if !emailRegexp.MatchString(normalized) {
			return nil, domain.ErrInvalidInput
		}
		patch.Email = &normalized
	}
	account, err := s.accountRepo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("update account: %w", err)
	}
	return account, nil
}

func (s *accountService) DeleteAccount(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.accountRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}
