package domain

import "errors"

// Sentinel errors shared across services and repositories. Repositories
// translate driver-level errors into these; controllers map them to HTTP
// status codes.
var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidInput     = errors.New("invalid input")
	ErrDuplicateEmail   = errors.New("email already in use")
	ErrSoldOut          = errors.New("ticket tier sold out")
	ErrAlreadyCheckedIn = errors.New("ticket already checked in")
	ErrLegacyPayload    = errors.New("unsupported legacy ticket payload")
)
