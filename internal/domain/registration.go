package domain

import (
	"context"
	"time"
)

// CheckInStatus is the scan state of a registration. The only transition
// is pending -> registered; registered is terminal.
type CheckInStatus string

const (
	CheckInPending    CheckInStatus = "pending"
	CheckInRegistered CheckInStatus = "registered"
)

// Registration is a purchased ticket record for one event. Its ID is
// minted application-side and doubles as the ticket identifier encoded
// into the attendee's QR code.
// swagger:model Registration
type Registration struct {
	ID          string        `json:"id"`
	EventID     string        `json:"event_id"`
	TierType    string        `json:"tier_type"`
	Name        string        `json:"name"`
	Email       string        `json:"email"`
	Phone       string        `json:"phone"`
	Quantity    int           `json:"quantity"`
	AmountCents int64         `json:"amount_cents"`
	Status      CheckInStatus `json:"status"`
	CheckedInAt *time.Time    `json:"checked_in_at"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// RegistrationRepository defines storage operations for registrations.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *Registration) error
	GetByID(ctx context.Context, id string) (*Registration, error)
	ListByEvent(ctx context.Context, eventID, search string, params PaginationParams) ([]*Registration, int, error)
	ListAllByEvent(ctx context.Context, eventID string) ([]*Registration, error)
	ListAll(ctx context.Context) ([]*Registration, error)
	// CheckIn transitions the registration from pending to registered via
	// a conditional write. It returns ErrAlreadyCheckedIn if the row
	// exists but is not pending, ErrNotFound if it does not exist.
	CheckIn(ctx context.Context, id string) (*Registration, error)
}

// RegistrationService defines purchase, listing, and check-in operations.
type RegistrationService interface {
	// RecordPurchase atomically reserves quantity tickets from the named
	// tier and records the registration. Returns ErrSoldOut when the tier
	// has fewer than quantity tickets remaining.
	RecordPurchase(ctx context.Context, eventID, tierType, name, email, phone string, quantity int) (*Registration, error)
	ListRegistrations(ctx context.Context, eventID, search string, params PaginationParams) ([]*Registration, int, error)
	// CheckIn decodes a scanned QR payload and applies the pending ->
	// registered transition for the ticket it names, scoped to eventID.
	CheckIn(ctx context.Context, eventID, payload string) (*Registration, error)
}
