package domain

import (
	"context"
	"time"
)

// EventStatus is the lifecycle status of an event. Archiving is a status
// transition, never a physical delete: archived events stay fetchable by
// ID but are excluded from the default listing.
type EventStatus string

const (
	StatusStartingSoon EventStatus = "starting-soon"
	StatusOngoing      EventStatus = "ongoing"
	StatusClosed       EventStatus = "closed"
	StatusArchived     EventStatus = "archived"
)

// ValidEventStatus reports whether s is one of the known lifecycle statuses.
func ValidEventStatus(s EventStatus) bool {
	switch s {
	case StatusStartingSoon, StatusOngoing, StatusClosed, StatusArchived:
		return true
	}
	return false
}

// TicketTier is one priced admission class of an event. Remaining is
// maintained transactionally by the purchase path (atomic decrement with
// a floor at zero), never by form logic.
type TicketTier struct {
	ID         string `json:"id"`
	EventID    string `json:"event_id"`
	Position   int    `json:"position"`
	Type       string `json:"type"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
	Remaining  int    `json:"remaining"`
}

// Event represents a ticketed event with its ordered ticket tiers.
// Clock times are stored as "15:04" strings alongside the date columns,
// matching how the console captures them.
// swagger:model Event
type Event struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Venue       string        `json:"venue"`
	StartDate   time.Time     `json:"start_date"`
	EndDate     time.Time     `json:"end_date"`
	StartTime   string        `json:"start_time"`
	EndTime     string        `json:"end_time"`
	RegStart    time.Time     `json:"registration_start"`
	RegEnd      time.Time     `json:"registration_end"`
	Status      EventStatus   `json:"status"`
	PosterURL   *string       `json:"poster_url"`
	SeatMapURL  *string       `json:"seat_map_url"`
	Tiers       []*TicketTier `json:"tiers"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// EventPatch names the event fields an update may overwrite. Nil fields
// are left unchanged; writes are last-writer-wins.
type EventPatch struct {
	Name        *string
	Description *string
	Venue       *string
	StartDate   *time.Time
	EndDate     *time.Time
	StartTime   *string
	EndTime     *string
	RegStart    *time.Time
	RegEnd      *time.Time
}

// EventFilter narrows an event listing. The zero value lists every
// non-archived event.
type EventFilter struct {
	Status          *EventStatus
	Query           string
	IncludeArchived bool
}

// TierPatch names the tier fields an update may overwrite. A non-nil
// Quantity resets Remaining to the new quantity.
type TierPatch struct {
	Type       *string
	PriceCents *int64
	Quantity   *int
}

// EventRepository defines storage operations for events and their tiers.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
	Update(ctx context.Context, id string, patch EventPatch) (*Event, error)
	SetStatus(ctx context.Context, id string, status EventStatus) error
	SetAssetURL(ctx context.Context, id, column, url string) error

	AddTier(ctx context.Context, tier *TicketTier) error
	UpdateTier(ctx context.Context, eventID, tierID string, patch TierPatch) (*TicketTier, error)
	RemoveTier(ctx context.Context, eventID, tierID string) error
	GetTierByType(ctx context.Context, eventID, tierType string) (*TicketTier, error)
	// DecrementRemaining subtracts n from the tier's remaining count only
	// if at least n tickets remain; otherwise it returns ErrSoldOut.
	DecrementRemaining(ctx context.Context, tierID string, n int) error
	// IncrementRemaining returns n reserved tickets to the tier, capped
	// at the tier's quantity.
	IncrementRemaining(ctx context.Context, tierID string, n int) error
}

// EventService defines the organizer-facing event lifecycle operations.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetEvent(ctx context.Context, id string) (*Event, error)
	ListEvents(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
	UpdateEvent(ctx context.Context, id string, patch EventPatch) (*Event, error)
	ArchiveEvent(ctx context.Context, id string) error
	SetEventStatus(ctx context.Context, id string, status EventStatus) error

	AddTicketTier(ctx context.Context, eventID string, tier *TicketTier) error
	UpdateTicketTier(ctx context.Context, eventID, tierID string, patch TierPatch) (*TicketTier, error)
	RemoveTicketTier(ctx context.Context, eventID, tierID string) error
}
