package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventconsole/internal/domain"
)

// ticketPayload is the one authoritative QR payload schema. Earlier
// ticket-issuing paths also produced a comma-delimited field list; that
// form is rejected outright rather than dual-parsed.
type ticketPayload struct {
	Version  int    `json:"v"`
	TicketID string `json:"ticket_id"`
}

const ticketPayloadVersion = 1

// decodeTicketPayload parses a scanned QR payload and returns the ticket
// ID it names. Returns ErrLegacyPayload for the comma-delimited legacy
// form and ErrInvalidInput for anything else unparseable.
func decodeTicketPayload(payload string) (string, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return "", domain.ErrInvalidInput
	}
	if !strings.HasPrefix(payload, "{") {
		if strings.Contains(payload, ",") {
			return "", domain.ErrLegacyPayload
		}
		return "", domain.ErrInvalidInput
	}
	var p ticketPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return "", domain.ErrInvalidInput
	}
	if p.Version != ticketPayloadVersion || p.TicketID == "" {
		return "", domain.ErrInvalidInput
	}
	return p.TicketID, nil
}

type registrationService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.RegistrationRepository
	contextTimeout   time.Duration
}

func NewRegistrationService(
	eventRepo domain.EventRepository,
	registrationRepo domain.RegistrationRepository,
	timeout time.Duration,
) domain.RegistrationService {
	return &registrationService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		contextTimeout:   timeout,
	}
}

func (s *registrationService) RecordPurchase(ctx context.Context, eventID, tierType, name, email, phone string, quantity int) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if quantity < 1 || strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		return nil, domain.ErrInvalidInput
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.Status == domain.StatusArchived || event.Status == domain.StatusClosed {
		return nil, domain.ErrInvalidInput
	}

	tier, err := s.eventRepo.GetTierByType(ctx, eventID, tierType)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get tier: %w", err)
	}

	// Reserve the tickets first. The decrement carries the sold-out guard;
	// a failed insert below releases the reservation again.
	if err := s.eventRepo.DecrementRemaining(ctx, tier.ID, quantity); err != nil {
		if errors.Is(err, domain.ErrSoldOut) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("reserve tickets: %w", err)
	}

	now := time.Now()
	reg := &domain.Registration{
		ID:          uuid.NewString(),
		EventID:     eventID,
		TierType:    tier.Type,
		Name:        strings.TrimSpace(name),
		Email:       strings.TrimSpace(strings.ToLower(email)),
		Phone:       strings.TrimSpace(phone),
		Quantity:    quantity,
		AmountCents: tier.PriceCents * int64(quantity),
		Status:      domain.CheckInPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		// Release the reservation on a detached context so the tickets
		// come back even when the insert failed on a cancelled ctx.
		releaseCtx, releaseCancel := context.WithTimeout(context.WithoutCancel(ctx), s.contextTimeout)
		defer releaseCancel()
		if relErr := s.eventRepo.IncrementRemaining(releaseCtx, tier.ID, quantity); relErr != nil {
			return nil, errors.Join(
				fmt.Errorf("create registration: %w", err),
				fmt.Errorf("release tickets: %w", relErr),
			)
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}
	return reg, nil
}

func (s *registrationService) ListRegistrations(ctx context.Context, eventID, search string, params domain.PaginationParams) ([]*domain.Registration, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, 0, domain.ErrNotFound
		}
		return nil, 0, fmt.Errorf("get event: %w", err)
	}
	regs, total, err := s.registrationRepo.ListByEvent(ctx, eventID, search, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list registrations: %w", err)
	}
	if regs == nil {
		regs = []*domain.Registration{}
	}
	return regs, total, nil
}

func (s *registrationService) CheckIn(ctx context.Context, eventID, payload string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	ticketID, err := decodeTicketPayload(payload)
	if err != nil {
		return nil, err
	}

	// Scope the scan to the event being staffed: a valid ticket for a
	// different event reads as "no matching record".
	existing, err := s.registrationRepo.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	if existing.EventID != eventID {
		return nil, domain.ErrNotFound
	}

	reg, err := s.registrationRepo.CheckIn(ctx, ticketID)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyCheckedIn) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("check in: %w", err)
	}
	return reg, nil
}
