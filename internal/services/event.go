package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventconsole/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

func NewEventService(eventRepo domain.EventRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

// validateEventDates enforces the console's one hard date rule: the
// registration window must close before the event starts.
func validateEventDates(regEnd, start time.Time) error {
	if regEnd.IsZero() || start.IsZero() {
		return nil
	}
	if !regEnd.Before(start) {
		return domain.ErrInvalidInput
	}
	return nil
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event.Name = strings.TrimSpace(event.Name)
	if event.Name == "" || strings.TrimSpace(event.Venue) == "" {
		return domain.ErrInvalidInput
	}
	if err := validateEventDates(event.RegEnd, event.StartDate); err != nil {
		return err
	}
	if event.Status == "" {
		event.Status = domain.StatusStartingSoon
	}
	if !domain.ValidEventStatus(event.Status) {
		return domain.ErrInvalidInput
	}
	for _, t := range event.Tiers {
		if t.Type == "" || t.Quantity < 0 || t.PriceCents < 0 {
			return domain.ErrInvalidInput
		}
		t.Remaining = t.Quantity
	}

	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()
	return s.eventRepo.Create(ctx, event)
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, total, err := s.eventRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, total, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	current, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	// Validate the date rule against the merged view of the patch and the
	// stored row, so a partial update cannot break the ordering.
	regEnd := current.RegEnd
	if patch.RegEnd != nil {
		regEnd = *patch.RegEnd
	}
	start := current.StartDate
	if patch.StartDate != nil {
		start = *patch.StartDate
	}
	if err := validateEventDates(regEnd, start); err != nil {
		return nil, err
	}

	updated, err := s.eventRepo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func (s *eventService) ArchiveEvent(ctx context.Context, id string) error {
	return s.SetEventStatus(ctx, id, domain.StatusArchived)
}

func (s *eventService) SetEventStatus(ctx context.Context, id string, status domain.EventStatus) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !domain.ValidEventStatus(status) {
		return domain.ErrInvalidInput
	}
	if err := s.eventRepo.SetStatus(ctx, id, status); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("set event status: %w", err)
	}
	return nil
}

func (s *eventService) AddTicketTier(ctx context.Context, eventID string, tier *domain.TicketTier) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if tier.Type == "" || tier.Quantity < 0 || tier.PriceCents < 0 {
		return domain.ErrInvalidInput
	}
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	tier.EventID = eventID
	tier.Remaining = tier.Quantity
	if err := s.eventRepo.AddTier(ctx, tier); err != nil {
		return fmt.Errorf("add tier: %w", err)
	}
	return nil
}

func (s *eventService) UpdateTicketTier(ctx context.Context, eventID, tierID string, patch domain.TierPatch) (*domain.TicketTier, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if patch.Quantity != nil && *patch.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	if patch.PriceCents != nil && *patch.PriceCents < 0 {
		return nil, domain.ErrInvalidInput
	}
	tier, err := s.eventRepo.UpdateTier(ctx, eventID, tierID, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update tier: %w", err)
	}
	return tier, nil
}

func (s *eventService) RemoveTicketTier(ctx context.Context, eventID, tierID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.eventRepo.RemoveTier(ctx, eventID, tierID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("remove tier: %w", err)
	}
	return nil
}
