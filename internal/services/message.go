package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventconsole/internal/domain"
)

type messageService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.RegistrationRepository
	conversationRepo domain.ConversationRepository
	mailer           domain.Mailer
	contextTimeout   time.Duration
}

func NewMessageService(
	eventRepo domain.EventRepository,
	registrationRepo domain.RegistrationRepository,
	conversationRepo domain.ConversationRepository,
	mailer domain.Mailer,
	timeout time.Duration,
) domain.MessageService {
	return &messageService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		conversationRepo: conversationRepo,
		mailer:           mailer,
		contextTimeout:   timeout,
	}
}

func (s *messageService) SendAnnouncement(ctx context.Context, eventID, subject, body string) (sent int, failed []string, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	subject = strings.TrimSpace(subject)
	if subject == "" || strings.TrimSpace(body) == "" {
		return 0, nil, domain.ErrInvalidInput
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, nil, domain.ErrNotFound
		}
		return 0, nil, fmt.Errorf("get event: %w", err)
	}

	regs, err := s.registrationRepo.ListAllByEvent(ctx, eventID)
	if err != nil {
		return 0, nil, fmt.Errorf("list registrations: %w", err)
	}

	// One conversation per distinct customer email; several registrations
	// may share an address.
	recipients := make([]string, 0, len(regs))
	seenEmail := make(map[string]struct{})
	for _, reg := range regs {
		if _, ok := seenEmail[reg.Email]; ok {
			continue
		}
		seenEmail[reg.Email] = struct{}{}
		recipients = append(recipients, reg.Email)
	}

	for _, email := range recipients {
		conv, err := s.conversationRepo.GetOrCreate(ctx, eventID, email)
		if err != nil {
			failed = append(failed, email)
			continue
		}
		msg := &domain.Message{
			ConversationID: conv.ID,
			SenderRole:     string(domain.RoleOrganizer),
			Subject:        subject,
			Body:           body,
			CreatedAt:      time.Now(),
		}
		if err := s.conversationRepo.AppendMessage(ctx, msg); err != nil {
			failed = append(failed, email)
			continue
		}
		data := &domain.AnnouncementEmailData{
			To:        email,
			EventName: event.Name,
			Subject:   subject,
			Body:      body,
		}
		if err := s.mailer.SendAnnouncement(ctx, data); err != nil {
			failed = append(failed, email)
			continue
		}
		sent++
	}
	return sent, failed, nil
}

func (s *messageService) ListConversations(ctx context.Context, eventID string) ([]*domain.Conversation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	convs, err := s.conversationRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	if convs == nil {
		convs = []*domain.Conversation{}
	}
	return convs, nil
}

func (s *messageService) ListMessages(ctx context.Context, conversationID string) ([]*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	msgs, err := s.conversationRepo.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if msgs == nil {
		msgs = []*domain.Message{}
	}
	return msgs, nil
}
