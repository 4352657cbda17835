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

// fakeConversationRepo is an in-memory ConversationRepository for tests.
type fakeConversationRepo struct {
	byKey    map[string]*domain.Conversation
	messages map[string][]*domain.Message
	nextConv int
	nextMsg  int
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{
		byKey:    make(map[string]*domain.Conversation),
		messages: make(map[string][]*domain.Message),
		nextConv: 1,
		nextMsg:  1,
	}
}

func (f *fakeConversationRepo) GetOrCreate(ctx context.Context, eventID, customerEmail string) (*domain.Conversation, error) {
	key := eventID + "|" + customerEmail
	if c, ok := f.byKey[key]; ok {
		return c, nil
	}
	c := &domain.Conversation{
		ID:            fmt.Sprintf("conv-%d", f.nextConv),
		EventID:       eventID,
		CustomerEmail: customerEmail,
	}
	f.nextConv++
	f.byKey[key] = c
	return c, nil
}

func (f *fakeConversationRepo) ListByEvent(ctx context.Context, eventID string) ([]*domain.Conversation, error) {
	out := []*domain.Conversation{}
	for _, c := range f.byKey {
		if c.EventID == eventID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeConversationRepo) AppendMessage(ctx context.Context, msg *domain.Message) error {
	msg.ID = fmt.Sprintf("msg-%d", f.nextMsg)
	f.nextMsg++
	f.messages[msg.ConversationID] = append(f.messages[msg.ConversationID], msg)
	return nil
}

func (f *fakeConversationRepo) ListMessages(ctx context.Context, conversationID string) ([]*domain.Message, error) {
	return f.messages[conversationID], nil
}

// fakeMailer records recipients and can be told to fail for some.
type fakeMailer struct {
	sent   []string
	failTo map[string]bool
}

func (f *fakeMailer) SendAnnouncement(ctx context.Context, data *domain.AnnouncementEmailData) error {
	if f.failTo[data.To] {
		return errors.New("delivery refused")
	}
	f.sent = append(f.sent, data.To)
	return nil
}

func TestMessageService_SendAnnouncement(t *testing.T) {
	ctx := context.Background()

	setup := func(mailer *fakeMailer) (domain.MessageService, *fakeConversationRepo, *domain.Event) {
		eventRepo := newFakeEventRepo()
		regRepo := newFakeRegistrationRepo()
		convRepo := newFakeConversationRepo()
		event := seedEvent(eventRepo, domain.StatusOngoing)

		// Two registrations share an email address; three distinct customers.
		for i, email := range []string{"ada@example.com", "grace@example.com", "ada@example.com", "joan@example.com"} {
			id := fmt.Sprintf("reg-%d", i+1)
			regRepo.byID[id] = &domain.Registration{ID: id, EventID: event.ID, Email: email, Quantity: 1}
		}
		return NewMessageService(eventRepo, regRepo, convRepo, mailer, time.Second), convRepo, event
	}

	t.Run("one conversation per distinct email", func(t *testing.T) {
		mailer := &fakeMailer{}
		svc, convRepo, event := setup(mailer)

		sent, failed, err := svc.SendAnnouncement(ctx, event.ID, "Doors open early", "Gates open at 17:00.")
		require.NoError(t, err)
		assert.Equal(t, 3, sent)
		assert.Empty(t, failed)
		assert.Len(t, mailer.sent, 3)
		assert.Len(t, convRepo.byKey, 3)

		convs, err := svc.ListConversations(ctx, event.ID)
		require.NoError(t, err)
		require.Len(t, convs, 3)
		msgs, err := svc.ListMessages(ctx, convs[0].ID)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, "Doors open early", msgs[0].Subject)
	})

	t.Run("failed recipients are collected without retries", func(t *testing.T) {
		mailer := &fakeMailer{failTo: map[string]bool{"grace@example.com": true}}
		svc, _, event := setup(mailer)

		sent, failed, err := svc.SendAnnouncement(ctx, event.ID, "Doors open early", "Gates open at 17:00.")
		require.NoError(t, err)
		assert.Equal(t, 2, sent)
		assert.Equal(t, []string{"grace@example.com"}, failed)
	})

	t.Run("blank subject or body rejected", func(t *testing.T) {
		svc, _, event := setup(&fakeMailer{})

		_, _, err := svc.SendAnnouncement(ctx, event.ID, "  ", "body")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
		_, _, err = svc.SendAnnouncement(ctx, event.ID, "subject", "")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown event", func(t *testing.T) {
		svc, _, _ := setup(&fakeMailer{})

		_, _, err := svc.SendAnnouncement(ctx, "ev-missing", "subject", "body")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}
