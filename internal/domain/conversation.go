package domain

import (
	"context"
	"time"
)

// Conversation groups the messages exchanged with one customer about one
// event, keyed by the customer's email.
type Conversation struct {
	ID            string    `json:"id"`
	EventID       string    `json:"event_id"`
	CustomerEmail string    `json:"customer_email"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Message is one entry in a conversation. SenderRole distinguishes
// organizer announcements from customer replies.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderRole     string    `json:"sender_role"`
	Subject        string    `json:"subject"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConversationRepository defines storage operations for customer messaging.
type ConversationRepository interface {
	GetOrCreate(ctx context.Context, eventID, customerEmail string) (*Conversation, error)
	ListByEvent(ctx context.Context, eventID string) ([]*Conversation, error)
	AppendMessage(ctx context.Context, msg *Message) error
	ListMessages(ctx context.Context, conversationID string) ([]*Message, error)
}

// AnnouncementEmailData carries the fields rendered into an announcement
// email.
type AnnouncementEmailData struct {
	To        string
	EventName string
	Subject   string
	Body      string
}

// Mailer sends transactional email. Implementations may be backed by SES
// or a no-op for development.
type Mailer interface {
	SendAnnouncement(ctx context.Context, data *AnnouncementEmailData) error
}

// MessageService defines customer-messaging operations for organizers.
type MessageService interface {
	// SendAnnouncement stores a message in every registrant's conversation
	// and fans the text out by email. Recipients that fail are collected
	// in failed; there are no retries.
	SendAnnouncement(ctx context.Context, eventID, subject, body string) (sent int, failed []string, err error)
	ListConversations(ctx context.Context, eventID string) ([]*Conversation, error)
	ListMessages(ctx context.Context, conversationID string) ([]*Message, error)
}
