package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventconsole/internal/domain"
)

type conversationRepository struct {
	DB *sql.DB
}

func NewConversationRepository(db *sql.DB) domain.ConversationRepository {
	return &conversationRepository{
		DB: db,
	}
}

func (r *conversationRepository) GetOrCreate(ctx context.Context, eventID, customerEmail string) (*domain.Conversation, error) {
	c := &domain.Conversation{EventID: eventID, CustomerEmail: customerEmail}
	query := `
		SELECT id, event_id, customer_email, created_at, updated_at
		FROM conversations
		WHERE event_id = $1 AND customer_email = $2
	`
	err := r.DB.QueryRowContext(ctx, query, eventID, customerEmail).
		Scan(&c.ID, &c.EventID, &c.CustomerEmail, &c.CreatedAt, &c.UpdatedAt)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	insert := `
		INSERT INTO conversations (event_id, customer_email, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (event_id, customer_email) DO UPDATE SET updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	if err := r.DB.QueryRowContext(ctx, insert, eventID, customerEmail).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *conversationRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.Conversation, error) {
	query := `
		SELECT id, event_id, customer_email, created_at, updated_at
		FROM conversations
		WHERE event_id = $1
		ORDER BY updated_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	convs := make([]*domain.Conversation, 0)
	for rows.Next() {
		c := &domain.Conversation{}
		if err := rows.Scan(&c.ID, &c.EventID, &c.CustomerEmail, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		convs = append(convs, c)
	}
	return convs, rows.Err()
}

func (r *conversationRepository) AppendMessage(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO messages (conversation_id, sender_role, subject, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		msg.ConversationID, msg.SenderRole, msg.Subject, msg.Body, msg.CreatedAt,
	).Scan(&msg.ID)
}

func (r *conversationRepository) ListMessages(ctx context.Context, conversationID string) ([]*domain.Message, error) {
	query := `
		SELECT id, conversation_id, sender_role, subject, body, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at
	`
	rows, err := r.DB.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := make([]*domain.Message, 0)
	for rows.Next() {
		m := &domain.Message{}
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderRole, &m.Subject, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
