package repository

import (
	"context"
	"fmt"

	"nalia-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MessageRepository handles database operations for event chat messages
// and their per-user read state
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts an event message
func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	query := `
		INSERT INTO messages (id, event_id, sender_id, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, m.ID, m.EventID, m.SenderID, m.Text, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListByEvent returns an event's messages oldest first
func (r *MessageRepository) ListByEvent(ctx context.Context, eventID string) ([]*models.Message, error) {
	query := `
		SELECT id, event_id, sender_id, text, created_at
		FROM messages
		WHERE event_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.EventID, &m.SenderID, &m.Text, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}
	return messages, nil
}

// MarkEventRead inserts read rows for every message in the event the
// user has not read yet (own messages excluded)
func (r *MessageRepository) MarkEventRead(ctx context.Context, eventID, userID string) error {
	query := `
		INSERT INTO message_reads (message_id, user_id, read_at)
		SELECT m.id, $2, NOW()
		FROM messages m
		WHERE m.event_id = $1
		  AND m.sender_id != $2
		  AND NOT EXISTS (
			SELECT 1 FROM message_reads mr
			WHERE mr.message_id = m.id AND mr.user_id = $2
		  )
	`
	_, err := r.db.Exec(ctx, query, eventID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}
	return nil
}

// UnreadCount counts messages in events the user attends (approved)
// that they have neither sent nor read
func (r *MessageRepository) UnreadCount(ctx context.Context, userID string) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM messages m
		JOIN event_attendees ea ON ea.event_id = m.event_id
		WHERE ea.user_id = $1
		  AND ea.status = $2
		  AND m.sender_id != $1
		  AND NOT EXISTS (
			SELECT 1 FROM message_reads mr
			WHERE mr.message_id = m.id AND mr.user_id = $1
		  )
	`
	var count int64
	err := r.db.QueryRow(ctx, query, userID, models.AttendeeStatusApproved).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}
