package repository

import (
	"context"
	"fmt"

	"nalia-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DirectMessageRepository handles database operations for direct messages
type DirectMessageRepository struct {
	db *pgxpool.Pool
}

// NewDirectMessageRepository creates a new direct message repository
func NewDirectMessageRepository(db *pgxpool.Pool) *DirectMessageRepository {
	return &DirectMessageRepository{db: db}
}

// Create inserts a direct message
func (r *DirectMessageRepository) Create(ctx context.Context, m *models.DirectMessage) error {
	query := `
		INSERT INTO direct_messages (id, sender_id, recipient_id, text, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, m.ID, m.SenderID, m.RecipientID, m.Text, m.Read, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create direct message: %w", err)
	}
	return nil
}

// ListBetween returns the conversation between two users oldest first
func (r *DirectMessageRepository) ListBetween(ctx context.Context, userID, peerID string) ([]*models.DirectMessage, error) {
	query := `
		SELECT id, sender_id, recipient_id, text, read, created_at
		FROM direct_messages
		WHERE (sender_id = $1 AND recipient_id = $2)
		   OR (sender_id = $2 AND recipient_id = $1)
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, userID, peerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list direct messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.DirectMessage
	for rows.Next() {
		var m models.DirectMessage
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Text, &m.Read, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan direct message: %w", err)
		}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read direct messages: %w", err)
	}
	return messages, nil
}

// MarkRead flips the read flag on everything the peer sent to the user
func (r *DirectMessageRepository) MarkRead(ctx context.Context, userID, peerID string) error {
	query := `
		UPDATE direct_messages
		SET read = true
		WHERE recipient_id = $1 AND sender_id = $2 AND read = false
	`
	_, err := r.db.Exec(ctx, query, userID, peerID)
	if err != nil {
		return fmt.Errorf("failed to mark direct messages read: %w", err)
	}
	return nil
}

// UnreadCount counts unread direct messages addressed to the user
func (r *DirectMessageRepository) UnreadCount(ctx context.Context, userID string) (int64, error) {
	query := `SELECT COUNT(*) FROM direct_messages WHERE recipient_id = $1 AND read = false`
	var count int64
	err := r.db.QueryRow(ctx, query, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread direct messages: %w", err)
	}
	return count, nil
}
