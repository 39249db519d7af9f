package repository

import (
	"context"
	"fmt"

	"nalia-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AttendeeRepository handles database operations for event attendees
type AttendeeRepository struct {
	db *pgxpool.Pool
}

// NewAttendeeRepository creates a new attendee repository
func NewAttendeeRepository(db *pgxpool.Pool) *AttendeeRepository {
	return &AttendeeRepository{db: db}
}

// Create inserts an attendee row
func (r *AttendeeRepository) Create(ctx context.Context, a *models.EventAttendee) error {
	query := `
		INSERT INTO event_attendees (event_id, user_id, status, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, a.EventID, a.UserID, a.Status, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create attendee: %w", err)
	}
	return nil
}

// Get retrieves an attendee row
func (r *AttendeeRepository) Get(ctx context.Context, eventID, userID string) (*models.EventAttendee, error) {
	query := `
		SELECT event_id, user_id, status, created_at
		FROM event_attendees
		WHERE event_id = $1 AND user_id = $2
	`
	var a models.EventAttendee
	err := r.db.QueryRow(ctx, query, eventID, userID).Scan(&a.EventID, &a.UserID, &a.Status, &a.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("attendee not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get attendee: %w", err)
	}
	return &a, nil
}

// Exists checks whether a user already has an attendee row for an event
func (r *AttendeeRepository) Exists(ctx context.Context, eventID, userID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM event_attendees WHERE event_id = $1 AND user_id = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, eventID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check attendee existence: %w", err)
	}
	return exists, nil
}

// IsApproved checks whether a user is an approved attendee of an event
func (r *AttendeeRepository) IsApproved(ctx context.Context, eventID, userID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM event_attendees
			WHERE event_id = $1 AND user_id = $2 AND status = $3
		)
	`
	var ok bool
	err := r.db.QueryRow(ctx, query, eventID, userID, models.AttendeeStatusApproved).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("failed to check attendee approval: %w", err)
	}
	return ok, nil
}

// UpdateStatus changes an attendee's status
func (r *AttendeeRepository) UpdateStatus(ctx context.Context, eventID, userID, status string) error {
	query := `UPDATE event_attendees SET status = $1 WHERE event_id = $2 AND user_id = $3`
	result, err := r.db.Exec(ctx, query, status, eventID, userID)
	if err != nil {
		return fmt.Errorf("failed to update attendee status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("attendee not found")
	}
	return nil
}

// Delete removes an attendee row
func (r *AttendeeRepository) Delete(ctx context.Context, eventID, userID string) error {
	result, err := r.db.Exec(ctx,
		`DELETE FROM event_attendees WHERE event_id = $1 AND user_id = $2`, eventID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete attendee: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("attendee not found")
	}
	return nil
}

// ListByEvent returns all attendee rows for an event
func (r *AttendeeRepository) ListByEvent(ctx context.Context, eventID string) ([]*models.EventAttendee, error) {
	query := `
		SELECT event_id, user_id, status, created_at
		FROM event_attendees
		WHERE event_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendees: %w", err)
	}
	defer rows.Close()

	var attendees []*models.EventAttendee
	for rows.Next() {
		var a models.EventAttendee
		if err := rows.Scan(&a.EventID, &a.UserID, &a.Status, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendee: %w", err)
		}
		attendees = append(attendees, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read attendees: %w", err)
	}
	return attendees, nil
}
