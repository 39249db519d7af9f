package repository

import (
	"context"
	"fmt"
	"time"

	"nalia-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EventRepository handles database operations for events
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, host_id, description, event_date, event_time, is_recurring,
	recurrence_type, recurrence_day_of_week, recurrence_week_of_month,
	tags, is_public, latitude, longitude, image_url, created_at`

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	err := row.Scan(
		&e.ID, &e.HostID, &e.Description, &e.EventDate, &e.EventTime, &e.IsRecurring,
		&e.RecurrenceType, &e.RecurrenceDayOfWeek, &e.RecurrenceWeek,
		&e.Tags, &e.IsPublic, &e.Latitude, &e.Longitude, &e.ImageURL, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts an event and its host attendee row in one transaction.
// The host is always approved.
func (r *EventRepository) Create(ctx context.Context, e *models.Event) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err = tx.Exec(ctx, query,
		e.ID, e.HostID, e.Description, e.EventDate, e.EventTime, e.IsRecurring,
		e.RecurrenceType, e.RecurrenceDayOfWeek, e.RecurrenceWeek,
		e.Tags, e.IsPublic, e.Latitude, e.Longitude, e.ImageURL, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO event_attendees (event_id, user_id, status, created_at)
		VALUES ($1, $2, $3, $4)
	`, e.ID, e.HostID, models.AttendeeStatusApproved, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create host attendee: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit event: %w", err)
	}
	return nil
}

// GetByID retrieves an event by ID
func (r *EventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("event not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return e, nil
}

// ListPublic returns all public events ordered by date. Expiration
// filtering happens in the service layer.
func (r *EventRepository) ListPublic(ctx context.Context) ([]*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE is_public = true ORDER BY event_date, event_time`
	return r.queryEvents(ctx, query)
}

// ListByUser returns events the user hosts or attends
func (r *EventRepository) ListByUser(ctx context.Context, userID string) ([]*models.Event, error) {
	query := `
		SELECT ` + eventColumns + ` FROM events
		WHERE id IN (SELECT event_id FROM event_attendees WHERE user_id = $1)
		ORDER BY event_date, event_time
	`
	return r.queryEvents(ctx, query, userID)
}

// ListRecurringBefore returns recurring events whose stored occurrence
// date is before the given date
func (r *EventRepository) ListRecurringBefore(ctx context.Context, date time.Time) ([]*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE is_recurring = true AND event_date < $1`
	return r.queryEvents(ctx, query, date)
}

func (r *EventRepository) queryEvents(ctx context.Context, query string, args ...any) ([]*models.Event, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	return events, nil
}

// UpdateDate advances the stored occurrence date of an event
func (r *EventRepository) UpdateDate(ctx context.Context, eventID string, date time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE events SET event_date = $1 WHERE id = $2`, date, eventID)
	if err != nil {
		return fmt.Errorf("failed to update event date: %w", err)
	}
	return nil
}

// Delete deletes an event by ID
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("event not found")
	}
	return nil
}
