package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// InterestRepository handles database operations for profile interests
type InterestRepository struct {
	db *pgxpool.Pool
}

// NewInterestRepository creates a new interest repository
func NewInterestRepository(db *pgxpool.Pool) *InterestRepository {
	return &InterestRepository{db: db}
}

// Replace overwrites a user's interests with the given normalized set
func (r *InterestRepository) Replace(ctx context.Context, userID string, interests []string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM interests WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear interests: %w", err)
	}
	for _, name := range interests {
		if _, err := tx.Exec(ctx,
			`INSERT INTO interests (user_id, name) VALUES ($1, $2)`, userID, name); err != nil {
			return fmt.Errorf("failed to insert interest: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit interests: %w", err)
	}
	return nil
}

// ListByUser returns a user's interests in insertion order
func (r *InterestRepository) ListByUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT name FROM interests WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list interests: %w", err)
	}
	defer rows.Close()

	var interests []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan interest: %w", err)
		}
		interests = append(interests, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read interests: %w", err)
	}
	return interests, nil
}
