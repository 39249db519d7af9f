package repository

import (
	"context"
	"fmt"

	"nalia-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FriendshipRepository handles database operations for friendships.
// A friendship is a directed edge; every query checks both directions.
type FriendshipRepository struct {
	db *pgxpool.Pool
}

// NewFriendshipRepository creates a new friendship repository
func NewFriendshipRepository(db *pgxpool.Pool) *FriendshipRepository {
	return &FriendshipRepository{db: db}
}

// Create inserts a friendship edge
func (r *FriendshipRepository) Create(ctx context.Context, f *models.Friendship) error {
	query := `
		INSERT INTO friendships (id, user_id, friend_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, f.ID, f.UserID, f.FriendID, f.Status, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create friendship: %w", err)
	}
	return nil
}

// GetBetween retrieves the edge between two users in either direction
func (r *FriendshipRepository) GetBetween(ctx context.Context, userID, otherID string) (*models.Friendship, error) {
	query := `
		SELECT id, user_id, friend_id, status, created_at
		FROM friendships
		WHERE (user_id = $1 AND friend_id = $2)
		   OR (user_id = $2 AND friend_id = $1)
		LIMIT 1
	`
	var f models.Friendship
	err := r.db.QueryRow(ctx, query, userID, otherID).Scan(
		&f.ID, &f.UserID, &f.FriendID, &f.Status, &f.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("friendship not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get friendship: %w", err)
	}
	return &f, nil
}

// AreFriends checks whether an accepted edge exists in either direction
func (r *FriendshipRepository) AreFriends(ctx context.Context, userID, otherID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM friendships
			WHERE status = $3
			  AND ((user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1))
		)
	`
	var ok bool
	err := r.db.QueryRow(ctx, query, userID, otherID, models.FriendshipStatusAccepted).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("failed to check friendship: %w", err)
	}
	return ok, nil
}

// Accept marks the pending edge addressed to the user as accepted
func (r *FriendshipRepository) Accept(ctx context.Context, userID, requesterID string) error {
	query := `
		UPDATE friendships
		SET status = $1
		WHERE user_id = $2 AND friend_id = $3 AND status = $4
	`
	result, err := r.db.Exec(ctx, query,
		models.FriendshipStatusAccepted, requesterID, userID, models.FriendshipStatusPending)
	if err != nil {
		return fmt.Errorf("failed to accept friendship: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("friend request not found")
	}
	return nil
}

// Delete removes the edge between two users in either direction
func (r *FriendshipRepository) Delete(ctx context.Context, userID, otherID string) error {
	query := `
		DELETE FROM friendships
		WHERE (user_id = $1 AND friend_id = $2)
		   OR (user_id = $2 AND friend_id = $1)
	`
	result, err := r.db.Exec(ctx, query, userID, otherID)
	if err != nil {
		return fmt.Errorf("failed to delete friendship: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("friendship not found")
	}
	return nil
}

// ListFriends returns profiles of users with an accepted edge to the
// given user in either direction
func (r *FriendshipRepository) ListFriends(ctx context.Context, userID string) ([]*models.Profile, error) {
	query := `
		SELECT p.id, p.email, p.password_hash, p.name, p.bio, p.avatar_url, p.push_token, p.latitude, p.longitude, p.created_at
		FROM profiles p
		JOIN friendships f
		  ON (f.user_id = $1 AND f.friend_id = p.id)
		  OR (f.friend_id = $1 AND f.user_id = p.id)
		WHERE f.status = $2
		ORDER BY p.name
	`
	rows, err := r.db.Query(ctx, query, userID, models.FriendshipStatusAccepted)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	var friends []*models.Profile
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(
			&p.ID, &p.Email, &p.PasswordHash, &p.Name, &p.Bio, &p.AvatarURL,
			&p.PushToken, &p.Latitude, &p.Longitude, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		friends = append(friends, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read friends: %w", err)
	}
	return friends, nil
}

// ListPendingFor returns pending requests addressed to the user
func (r *FriendshipRepository) ListPendingFor(ctx context.Context, userID string) ([]*models.Friendship, error) {
	query := `
		SELECT id, user_id, friend_id, status, created_at
		FROM friendships
		WHERE friend_id = $1 AND status = $2
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID, models.FriendshipStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list friend requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.Friendship
	for rows.Next() {
		var f models.Friendship
		if err := rows.Scan(&f.ID, &f.UserID, &f.FriendID, &f.Status, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan friend request: %w", err)
		}
		requests = append(requests, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read friend requests: %w", err)
	}
	return requests, nil
}
