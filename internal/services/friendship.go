package services

import (
	"context"
	"fmt"
	"time"

	"nalia-backend/internal/models"
	"nalia-backend/internal/repository"

	"github.com/google/uuid"
)

// FriendshipService handles friend requests and the friend graph
type FriendshipService struct {
	friendshipRepo *repository.FriendshipRepository
	profileRepo    *repository.ProfileRepository
	hub            *FeedHub
	notifier       *NotificationService
}

// NewFriendshipService creates a new friendship service
func NewFriendshipService(
	friendshipRepo *repository.FriendshipRepository,
	profileRepo *repository.ProfileRepository,
	hub *FeedHub,
	notifier *NotificationService,
) *FriendshipService {
	return &FriendshipService{
		friendshipRepo: friendshipRepo,
		profileRepo:    profileRepo,
		hub:            hub,
		notifier:       notifier,
	}
}

// Request sends a friend request
func (s *FriendshipService) Request(ctx context.Context, userID, friendID string) (*models.Friendship, error) {
	if userID == friendID {
		return nil, fmt.Errorf("cannot befriend yourself")
	}
	if _, err := s.profileRepo.GetByID(ctx, friendID); err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	if existing, err := s.friendshipRepo.GetBetween(ctx, userID, friendID); err == nil && existing != nil {
		return nil, fmt.Errorf("friendship already exists")
	}

	f := &models.Friendship{
		ID:        uuid.New().String(),
		UserID:    userID,
		FriendID:  friendID,
		Status:    models.FriendshipStatusPending,
		CreatedAt: time.Now(),
	}
	if err := s.friendshipRepo.Create(ctx, f); err != nil {
		return nil, err
	}

	s.hub.Publish("friendships", ChangeInsert,
		map[string]string{"user_id": friendID, "requester_id": userID}, f)

	requester, err := s.profileRepo.GetByID(ctx, userID)
	name := "Someone"
	if err == nil {
		name = requester.Name
	}
	notifyBestEffort(ctx, s.notifier, friendID, models.NotificationTypeFriend,
		"Friend request", fmt.Sprintf("%s sent you a friend request", name), userID)
	return f, nil
}

// Accept accepts a pending request addressed to the user
func (s *FriendshipService) Accept(ctx context.Context, userID, requesterID string) error {
	if err := s.friendshipRepo.Accept(ctx, userID, requesterID); err != nil {
		return err
	}

	s.hub.Publish("friendships", ChangeUpdate,
		map[string]string{"user_id": requesterID, "requester_id": requesterID},
		map[string]string{"user_id": requesterID, "friend_id": userID, "status": models.FriendshipStatusAccepted})

	accepter, err := s.profileRepo.GetByID(ctx, userID)
	name := "Someone"
	if err == nil {
		name = accepter.Name
	}
	notifyBestEffort(ctx, s.notifier, requesterID, models.NotificationTypeFriend,
		"Friend request accepted", fmt.Sprintf("%s accepted your friend request", name), userID)
	return nil
}

// Remove deletes the friendship (or declines a pending request)
func (s *FriendshipService) Remove(ctx context.Context, userID, otherID string) error {
	if err := s.friendshipRepo.Delete(ctx, userID, otherID); err != nil {
		return err
	}
	s.hub.Publish("friendships", ChangeDelete,
		map[string]string{"user_id": otherID},
		map[string]string{"user_id": userID, "friend_id": otherID})
	return nil
}

// Friends lists the user's accepted friends
func (s *FriendshipService) Friends(ctx context.Context, userID string) ([]*models.Profile, error) {
	return s.friendshipRepo.ListFriends(ctx, userID)
}

// PendingRequests lists requests awaiting the user's decision
func (s *FriendshipService) PendingRequests(ctx context.Context, userID string) ([]*models.Friendship, error) {
	return s.friendshipRepo.ListPendingFor(ctx, userID)
}
