package services

import (
	"context"
	"fmt"
	"time"

	"nalia-backend/internal/cache"
	"nalia-backend/internal/models"
	"nalia-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// NotificationService persists notifications and fans them out over the
// change feed and APNs push
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	profileRepo      *repository.ProfileRepository
	hub              *FeedHub
	push             *PushService
	unreadCache      *cache.UnreadCache
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	notificationRepo *repository.NotificationRepository,
	profileRepo *repository.ProfileRepository,
	hub *FeedHub,
	push *PushService,
	unreadCache *cache.UnreadCache,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		profileRepo:      profileRepo,
		hub:              hub,
		push:             push,
		unreadCache:      unreadCache,
	}
}

// notifier is the notification surface the domain services consume
type notifier interface {
	Notify(ctx context.Context, userID, kind, title, message, relatedID string) error
}

// notifyBestEffort creates a notification without surfacing a failure
// to the caller; the action that triggered it has already committed.
func notifyBestEffort(ctx context.Context, n notifier, userID, kind, title, message, relatedID string) {
	if err := n.Notify(ctx, userID, kind, title, message, relatedID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("type", kind).Msg("Failed to deliver notification")
	}
}

// Notify creates a notification for a user and delivers it. Delivery
// failures never propagate; the row is the source of truth.
func (s *NotificationService) Notify(ctx context.Context, userID, kind, title, message, relatedID string) error {
	n := &models.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      kind,
		Title:     title,
		Message:   message,
		RelatedID: relatedID,
		CreatedAt: time.Now(),
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	s.unreadCache.Invalidate(ctx, userID)
	s.hub.Publish("notifications", ChangeInsert, map[string]string{"user_id": userID}, n)

	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to load profile for push")
		return nil
	}
	if profile.PushToken != nil {
		s.push.Send(*profile.PushToken, title, message)
	}
	return nil
}

// List returns a page of the user's notifications, newest first
func (s *NotificationService) List(ctx context.Context, userID string, limit, offset int) ([]*models.Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.notificationRepo.ListByUser(ctx, userID, limit, offset)
}

// MarkRead marks a single notification read
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	if err := s.notificationRepo.MarkRead(ctx, id, userID); err != nil {
		return err
	}
	s.unreadCache.Invalidate(ctx, userID)
	s.hub.Publish("notifications", ChangeUpdate, map[string]string{"user_id": userID},
		map[string]interface{}{"id": id, "read": true})
	return nil
}

// MarkAllRead marks all of the user's notifications read
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	if err := s.notificationRepo.MarkAllRead(ctx, userID); err != nil {
		return err
	}
	s.unreadCache.Invalidate(ctx, userID)
	s.hub.Publish("notifications", ChangeUpdate, map[string]string{"user_id": userID},
		map[string]interface{}{"read": true})
	return nil
}
