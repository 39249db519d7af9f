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

// ChatService handles event threads, direct messages and the unread
// aggregation behind tab badges
type ChatService struct {
	messageRepo    *repository.MessageRepository
	dmRepo         *repository.DirectMessageRepository
	attendeeRepo   *repository.AttendeeRepository
	friendshipRepo *repository.FriendshipRepository
	notifRepo      *repository.NotificationRepository
	hub            *FeedHub
	notifier       *NotificationService
	unreadCache    *cache.UnreadCache
}

// NewChatService creates a new chat service
func NewChatService(
	messageRepo *repository.MessageRepository,
	dmRepo *repository.DirectMessageRepository,
	attendeeRepo *repository.AttendeeRepository,
	friendshipRepo *repository.FriendshipRepository,
	notifRepo *repository.NotificationRepository,
	hub *FeedHub,
	notifier *NotificationService,
	unreadCache *cache.UnreadCache,
) *ChatService {
	return &ChatService{
		messageRepo:    messageRepo,
		dmRepo:         dmRepo,
		attendeeRepo:   attendeeRepo,
		friendshipRepo: friendshipRepo,
		notifRepo:      notifRepo,
		hub:            hub,
		notifier:       notifier,
		unreadCache:    unreadCache,
	}
}

// EventMessages returns an event's thread for an approved attendee
func (s *ChatService) EventMessages(ctx context.Context, eventID, userID string) ([]*models.Message, error) {
	ok, err := s.attendeeRepo.IsApproved(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("not an approved attendee of this event")
	}
	return s.messageRepo.ListByEvent(ctx, eventID)
}

// SendEventMessage posts to an event thread and fans the change out to
// thread subscribers
func (s *ChatService) SendEventMessage(ctx context.Context, eventID, senderID, text string) (*models.Message, error) {
	if text == "" {
		return nil, fmt.Errorf("message text is required")
	}
	ok, err := s.attendeeRepo.IsApproved(ctx, eventID, senderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("not an approved attendee of this event")
	}

	m := &models.Message{
		ID:        uuid.New().String(),
		EventID:   eventID,
		SenderID:  senderID,
		Text:      text,
		CreatedAt: time.Now(),
	}
	if err := s.messageRepo.Create(ctx, m); err != nil {
		return nil, err
	}

	s.hub.Publish("messages", ChangeInsert, map[string]string{"event_id": eventID}, m)
	s.invalidateAttendeeBadges(ctx, eventID, senderID)
	return m, nil
}

// invalidateAttendeeBadges drops cached unread counts for the other
// attendees of an event after a new thread message
func (s *ChatService) invalidateAttendeeBadges(ctx context.Context, eventID, senderID string) {
	attendees, err := s.attendeeRepo.ListByEvent(ctx, eventID)
	if err != nil {
		log.Error().Err(err).Str("event_id", eventID).Msg("Failed to list attendees for badge invalidation")
		return
	}
	for _, a := range attendees {
		if a.UserID != senderID && a.Status == models.AttendeeStatusApproved {
			s.unreadCache.Invalidate(ctx, a.UserID)
		}
	}
}

// MarkEventRead marks an event thread read for the user
func (s *ChatService) MarkEventRead(ctx context.Context, eventID, userID string) error {
	if err := s.messageRepo.MarkEventRead(ctx, eventID, userID); err != nil {
		return err
	}
	s.unreadCache.Invalidate(ctx, userID)
	return nil
}

// DirectMessages returns the conversation between the user and a peer
func (s *ChatService) DirectMessages(ctx context.Context, userID, peerID string) ([]*models.DirectMessage, error) {
	return s.dmRepo.ListBetween(ctx, userID, peerID)
}

// SendDirectMessage sends a private message to a friend
func (s *ChatService) SendDirectMessage(ctx context.Context, senderID, recipientID, text string) (*models.DirectMessage, error) {
	if text == "" {
		return nil, fmt.Errorf("message text is required")
	}
	if senderID == recipientID {
		return nil, fmt.Errorf("cannot message yourself")
	}
	friends, err := s.friendshipRepo.AreFriends(ctx, senderID, recipientID)
	if err != nil {
		return nil, err
	}
	if !friends {
		return nil, fmt.Errorf("can only message friends")
	}

	m := &models.DirectMessage{
		ID:          uuid.New().String(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Text:        text,
		CreatedAt:   time.Now(),
	}
	if err := s.dmRepo.Create(ctx, m); err != nil {
		return nil, err
	}

	s.hub.Publish("direct_messages", ChangeInsert,
		map[string]string{"user_id": recipientID, "sender_id": senderID}, m)
	s.unreadCache.Invalidate(ctx, recipientID)

	notifyBestEffort(ctx, s.notifier, recipientID, models.NotificationTypeMessage,
		"New message", text, senderID)
	return m, nil
}

// MarkDirectRead marks everything the peer sent to the user as read
func (s *ChatService) MarkDirectRead(ctx context.Context, userID, peerID string) error {
	if err := s.dmRepo.MarkRead(ctx, userID, peerID); err != nil {
		return err
	}
	s.unreadCache.Invalidate(ctx, userID)
	s.hub.Publish("direct_messages", ChangeUpdate,
		map[string]string{"user_id": peerID},
		map[string]interface{}{"recipient_id": userID, "sender_id": peerID, "read": true})
	return nil
}

// UnreadCounts returns the per-kind unread tallies for tab badges,
// served from the redis cache when warm
func (s *ChatService) UnreadCounts(ctx context.Context, userID string) (*models.UnreadCounts, error) {
	if counts, ok := s.unreadCache.Get(ctx, userID); ok {
		return counts, nil
	}

	events, err := s.messageRepo.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	dms, err := s.dmRepo.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	notifs, err := s.notifRepo.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	counts := &models.UnreadCounts{
		EventMessages:  events,
		DirectMessages: dms,
		Notifications:  notifs,
	}
	s.unreadCache.Set(ctx, userID, counts)
	return counts, nil
}
