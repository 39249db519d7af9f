package services

import (
	"context"
	"fmt"
	"time"

	"nalia-backend/internal/geo"
	"nalia-backend/internal/models"
	"nalia-backend/internal/recurrence"
	"nalia-backend/internal/repository"
	"nalia-backend/internal/tags"

	"github.com/google/uuid"
)

// EventService handles event business logic
type EventService struct {
	eventRepo    *repository.EventRepository
	attendeeRepo *repository.AttendeeRepository
	profileRepo  *repository.ProfileRepository
	hub          *FeedHub
	notifier     *NotificationService
}

// NewEventService creates a new event service
func NewEventService(
	eventRepo *repository.EventRepository,
	attendeeRepo *repository.AttendeeRepository,
	profileRepo *repository.ProfileRepository,
	hub *FeedHub,
	notifier *NotificationService,
) *EventService {
	return &EventService{
		eventRepo:    eventRepo,
		attendeeRepo: attendeeRepo,
		profileRepo:  profileRepo,
		hub:          hub,
		notifier:     notifier,
	}
}

// CreateEventInput carries validated handler input for a new event
type CreateEventInput struct {
	Description         string
	EventDate           time.Time
	EventTime           string
	IsRecurring         bool
	RecurrenceType      string
	RecurrenceDayOfWeek int
	RecurrenceWeek      int
	Tags                []string
	IsPublic            bool
	Latitude            float64
	Longitude           float64
	ImageURL            *string
}

// Create creates an event. Recurring events get their first occurrence
// computed from the rule; tags are normalized; the host is inserted as
// an approved attendee.
func (s *EventService) Create(ctx context.Context, hostID string, in CreateEventInput) (*models.Event, error) {
	if in.Description == "" {
		return nil, fmt.Errorf("description is required")
	}
	if _, err := time.Parse("15:04", in.EventTime); err != nil {
		return nil, fmt.Errorf("event_time must be in HH:MM form")
	}

	e := &models.Event{
		ID:          uuid.New().String(),
		HostID:      hostID,
		Description: in.Description,
		EventDate:   in.EventDate,
		EventTime:   in.EventTime,
		IsRecurring: in.IsRecurring,
		Tags:        tags.Normalize(in.Tags),
		IsPublic:    in.IsPublic,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		ImageURL:    in.ImageURL,
		CreatedAt:   time.Now(),
	}

	if in.IsRecurring {
		if in.RecurrenceType != models.RecurrenceWeekly && in.RecurrenceType != models.RecurrenceMonthly {
			return nil, fmt.Errorf("recurrence_type must be weekly or monthly")
		}
		if in.RecurrenceDayOfWeek < 0 || in.RecurrenceDayOfWeek > 6 {
			return nil, fmt.Errorf("recurrence_day_of_week must be 0..6")
		}
		rule := recurrence.Rule{
			Type:        in.RecurrenceType,
			DayOfWeek:   in.RecurrenceDayOfWeek,
			WeekOfMonth: in.RecurrenceWeek,
		}
		e.EventDate = recurrence.NextOccurrence(rule, time.Now())
		e.RecurrenceType = &in.RecurrenceType
		e.RecurrenceDayOfWeek = &in.RecurrenceDayOfWeek
		e.RecurrenceWeek = &in.RecurrenceWeek
	}

	if err := s.eventRepo.Create(ctx, e); err != nil {
		return nil, err
	}

	s.hub.Publish("events", ChangeInsert, map[string]string{"event_id": e.ID, "host_id": hostID}, e)
	return e, nil
}

// Get retrieves an event by ID
func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

// ListPublic returns live public events, optionally filtered by tag and
// by proximity to a point, ordered by date. Expired one-off events are
// dropped; recurring events never expire.
func (s *EventService) ListPublic(ctx context.Context, tag string, near *[2]float64) ([]*models.Event, error) {
	events, err := s.eventRepo.ListPublic(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	out := make([]*models.Event, 0, len(events))
	for _, e := range events {
		if recurrence.Expired(e.EventDate, e.EventTime, e.IsRecurring, now) {
			continue
		}
		if tag != "" && !hasTag(e.Tags, tag) {
			continue
		}
		if near != nil && geo.Distance(near[0], near[1], e.Latitude, e.Longitude) > geo.NearbyRadiusKm {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func hasTag(eventTags []string, tag string) bool {
	for _, t := range eventTags {
		if tags.Equal(t, tag) {
			return true
		}
	}
	return false
}

// ListMine returns events the user hosts or attends, expired ones
// included so past events stay visible in the user's own list
func (s *EventService) ListMine(ctx context.Context, userID string) ([]*models.Event, error) {
	return s.eventRepo.ListByUser(ctx, userID)
}

// Delete deletes an event if the caller hosts it
func (s *EventService) Delete(ctx context.Context, eventID, userID string) error {
	e, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if e.HostID != userID {
		return fmt.Errorf("only the host can delete an event")
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		return err
	}
	s.hub.Publish("events", ChangeDelete, map[string]string{"event_id": eventID, "host_id": e.HostID},
		map[string]string{"id": eventID})
	return nil
}

// Join requests membership. Public events approve immediately; private
// events start pending and notify the host.
func (s *EventService) Join(ctx context.Context, eventID, userID string) (*models.EventAttendee, error) {
	e, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	exists, err := s.attendeeRepo.Exists(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("already joined this event")
	}

	status := models.AttendeeStatusApproved
	if !e.IsPublic {
		status = models.AttendeeStatusPending
	}

	a := &models.EventAttendee{
		EventID:   eventID,
		UserID:    userID,
		Status:    status,
		CreatedAt: time.Now(),
	}
	if err := s.attendeeRepo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.hub.Publish("event_attendees", ChangeInsert,
		map[string]string{"event_id": eventID, "user_id": userID}, a)

	if !e.IsPublic {
		requester, err := s.profileRepo.GetByID(ctx, userID)
		name := "Someone"
		if err == nil {
			name = requester.Name
		}
		notifyBestEffort(ctx, s.notifier, e.HostID, models.NotificationTypeEvent,
			"Join request", fmt.Sprintf("%s wants to join your event", name), eventID)
	}
	return a, nil
}

// Approve approves a pending join request. Host only.
func (s *EventService) Approve(ctx context.Context, eventID, hostID, attendeeID string) error {
	e, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if e.HostID != hostID {
		return fmt.Errorf("only the host can approve attendees")
	}

	if err := s.attendeeRepo.UpdateStatus(ctx, eventID, attendeeID, models.AttendeeStatusApproved); err != nil {
		return err
	}

	s.hub.Publish("event_attendees", ChangeUpdate,
		map[string]string{"event_id": eventID, "user_id": attendeeID},
		map[string]string{"event_id": eventID, "user_id": attendeeID, "status": models.AttendeeStatusApproved})

	notifyBestEffort(ctx, s.notifier, attendeeID, models.NotificationTypeEvent,
		"Request approved", "Your request to join the event was approved", eventID)
	return nil
}

// Remove declines a request or removes an attendee. Allowed for the
// host and for the attendee themselves (leaving).
func (s *EventService) Remove(ctx context.Context, eventID, callerID, attendeeID string) error {
	e, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if callerID != e.HostID && callerID != attendeeID {
		return fmt.Errorf("not allowed to remove this attendee")
	}
	if attendeeID == e.HostID {
		return fmt.Errorf("the host cannot leave their own event")
	}

	if err := s.attendeeRepo.Delete(ctx, eventID, attendeeID); err != nil {
		return err
	}
	s.hub.Publish("event_attendees", ChangeDelete,
		map[string]string{"event_id": eventID, "user_id": attendeeID},
		map[string]string{"event_id": eventID, "user_id": attendeeID})
	return nil
}

// Attendees lists an event's attendee rows
func (s *EventService) Attendees(ctx context.Context, eventID string) ([]*models.EventAttendee, error) {
	return s.attendeeRepo.ListByEvent(ctx, eventID)
}
