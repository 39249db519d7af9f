package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"nalia-backend/internal/middleware"
	"nalia-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// EventHandler handles event HTTP requests
type EventHandler struct {
	eventService *services.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// CreateEventRequest is the body for POST /events
type CreateEventRequest struct {
	Description         string   `json:"description"`
	EventDate           string   `json:"event_date"` // "2006-01-02", ignored for recurring events
	EventTime           string   `json:"event_time"` // "15:04"
	IsRecurring         bool     `json:"is_recurring"`
	RecurrenceType      string   `json:"recurrence_type"`
	RecurrenceDayOfWeek int      `json:"recurrence_day_of_week"`
	RecurrenceWeek      int      `json:"recurrence_week_of_month"`
	Tags                []string `json:"tags"`
	IsPublic            bool     `json:"is_public"`
	Latitude            float64  `json:"latitude"`
	Longitude           float64  `json:"longitude"`
	ImageURL            *string  `json:"image_url"`
}

// Create handles POST /api/v1/events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var eventDate time.Time
	if !req.IsRecurring {
		var err error
		eventDate, err = time.ParseInLocation("2006-01-02", req.EventDate, time.Local)
		if err != nil {
			respondError(w, "event_date must be in YYYY-MM-DD form", http.StatusBadRequest)
			return
		}
	}

	event, err := h.eventService.Create(ctx, userID, services.CreateEventInput{
		Description:         req.Description,
		EventDate:           eventDate,
		EventTime:           req.EventTime,
		IsRecurring:         req.IsRecurring,
		RecurrenceType:      req.RecurrenceType,
		RecurrenceDayOfWeek: req.RecurrenceDayOfWeek,
		RecurrenceWeek:      req.RecurrenceWeek,
		Tags:                req.Tags,
		IsPublic:            req.IsPublic,
		Latitude:            req.Latitude,
		Longitude:           req.Longitude,
		ImageURL:            req.ImageURL,
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create event")
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	log.Info().Str("event_id", event.ID).Str("host_id", userID).Msg("Event created")
	respondJSON(w, event, http.StatusOK)
}

// List handles GET /api/v1/events?tag=...&near=lat,lon
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var near *[2]float64
	if nearParam := r.URL.Query().Get("near"); nearParam != "" {
		parts := strings.SplitN(nearParam, ",", 2)
		if len(parts) != 2 {
			respondError(w, "near must be lat,lon", http.StatusBadRequest)
			return
		}
		lat, errLat := strconv.ParseFloat(parts[0], 64)
		lon, errLon := strconv.ParseFloat(parts[1], 64)
		if errLat != nil || errLon != nil {
			respondError(w, "near must be lat,lon", http.StatusBadRequest)
			return
		}
		near = &[2]float64{lat, lon}
	}

	events, err := h.eventService.ListPublic(ctx, r.URL.Query().Get("tag"), near)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list events")
		respondError(w, "Failed to list events", http.StatusInternalServerError)
		return
	}
	respondJSON(w, events, http.StatusOK)
}

// ListMine handles GET /api/v1/events/mine
func (h *EventHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	events, err := h.eventService.ListMine(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list own events")
		respondError(w, "Failed to list events", http.StatusInternalServerError)
		return
	}
	respondJSON(w, events, http.StatusOK)
}

// Get handles GET /api/v1/events/{event_id}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	eventID := chi.URLParam(r, "event_id")

	event, err := h.eventService.Get(ctx, eventID)
	if err != nil {
		respondError(w, "Event not found", http.StatusNotFound)
		return
	}
	respondJSON(w, event, http.StatusOK)
}

// Delete handles DELETE /api/v1/events/{event_id}
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	eventID := chi.URLParam(r, "event_id")

	if err := h.eventService.Delete(ctx, eventID, userID); err != nil {
		log.Error().Err(err).Str("event_id", eventID).Str("user_id", userID).Msg("Failed to delete event")
		statusCode := http.StatusInternalServerError
		if err.Error() == "only the host can delete an event" {
			statusCode = http.StatusForbidden
		} else if strings.Contains(err.Error(), "not found") {
			statusCode = http.StatusNotFound
		}
		respondError(w, err.Error(), statusCode)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Join handles POST /api/v1/events/{event_id}/join
func (h *EventHandler) Join(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	eventID := chi.URLParam(r, "event_id")

	attendee, err := h.eventService.Join(ctx, eventID, userID)
	if err != nil {
		log.Error().Err(err).Str("event_id", eventID).Str("user_id", userID).Msg("Failed to join event")
		statusCode := http.StatusInternalServerError
		if err.Error() == "already joined this event" {
			statusCode = http.StatusConflict
		} else if strings.Contains(err.Error(), "not found") {
			statusCode = http.StatusNotFound
		}
		respondError(w, err.Error(), statusCode)
		return
	}

	log.Info().Str("event_id", eventID).Str("user_id", userID).Str("status", attendee.Status).Msg("Join requested")
	respondJSON(w, attendee, http.StatusOK)
}

// Approve handles POST /api/v1/events/{event_id}/attendees/{user_id}/approve
func (h *EventHandler) Approve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	hostID := middleware.GetUserID(ctx)
	eventID := chi.URLParam(r, "event_id")
	attendeeID := chi.URLParam(r, "user_id")

	if err := h.eventService.Approve(ctx, eventID, hostID, attendeeID); err != nil {
		log.Error().Err(err).Str("event_id", eventID).Str("attendee_id", attendeeID).Msg("Failed to approve attendee")
		statusCode := http.StatusInternalServerError
		if err.Error() == "only the host can approve attendees" {
			statusCode = http.StatusForbidden
		} else if strings.Contains(err.Error(), "not found") {
			statusCode = http.StatusNotFound
		}
		respondError(w, err.Error(), statusCode)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveAttendee handles DELETE /api/v1/events/{event_id}/attendees/{user_id}
func (h *EventHandler) RemoveAttendee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := middleware.GetUserID(ctx)
	eventID := chi.URLParam(r, "event_id")
	attendeeID := chi.URLParam(r, "user_id")

	if err := h.eventService.Remove(ctx, eventID, callerID, attendeeID); err != nil {
		log.Error().Err(err).Str("event_id", eventID).Str("attendee_id", attendeeID).Msg("Failed to remove attendee")
		statusCode := http.StatusInternalServerError
		if strings.Contains(err.Error(), "not allowed") || strings.Contains(err.Error(), "cannot leave") {
			statusCode = http.StatusForbidden
		} else if strings.Contains(err.Error(), "not found") {
			statusCode = http.StatusNotFound
		}
		respondError(w, err.Error(), statusCode)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Attendees handles GET /api/v1/events/{event_id}/attendees
func (h *EventHandler) Attendees(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	eventID := chi.URLParam(r, "event_id")

	attendees, err := h.eventService.Attendees(ctx, eventID)
	if err != nil {
		log.Error().Err(err).Str("event_id", eventID).Msg("Failed to list attendees")
		respondError(w, "Failed to list attendees", http.StatusInternalServerError)
		return
	}
	respondJSON(w, attendees, http.StatusOK)
}
