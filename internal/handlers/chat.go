package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"nalia-backend/internal/middleware"
	"nalia-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ChatHandler handles event threads, direct messages and unread badges
type ChatHandler struct {
	chatService *services.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// SendMessageRequest is the body for message posts
type SendMessageRequest struct {
	Text string `json:"text"`
}

// EventMessages handles GET /api/v1/events/{event_id}/messages
func (h *ChatHandler) EventMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	eventID := chi.URLParam(r, "event_id")

	messages, err := h.chatService.EventMessages(ctx, eventID, userID)
	if err != nil {
		if strings.Contains(err.Error(), "not an approved attendee") {
			respondError(w, err.Error(), http.StatusForbidden)
			return
		}
		log.Error().Err(err).Str("event_id", eventID).Msg("Failed to list event messages")
		respondError(w, "Failed to list messages", http.StatusInternalServerError)
		return
	}
	respondJSON(w, messages, http.StatusOK)
}

// SendEventMessage handles POST /api/v1/events/{event_id}/messages
func (h *ChatHandler) SendEventMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	eventID := chi.URLParam(r, "event_id")

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	message, err := h.chatService.SendEventMessage(ctx, eventID, userID, req.Text)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if strings.Contains(err.Error(), "not an approved attendee") {
			statusCode = http.StatusForbidden
		} else if err.Error() == "message text is required" {
			statusCode = http.StatusBadRequest
		}
		respondError(w, err.Error(), statusCode)
		return
	}
	respondJSON(w, message, http.StatusOK)
}

// MarkEventRead handles POST /api/v1/events/{event_id}/messages/read
func (h *ChatHandler) MarkEventRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	eventID := chi.URLParam(r, "event_id")

	if err := h.chatService.MarkEventRead(ctx, eventID, userID); err != nil {
		log.Error().Err(err).Str("event_id", eventID).Str("user_id", userID).Msg("Failed to mark thread read")
		respondError(w, "Failed to mark messages read", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DirectMessages handles GET /api/v1/messages/{peer_id}
func (h *ChatHandler) DirectMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	peerID := chi.URLParam(r, "peer_id")

	messages, err := h.chatService.DirectMessages(ctx, userID, peerID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("peer_id", peerID).Msg("Failed to list direct messages")
		respondError(w, "Failed to list messages", http.StatusInternalServerError)
		return
	}
	respondJSON(w, messages, http.StatusOK)
}

// SendDirectMessage handles POST /api/v1/messages/{peer_id}
func (h *ChatHandler) SendDirectMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	peerID := chi.URLParam(r, "peer_id")

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	message, err := h.chatService.SendDirectMessage(ctx, userID, peerID, req.Text)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "can only message friends" || err.Error() == "cannot message yourself" {
			statusCode = http.StatusForbidden
		} else if err.Error() == "message text is required" {
			statusCode = http.StatusBadRequest
		}
		respondError(w, err.Error(), statusCode)
		return
	}
	respondJSON(w, message, http.StatusOK)
}

// MarkDirectRead handles POST /api/v1/messages/{peer_id}/read
func (h *ChatHandler) MarkDirectRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	peerID := chi.URLParam(r, "peer_id")

	if err := h.chatService.MarkDirectRead(ctx, userID, peerID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("peer_id", peerID).Msg("Failed to mark conversation read")
		respondError(w, "Failed to mark messages read", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Unread handles GET /api/v1/unread
func (h *ChatHandler) Unread(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	counts, err := h.chatService.UnreadCounts(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to aggregate unread counts")
		respondError(w, "Failed to get unread counts", http.StatusInternalServerError)
		return
	}
	respondJSON(w, counts, http.StatusOK)
}
