package handlers

import (
	"net/http"
	"strings"

	"nalia-backend/internal/middleware"
	"nalia-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// FriendshipHandler handles friendship HTTP requests
type FriendshipHandler struct {
	friendshipService *services.FriendshipService
}

// NewFriendshipHandler creates a new friendship handler
func NewFriendshipHandler(friendshipService *services.FriendshipService) *FriendshipHandler {
	return &FriendshipHandler{friendshipService: friendshipService}
}

// Request handles POST /api/v1/friends/{user_id}
func (h *FriendshipHandler) Request(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	friendID := chi.URLParam(r, "user_id")

	friendship, err := h.friendshipService.Request(ctx, userID, friendID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("friend_id", friendID).Msg("Failed to send friend request")
		statusCode := http.StatusInternalServerError
		if err.Error() == "cannot befriend yourself" {
			statusCode = http.StatusBadRequest
		} else if err.Error() == "friendship already exists" {
			statusCode = http.StatusConflict
		} else if strings.Contains(err.Error(), "not found") {
			statusCode = http.StatusNotFound
		}
		respondError(w, err.Error(), statusCode)
		return
	}

	log.Info().Str("user_id", userID).Str("friend_id", friendID).Msg("Friend request sent")
	respondJSON(w, friendship, http.StatusOK)
}

// Accept handles POST /api/v1/friends/{user_id}/accept
func (h *FriendshipHandler) Accept(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	requesterID := chi.URLParam(r, "user_id")

	if err := h.friendshipService.Accept(ctx, userID, requesterID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("requester_id", requesterID).Msg("Failed to accept friend request")
		statusCode := http.StatusInternalServerError
		if strings.Contains(err.Error(), "not found") {
			statusCode = http.StatusNotFound
		}
		respondError(w, err.Error(), statusCode)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Remove handles DELETE /api/v1/friends/{user_id}
func (h *FriendshipHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	otherID := chi.URLParam(r, "user_id")

	if err := h.friendshipService.Remove(ctx, userID, otherID); err != nil {
		statusCode := http.StatusInternalServerError
		if strings.Contains(err.Error(), "not found") {
			statusCode = http.StatusNotFound
		}
		respondError(w, err.Error(), statusCode)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /api/v1/friends
func (h *FriendshipHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	friends, err := h.friendshipService.Friends(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list friends")
		respondError(w, "Failed to list friends", http.StatusInternalServerError)
		return
	}
	respondJSON(w, friends, http.StatusOK)
}

// Requests handles GET /api/v1/friends/requests
func (h *FriendshipHandler) Requests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	requests, err := h.friendshipService.PendingRequests(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list friend requests")
		respondError(w, "Failed to list friend requests", http.StatusInternalServerError)
		return
	}
	respondJSON(w, requests, http.StatusOK)
}
