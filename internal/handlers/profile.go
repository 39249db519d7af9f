package handlers

import (
	"encoding/json"
	"net/http"

	"nalia-backend/internal/middleware"
	"nalia-backend/internal/models"
	"nalia-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// ProfileHandler handles profile HTTP requests
type ProfileHandler struct {
	profileService *services.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// ProfileResponse is a profile with its interests
type ProfileResponse struct {
	Profile   *models.Profile `json:"profile"`
	Interests []string        `json:"interests"`
}

// GetMe handles GET /api/v1/profiles/me
func (h *ProfileHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	profile, interests, err := h.profileService.Get(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get profile")
		respondError(w, "Failed to get profile", http.StatusInternalServerError)
		return
	}
	respondJSON(w, ProfileResponse{Profile: profile, Interests: interests}, http.StatusOK)
}

// UpdateProfileRequest is the body for PUT /profiles/me
type UpdateProfileRequest struct {
	Name      string   `json:"name"`
	Bio       string   `json:"bio"`
	AvatarURL *string  `json:"avatar_url"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Interests []string `json:"interests"`
}

// UpdateMe handles PUT /api/v1/profiles/me
func (h *ProfileHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, interests, err := h.profileService.Update(ctx, userID, services.UpdateInput{
		Name:      req.Name,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Interests: req.Interests,
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to update profile")
		respondError(w, "Failed to update profile", http.StatusInternalServerError)
		return
	}
	respondJSON(w, ProfileResponse{Profile: profile, Interests: interests}, http.StatusOK)
}

// PushTokenRequest is the body for PUT /profiles/me/push-token
type PushTokenRequest struct {
	PushToken *string `json:"push_token"`
}

// UpdatePushToken handles PUT /api/v1/profiles/me/push-token
func (h *ProfileHandler) UpdatePushToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req PushTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.profileService.UpdatePushToken(ctx, userID, req.PushToken); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to update push token")
		respondError(w, "Failed to update push token", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Nearby handles GET /api/v1/profiles/nearby
func (h *ProfileHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	nearby, err := h.profileService.Nearby(ctx, userID)
	if err != nil {
		if err.Error() == "profile has no location" {
			respondError(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list nearby profiles")
		respondError(w, "Failed to list nearby profiles", http.StatusInternalServerError)
		return
	}
	respondJSON(w, nearby, http.StatusOK)
}
