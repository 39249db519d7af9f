package handlers

import (
	"encoding/json"
	"net/http"

	"nalia-backend/internal/middleware"
	"nalia-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// MediaHandler handles image upload HTTP requests
type MediaHandler struct {
	mediaService *services.MediaService
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(mediaService *services.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// UploadURLRequest is the body for POST /media/upload-url
type UploadURLRequest struct {
	ContentType string `json:"content_type"`
}

// UploadURL handles POST /api/v1/media/upload-url
func (h *MediaHandler) UploadURL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req UploadURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ContentType == "" {
		req.ContentType = "image/jpeg"
	}

	resp, err := h.mediaService.PresignUpload(ctx, userID, req.ContentType)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to presign upload")
		respondError(w, "Failed to create upload URL", http.StatusInternalServerError)
		return
	}
	respondJSON(w, resp, http.StatusOK)
}
