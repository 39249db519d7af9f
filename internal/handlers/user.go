package handlers

import (
	"encoding/json"
	"net/http"

	"nalia-backend/internal/models"
	"nalia-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles registration and login
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRequest is the body for POST /register
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest is the body for POST /login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the profile and its token
type AuthResponse struct {
	Profile *models.Profile `json:"profile"`
	Token   string          `json:"token"`
}

// Register handles POST /api/v1/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, token, err := h.userService.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to register")
		statusCode := http.StatusBadRequest
		if err.Error() == "email already registered" {
			statusCode = http.StatusConflict
		}
		respondError(w, err.Error(), statusCode)
		return
	}

	log.Info().Str("user_id", profile.ID).Msg("User registered")
	respondJSON(w, AuthResponse{Profile: profile, Token: token}, http.StatusOK)
}

// Login handles POST /api/v1/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, token, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	log.Info().Str("user_id", profile.ID).Msg("User logged in")
	respondJSON(w, AuthResponse{Profile: profile, Token: token}, http.StatusOK)
}
