package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"amora-backend/internal/models"
	"amora-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// AuthHandler handles signup and login requests
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// SignupRequest represents the request body for signup
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the user and their bearer token
type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Email) == "" {
		respondError(w, "email is required", http.StatusBadRequest)
		return
	}
	if len(req.Password) < 8 {
		respondError(w, "password must be at least 8 characters", http.StatusBadRequest)
		return
	}

	user, token, err := h.authService.Signup(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			respondError(w, err.Error(), http.StatusConflict)
			return
		}
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to sign up user")
		respondError(w, "Failed to sign up", http.StatusInternalServerError)
		return
	}

	log.Info().Str("user_id", user.ID).Msg("User signed up")
	respondJSON(w, http.StatusCreated, AuthResponse{User: user, Token: token})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			respondError(w, err.Error(), http.StatusUnauthorized)
			return
		}
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to log in user")
		respondError(w, "Failed to log in", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, AuthResponse{User: user, Token: token})
}
