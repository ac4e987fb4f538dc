package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"amora-backend/internal/middleware"
	"amora-backend/internal/models"
	"amora-backend/internal/repository"
	"amora-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles profile and pairing HTTP requests
type UserHandler struct {
	userService *services.UserService
	wsHub       *services.WSHub
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, wsHub *services.WSHub) *UserHandler {
	return &UserHandler{
		userService: userService,
		wsHub:       wsHub,
	}
}

// Me handles GET /api/user/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	profile, err := h.userService.GetProfile(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get profile")
		respondError(w, "Failed to fetch profile", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// UpdateProfileRequest represents the request body for profile updates
type UpdateProfileRequest struct {
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatar_url"`
}

// UpdateProfile handles PUT /api/user/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == nil && req.AvatarURL == nil {
		respondError(w, "No update fields provided", http.StatusBadRequest)
		return
	}

	user, err := h.userService.UpdateProfile(ctx, userID, req.Name, req.AvatarURL)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to update profile")
		respondError(w, "Failed to update profile", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// UpdatePushTokenRequest represents the request body for push tokens
type UpdatePushTokenRequest struct {
	PushToken *string `json:"push_token"`
}

// UpdatePushToken handles PUT /api/user/push-token
func (h *UserHandler) UpdatePushToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req UpdatePushTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.userService.UpdatePushToken(ctx, userID, req.PushToken); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to update push token")
		respondError(w, "Failed to update push token", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, MessageResponse{Message: "Push token updated"})
}

// InviteCodeResponse carries the user's invite code
type InviteCodeResponse struct {
	InviteCode string `json:"invite_code"`
}

// GenerateCode handles POST /api/user/code
func (h *UserHandler) GenerateCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	code, err := h.userService.GetInviteCode(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to generate invite code")
		respondError(w, "Failed to generate code", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, InviteCodeResponse{InviteCode: code})
}

// PairRequest represents the request body for pairing
type PairRequest struct {
	InviteCode string `json:"invite_code"`
}

// PairResponse carries the new partner's info
type PairResponse struct {
	Message string              `json:"message"`
	Partner *models.PartnerInfo `json:"partner"`
}

// Pair handles POST /api/user/pair
func (h *UserHandler) Pair(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req PairRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.InviteCode == "" {
		respondError(w, "Invite code is required", http.StatusBadRequest)
		return
	}

	partner, err := h.userService.Pair(ctx, userID, req.InviteCode)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidInviteCode),
			errors.Is(err, repository.ErrSelfPairing),
			errors.Is(err, repository.ErrAlreadyPaired),
			errors.Is(err, repository.ErrPartnerAlreadyPaired):
			respondError(w, err.Error(), http.StatusBadRequest)
		default:
			log.Error().Err(err).Str("user_id", userID).Msg("Failed to pair")
			respondError(w, "Pairing failed", http.StatusInternalServerError)
		}
		return
	}

	log.Info().Str("user_id", userID).Str("partner_id", partner.ID).Msg("Users paired")

	if h.wsHub != nil && h.wsHub.IsOnline(partner.ID) {
		profile, err := h.userService.GetProfile(ctx, userID)
		if err == nil {
			h.wsHub.NotifyPaired(partner.ID, &models.PartnerInfo{
				ID:        profile.ID,
				Name:      profile.Name,
				AvatarURL: profile.AvatarURL,
			})
		}
	}

	respondJSON(w, http.StatusOK, PairResponse{Message: "Paired successfully", Partner: partner})
}

// Unpair handles POST /api/user/unpair
func (h *UserHandler) Unpair(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	partnerID, err := h.userService.Unpair(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to unpair")
		respondError(w, "Unpair failed", http.StatusInternalServerError)
		return
	}

	if h.wsHub != nil && partnerID != "" && h.wsHub.IsOnline(partnerID) {
		h.wsHub.NotifyUnpaired(partnerID)
	}

	respondJSON(w, http.StatusOK, MessageResponse{Message: "Unpaired successfully"})
}
