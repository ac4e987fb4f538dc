package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"amora-backend/internal/middleware"
	"amora-backend/internal/repository"
	"amora-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// InvitationHandler handles date-invitation HTTP requests
type InvitationHandler struct {
	invitationService *services.InvitationService
}

// NewInvitationHandler creates a new invitation handler
func NewInvitationHandler(invitationService *services.InvitationService) *InvitationHandler {
	return &InvitationHandler{
		invitationService: invitationService,
	}
}

// CreateInvitationRequest represents the request body for creating an
// invitation. The recipient is always the sender's partner and is never
// client-supplied.
type CreateInvitationRequest struct {
	Title           string     `json:"title"`
	Vibe            *string    `json:"vibe"`
	DateTime        *time.Time `json:"date_time"`
	Location        *string    `json:"location"`
	Activity        *string    `json:"activity"`
	PersonalMessage *string    `json:"personal_message"`
	Photo           *string    `json:"photo"`
}

// Create handles POST /api/invitations
func (h *InvitationHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req CreateInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		respondError(w, "title is required", http.StatusBadRequest)
		return
	}

	invitation, err := h.invitationService.Create(ctx, userID, services.CreateInvitationInput{
		Title:           req.Title,
		Vibe:            req.Vibe,
		DateTime:        req.DateTime,
		Location:        req.Location,
		Activity:        req.Activity,
		PersonalMessage: req.PersonalMessage,
		Photo:           req.Photo,
	})
	if err != nil {
		if errors.Is(err, services.ErrNotPaired) {
			respondError(w, "You must be paired to send an invitation", http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create invitation")
		respondError(w, "Failed to create invitation", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, invitation)
}

// List handles GET /api/invitations
func (h *InvitationHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	invitations, err := h.invitationService.List(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list invitations")
		respondError(w, "Failed to fetch invitations", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, invitations)
}

// RespondRequest represents the request body for answering an invitation
type RespondRequest struct {
	Status          string  `json:"status"`
	ResponseMessage *string `json:"response_message"`
}

// Respond handles PUT /api/invitations/{id}/respond
func (h *InvitationHandler) Respond(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	id := chi.URLParam(r, "id")

	var req RespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	invitation, err := h.invitationService.Respond(ctx, id, userID, req.Status, req.ResponseMessage)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatus):
			respondError(w, "Invalid status", http.StatusBadRequest)
		case errors.Is(err, repository.ErrNotFound):
			respondError(w, "Invitation not found", http.StatusNotFound)
		default:
			log.Error().Err(err).Str("user_id", userID).Str("invitation_id", id).Msg("Failed to respond to invitation")
			respondError(w, "Failed to respond to invitation", http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, http.StatusOK, invitation)
}
