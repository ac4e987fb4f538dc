package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"amora-backend/internal/middleware"
	"amora-backend/internal/repository"
	"amora-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// DesignHandler handles card-design HTTP requests
type DesignHandler struct {
	designService *services.DesignService
}

// NewDesignHandler creates a new design handler
func NewDesignHandler(designService *services.DesignService) *DesignHandler {
	return &DesignHandler{
		designService: designService,
	}
}

// List handles GET /api/designs
func (h *DesignHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	designs, err := h.designService.List(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list designs")
		respondError(w, "Failed to fetch designs", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, designs)
}

// Get handles GET /api/designs/{id}
func (h *DesignHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	id := chi.URLParam(r, "id")

	design, err := h.designService.Get(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, "Design not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("user_id", userID).Str("design_id", id).Msg("Failed to get design")
		respondError(w, "Failed to fetch design", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, design)
}

// DesignRequest represents the request body for creating or updating a
// design
type DesignRequest struct {
	Title      *string         `json:"title"`
	DesignData json.RawMessage `json:"design_data"`
}

// Create handles POST /api/designs
func (h *DesignHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req DesignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	title := ""
	if req.Title != nil {
		title = *req.Title
	}

	design, err := h.designService.Create(ctx, userID, title, req.DesignData)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDocument) {
			respondError(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create design")
		respondError(w, "Failed to create design", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, design)
}

// Update handles PUT /api/designs/{id}
func (h *DesignHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	id := chi.URLParam(r, "id")

	var req DesignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Title == nil && req.DesignData == nil {
		respondError(w, "No update fields provided", http.StatusBadRequest)
		return
	}

	design, err := h.designService.Update(ctx, id, userID, req.Title, req.DesignData)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidDocument):
			respondError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, repository.ErrNotFound):
			respondError(w, "Design not found", http.StatusNotFound)
		default:
			log.Error().Err(err).Str("user_id", userID).Str("design_id", id).Msg("Failed to update design")
			respondError(w, "Failed to update design", http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, http.StatusOK, design)
}

// Delete handles DELETE /api/designs/{id}
func (h *DesignHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	id := chi.URLParam(r, "id")

	if err := h.designService.Delete(ctx, id, userID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("design_id", id).Msg("Failed to delete design")
		respondError(w, "Failed to delete design", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, MessageResponse{Message: "Design deleted successfully"})
}
