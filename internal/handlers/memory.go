package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"amora-backend/internal/middleware"
	"amora-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// MemoryHandler handles memory-related HTTP requests
type MemoryHandler struct {
	memoryService *services.MemoryService
}

// NewMemoryHandler creates a new memory handler
func NewMemoryHandler(memoryService *services.MemoryService) *MemoryHandler {
	return &MemoryHandler{
		memoryService: memoryService,
	}
}

// List handles GET /api/memories
func (h *MemoryHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	memories, err := h.memoryService.List(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list memories")
		respondError(w, "Failed to fetch memories", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, memories)
}

// CreateMemoryRequest represents the request body for creating a memory
type CreateMemoryRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	ImageURL    *string    `json:"image_url"`
	MemoryDate  *time.Time `json:"memory_date"`
	Category    string     `json:"category"`
}

// Create handles POST /api/memories
func (h *MemoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req CreateMemoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Title == "" || req.MemoryDate == nil {
		respondError(w, "Title and date are required", http.StatusBadRequest)
		return
	}

	memory, err := h.memoryService.Create(ctx, userID, services.CreateMemoryInput{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		MemoryDate:  *req.MemoryDate,
		Category:    req.Category,
	})
	if err != nil {
		if errors.Is(err, services.ErrNotPaired) {
			respondError(w, "You must be paired to create a memory", http.StatusForbidden)
			return
		}
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create memory")
		respondError(w, "Failed to create memory", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, memory)
}

// Delete handles DELETE /api/memories/{id}
func (h *MemoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	id := chi.URLParam(r, "id")

	if err := h.memoryService.Delete(ctx, id, userID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("memory_id", id).Msg("Failed to delete memory")
		respondError(w, "Failed to delete memory", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, MessageResponse{Message: "Memory deleted"})
}
