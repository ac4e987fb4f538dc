package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"amora-backend/internal/middleware"
	"amora-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UploadHandler issues pre-signed upload URLs for images
type UploadHandler struct {
	storageService *services.StorageService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(storageService *services.StorageService) *UploadHandler {
	return &UploadHandler{
		storageService: storageService,
	}
}

// Presign handles POST /api/uploads
func (h *UploadHandler) Presign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req services.UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Filename == "" {
		respondError(w, "filename is required", http.StatusBadRequest)
		return
	}

	response, err := h.storageService.PresignUpload(ctx, userID, req)
	if err != nil {
		if errors.Is(err, services.ErrUploadTooLarge) {
			respondError(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Str("user_id", userID).Str("filename", req.Filename).Msg("Failed to generate pre-signed URL")
		respondError(w, "Failed to generate upload URL", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, response)
}
