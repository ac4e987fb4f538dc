package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"amora-backend/internal/config"
	"amora-backend/internal/designer"
	"amora-backend/internal/models"

	"github.com/google/uuid"
)

// ErrInvalidDocument marks design document validation failures; the
// wrapped message is safe to return to the client.
var ErrInvalidDocument = errors.New("invalid design document")

// DesignStore is the persistence surface for card designs
type DesignStore interface {
	Create(ctx context.Context, design *models.Design) error
	GetByID(ctx context.Context, id, userID string) (*models.Design, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Design, error)
	Update(ctx context.Context, id, userID string, title *string, designData json.RawMessage) (*models.Design, error)
	Delete(ctx context.Context, id, userID string) error
}

// DesignService handles card-design business logic
type DesignService struct {
	designs DesignStore
	limits  config.LimitsConfig
}

// NewDesignService creates a new design service
func NewDesignService(designs DesignStore, limits config.LimitsConfig) *DesignService {
	return &DesignService{
		designs: designs,
		limits:  limits,
	}
}

// ValidateDocument checks a raw design document against the persisted
// shape: a JSON object carrying a background or backgroundImage key and
// an elements array, within the configured size limits.
func (s *DesignService) ValidateDocument(raw json.RawMessage) error {
	if len(raw) > s.limits.MaxDesignBytes {
		return fmt.Errorf("%w: design_data exceeds %d bytes", ErrInvalidDocument, s.limits.MaxDesignBytes)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: design_data is required and must be an object", ErrInvalidDocument)
	}

	_, hasBackground := doc["background"]
	_, hasBackgroundImage := doc["backgroundImage"]
	if !hasBackground && !hasBackgroundImage {
		return fmt.Errorf("%w: design_data must have background or backgroundImage", ErrInvalidDocument)
	}

	elementsRaw, ok := doc["elements"]
	if !ok {
		return fmt.Errorf("%w: design_data.elements must be an array", ErrInvalidDocument)
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(elementsRaw, &elements); err != nil {
		return fmt.Errorf("%w: design_data.elements must be an array", ErrInvalidDocument)
	}
	if len(elements) > s.limits.MaxElements {
		return fmt.Errorf("%w: design_data.elements exceeds %d elements", ErrInvalidDocument, s.limits.MaxElements)
	}

	return nil
}

// List returns the user's designs, most recently updated first
func (s *DesignService) List(ctx context.Context, userID string) ([]*models.Design, error) {
	return s.designs.ListByUser(ctx, userID)
}

// Get returns one design within the owner's scope
func (s *DesignService) Get(ctx context.Context, id, userID string) (*models.Design, error) {
	return s.designs.GetByID(ctx, id, userID)
}

// Create validates and stores a new design
func (s *DesignService) Create(ctx context.Context, userID, title string, designData json.RawMessage) (*models.Design, error) {
	if err := s.ValidateDocument(designData); err != nil {
		return nil, err
	}

	if title == "" {
		title = "Untitled Card"
	}

	now := time.Now()
	design := &models.Design{
		ID:         uuid.New().String(),
		UserID:     userID,
		Title:      title,
		DesignData: designData,
		IsShared:   false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.designs.Create(ctx, design); err != nil {
		return nil, err
	}
	return design, nil
}

// Update applies a partial update to a design within the owner's scope
func (s *DesignService) Update(ctx context.Context, id, userID string, title *string, designData json.RawMessage) (*models.Design, error) {
	if designData != nil {
		if err := s.ValidateDocument(designData); err != nil {
			return nil, err
		}
	}
	return s.designs.Update(ctx, id, userID, title, designData)
}

// Delete removes a design within the owner's scope
func (s *DesignService) Delete(ctx context.Context, id, userID string) error {
	return s.designs.Delete(ctx, id, userID)
}

// EditorStore adapts the design service to the designer package for one
// user's editing session.
type EditorStore struct {
	svc    *DesignService
	userID string
}

// NewEditorStore creates a designer.Store bound to a user
func (s *DesignService) NewEditorStore(userID string) *EditorStore {
	return &EditorStore{svc: s, userID: userID}
}

// Get loads a persisted design document
func (es *EditorStore) Get(ctx context.Context, id string) (designer.Document, error) {
	design, err := es.svc.Get(ctx, id, es.userID)
	if err != nil {
		return designer.Document{}, err
	}

	var doc designer.Document
	if err := json.Unmarshal(design.DesignData, &doc); err != nil {
		return designer.Document{}, fmt.Errorf("failed to decode design document: %w", err)
	}
	return doc, nil
}

// Create persists a new design for the editing session
func (es *EditorStore) Create(ctx context.Context, title string, doc designer.Document) (string, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode design document: %w", err)
	}

	design, err := es.svc.Create(ctx, es.userID, title, raw)
	if err != nil {
		return "", err
	}
	return design.ID, nil
}

// Update overwrites the session's persisted design
func (es *EditorStore) Update(ctx context.Context, id, title string, doc designer.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode design document: %w", err)
	}

	_, err = es.svc.Update(ctx, id, es.userID, &title, raw)
	return err
}
