package services

import (
	"context"
	"fmt"
	"time"

	"amora-backend/internal/models"

	"github.com/google/uuid"
)

// MemoryStore is the persistence surface for memories
type MemoryStore interface {
	Create(ctx context.Context, memory *models.Memory) error
	ListByCreators(ctx context.Context, creatorIDs []string) ([]*models.Memory, error)
	Delete(ctx context.Context, id, userID string) error
}

// CreateMemoryInput carries the validated fields for a new memory
type CreateMemoryInput struct {
	Title       string
	Description *string
	ImageURL    *string
	MemoryDate  time.Time
	Category    string
}

// MemoryService handles shared-memory business logic
type MemoryService struct {
	memories MemoryStore
	users    UserStore
	hub      *WSHub
}

// NewMemoryService creates a new memory service
func NewMemoryService(memories MemoryStore, users UserStore, hub *WSHub) *MemoryService {
	return &MemoryService{
		memories: memories,
		users:    users,
		hub:      hub,
	}
}

// List returns memories created by the user or their partner, newest
// memory date first.
func (s *MemoryService) List(ctx context.Context, userID string) ([]*models.Memory, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	creators := []string{userID}
	if user.PairedWith != nil {
		creators = append(creators, *user.PairedWith)
	}
	return s.memories.ListByCreators(ctx, creators)
}

// Create adds a memory. The caller must currently be paired.
func (s *MemoryService) Create(ctx context.Context, userID string, input CreateMemoryInput) (*models.Memory, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user.PairedWith == nil {
		return nil, ErrNotPaired
	}

	if input.Category == "" {
		input.Category = "everyday"
	}

	memory := &models.Memory{
		ID:          uuid.New().String(),
		CreatedBy:   userID,
		Title:       input.Title,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		MemoryDate:  input.MemoryDate,
		Category:    input.Category,
		CreatedAt:   time.Now(),
	}

	if err := s.memories.Create(ctx, memory); err != nil {
		return nil, err
	}

	if s.hub != nil && s.hub.IsOnline(*user.PairedWith) {
		s.hub.NotifyMemoryAdded(*user.PairedWith, memory)
	}

	return memory, nil
}

// Delete removes one of the caller's own memories
func (s *MemoryService) Delete(ctx context.Context, id, userID string) error {
	return s.memories.Delete(ctx, id, userID)
}
