// Package testutil provides in-memory store implementations used by
// service and handler tests in place of Postgres.
package testutil

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"amora-backend/internal/models"
	"amora-backend/internal/repository"
)

// UserStore is an in-memory stand-in for the user repository
type UserStore struct {
	mu    sync.Mutex
	Users map[string]*models.User
}

// NewUserStore creates an empty in-memory user store
func NewUserStore() *UserStore {
	return &UserStore{Users: make(map[string]*models.User)}
}

// Seed inserts a user directly, bypassing validation
func (s *UserStore) Seed(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *user
	s.Users[user.ID] = &copied
}

func (s *UserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.Users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	copied := *user
	s.Users[user.ID] = &copied
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.Users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.Users {
		if strings.EqualFold(u.Email, email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *UserStore) UpdateProfile(_ context.Context, userID string, name, avatarURL *string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.Users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if name != nil {
		u.Name = *name
	}
	if avatarURL != nil {
		u.AvatarURL = avatarURL
	}
	copied := *u
	return &copied, nil
}

func (s *UserStore) UpdatePushToken(_ context.Context, userID string, pushToken *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.Users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.PushToken = pushToken
	return nil
}

func (s *UserStore) AssignInviteCode(_ context.Context, userID, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, u := range s.Users {
		if id != userID && u.InviteCode != nil && strings.EqualFold(*u.InviteCode, code) {
			return repository.ErrCodeTaken
		}
	}
	u, ok := s.Users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	if u.InviteCode == nil {
		u.InviteCode = &code
	}
	return nil
}

func (s *UserStore) PairByInviteCode(_ context.Context, userID, code string) (*models.PartnerInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var partner *models.User
	for _, u := range s.Users {
		if u.InviteCode != nil && strings.EqualFold(*u.InviteCode, code) {
			partner = u
			break
		}
	}
	if partner == nil {
		return nil, repository.ErrInvalidInviteCode
	}
	if partner.ID == userID {
		return nil, repository.ErrSelfPairing
	}
	if partner.PairedWith != nil {
		return nil, repository.ErrPartnerAlreadyPaired
	}

	self, ok := s.Users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if self.PairedWith != nil {
		return nil, repository.ErrAlreadyPaired
	}

	now := time.Now()
	self.PairedWith = &partner.ID
	self.PairingDate = &now
	partner.PairedWith = &self.ID
	partner.PairingDate = &now

	return &models.PartnerInfo{ID: partner.ID, Name: partner.Name, AvatarURL: partner.AvatarURL}, nil
}

func (s *UserStore) Unpair(_ context.Context, userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	self, ok := s.Users[userID]
	if !ok {
		return "", repository.ErrNotFound
	}
	if self.PairedWith == nil {
		return "", nil
	}
	partnerID := *self.PairedWith
	if partner, ok := s.Users[partnerID]; ok {
		partner.PairedWith = nil
		partner.PairingDate = nil
	}
	self.PairedWith = nil
	self.PairingDate = nil
	return partnerID, nil
}

// MemoryStore is an in-memory stand-in for the memory repository
type MemoryStore struct {
	mu       sync.Mutex
	Memories map[string]*models.Memory
}

// NewMemoryStore creates an empty in-memory memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{Memories: make(map[string]*models.Memory)}
}

func (s *MemoryStore) Create(_ context.Context, memory *models.Memory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *memory
	s.Memories[memory.ID] = &copied
	return nil
}

func (s *MemoryStore) ListByCreators(_ context.Context, creatorIDs []string) ([]*models.Memory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.Memory{}
	for _, m := range s.Memories {
		for _, id := range creatorIDs {
			if m.CreatedBy == id {
				copied := *m
				out = append(out, &copied)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MemoryDate.After(out[j].MemoryDate) })
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.Memories[id]; ok && m.CreatedBy == userID {
		delete(s.Memories, id)
	}
	return nil
}

// InvitationStore is an in-memory stand-in for the invitation repository
type InvitationStore struct {
	mu          sync.Mutex
	Invitations map[string]*models.Invitation
}

// NewInvitationStore creates an empty in-memory invitation store
func NewInvitationStore() *InvitationStore {
	return &InvitationStore{Invitations: make(map[string]*models.Invitation)}
}

func (s *InvitationStore) Create(_ context.Context, inv *models.Invitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *inv
	s.Invitations[inv.ID] = &copied
	return nil
}

func (s *InvitationStore) ListByParticipant(_ context.Context, userID string) ([]*models.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.Invitation{}
	for _, inv := range s.Invitations {
		if inv.SenderID == userID || inv.RecipientID == userID {
			copied := *inv
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *InvitationStore) Respond(_ context.Context, id, recipientID, status string, responseMessage *string) (*models.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.Invitations[id]
	if !ok || inv.RecipientID != recipientID {
		return nil, repository.ErrNotFound
	}
	now := time.Now()
	inv.Status = status
	inv.ResponseMessage = responseMessage
	inv.RespondedAt = &now
	copied := *inv
	return &copied, nil
}

// DesignStore is an in-memory stand-in for the design repository
type DesignStore struct {
	mu      sync.Mutex
	Designs map[string]*models.Design
}

// NewDesignStore creates an empty in-memory design store
func NewDesignStore() *DesignStore {
	return &DesignStore{Designs: make(map[string]*models.Design)}
}

func (s *DesignStore) Create(_ context.Context, design *models.Design) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *design
	copied.DesignData = append(json.RawMessage(nil), design.DesignData...)
	s.Designs[design.ID] = &copied
	return nil
}

func (s *DesignStore) GetByID(_ context.Context, id, userID string) (*models.Design, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.Designs[id]
	if !ok || d.UserID != userID {
		return nil, repository.ErrNotFound
	}
	copied := *d
	copied.DesignData = append(json.RawMessage(nil), d.DesignData...)
	return &copied, nil
}

func (s *DesignStore) ListByUser(_ context.Context, userID string) ([]*models.Design, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.Design{}
	for _, d := range s.Designs {
		if d.UserID == userID {
			copied := *d
			copied.DesignData = append(json.RawMessage(nil), d.DesignData...)
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (s *DesignStore) Update(_ context.Context, id, userID string, title *string, designData json.RawMessage) (*models.Design, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.Designs[id]
	if !ok || d.UserID != userID {
		return nil, repository.ErrNotFound
	}
	if title != nil {
		d.Title = *title
	}
	if designData != nil {
		d.DesignData = append(json.RawMessage(nil), designData...)
	}
	d.UpdatedAt = time.Now()
	copied := *d
	copied.DesignData = append(json.RawMessage(nil), d.DesignData...)
	return &copied, nil
}

func (s *DesignStore) Delete(_ context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.Designs[id]; ok && d.UserID == userID {
		delete(s.Designs, id)
	}
	return nil
}
