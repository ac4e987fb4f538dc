package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"amora-backend/internal/models"
	"amora-backend/internal/repository"
)

const (
	codeLength = 6
	codeChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Profile is a user's own view of their account, with the partner
// summary resolved.
type Profile struct {
	models.User
	Partner *models.PartnerInfo `json:"partner,omitempty"`
}

// UserService handles profile and pairing business logic
type UserService struct {
	users UserStore
}

// NewUserService creates a new user service
func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// GetProfile returns the user's profile with partner details resolved
func (s *UserService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	profile := &Profile{User: *user}
	if user.PairedWith != nil {
		partner, err := s.users.GetByID(ctx, *user.PairedWith)
		if err == nil {
			profile.Partner = &models.PartnerInfo{
				ID:        partner.ID,
				Name:      partner.Name,
				AvatarURL: partner.AvatarURL,
			}
		}
	}
	return profile, nil
}

// UpdateProfile updates name and/or avatar
func (s *UserService) UpdateProfile(ctx context.Context, userID string, name, avatarURL *string) (*models.User, error) {
	return s.users.UpdateProfile(ctx, userID, name, avatarURL)
}

// UpdatePushToken stores the device push token
func (s *UserService) UpdatePushToken(ctx context.Context, userID string, pushToken *string) error {
	return s.users.UpdatePushToken(ctx, userID, pushToken)
}

// GetInviteCode returns the user's invite code, assigning a fresh one
// on first call. Uniqueness rests on the invite_code unique index;
// generation retries only when the chosen code is already taken.
func (s *UserService) GetInviteCode(ctx context.Context, userID string) (string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}
	if user.InviteCode != nil {
		return *user.InviteCode, nil
	}

	maxAttempts := 10
	for i := 0; i < maxAttempts; i++ {
		code := generateCode()
		err := s.users.AssignInviteCode(ctx, userID, code)
		if errors.Is(err, repository.ErrCodeTaken) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to assign invite code: %w", err)
		}

		// Re-read in case a concurrent request won the assignment.
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return "", fmt.Errorf("failed to get user: %w", err)
		}
		if user.InviteCode == nil {
			return "", fmt.Errorf("invite code missing after assignment")
		}
		return *user.InviteCode, nil
	}
	return "", fmt.Errorf("failed to generate unique invite code after %d attempts", maxAttempts)
}

// generateCode generates a random 6-character code
func generateCode() string {
	code := make([]byte, codeLength)
	for i := range code {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(codeChars))))
		code[i] = codeChars[n.Int64()]
	}
	return string(code)
}

// Pair links the caller with the owner of the invite code. The code
// match is case-insensitive and the exchange is a single transaction.
func (s *UserService) Pair(ctx context.Context, userID, inviteCode string) (*models.PartnerInfo, error) {
	if inviteCode == "" {
		return nil, repository.ErrInvalidInviteCode
	}
	return s.users.PairByInviteCode(ctx, userID, inviteCode)
}

// Unpair clears both sides of the pairing link and returns the former
// partner's id, empty when the caller was not paired.
func (s *UserService) Unpair(ctx context.Context, userID string) (string, error) {
	return s.users.Unpair(ctx, userID)
}
