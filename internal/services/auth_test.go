package services

import (
	"context"
	"testing"

	"amora-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupAndLogin(t *testing.T) {
	svc := NewAuthService(testutil.NewUserStore(), "test-secret")
	ctx := context.Background()

	user, token, err := svc.Signup(ctx, "Alice@Example.com", "correct horse", "Alice")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	// The issued token resolves back to the user.
	userID, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	_, loginToken, err := svc.Login(ctx, "alice@example.com", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, loginToken)

	_, _, err = svc.Login(ctx, "alice@example.com", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := NewAuthService(testutil.NewUserStore(), "test-secret")
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, "alice@example.com", "correct horse", "Alice")
	require.NoError(t, err)

	_, _, err = svc.Signup(ctx, "ALICE@example.com", "battery staple", "Imposter")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService(testutil.NewUserStore(), "test-secret")

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)

	// A token signed with a different secret fails verification.
	other := NewAuthService(testutil.NewUserStore(), "other-secret")
	token, err := other.GenerateToken("alice")
	require.NoError(t, err)
	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
