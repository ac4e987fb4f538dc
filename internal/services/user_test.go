package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"amora-backend/internal/models"
	"amora-backend/internal/repository"
	"amora-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(store *testutil.UserStore, id, name string) {
	store.Seed(&models.User{
		ID:        id,
		Email:     id + "@example.com",
		Name:      name,
		CreatedAt: time.Now(),
	})
}

func TestGetInviteCode(t *testing.T) {
	store := testutil.NewUserStore()
	seedUser(store, "alice", "Alice")
	svc := NewUserService(store)

	code, err := svc.GetInviteCode(context.Background(), "alice")
	require.NoError(t, err)
	assert.Len(t, code, codeLength)
	for _, c := range code {
		assert.Contains(t, codeChars, string(c))
	}

	// A second call returns the same code instead of rolling a new one.
	again, err := svc.GetInviteCode(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, code, again)
}

func TestGetInviteCodeUnknownUser(t *testing.T) {
	svc := NewUserService(testutil.NewUserStore())

	_, err := svc.GetInviteCode(context.Background(), "ghost")
	assert.Error(t, err)
}

func TestPairCaseInsensitive(t *testing.T) {
	store := testutil.NewUserStore()
	seedUser(store, "alice", "Alice")
	seedUser(store, "bob", "Bob")
	svc := NewUserService(store)

	code, err := svc.GetInviteCode(context.Background(), "alice")
	require.NoError(t, err)

	// Bob redeems the lowercased code; pairing still succeeds.
	partner, err := svc.Pair(context.Background(), "bob", strings.ToLower(code))
	require.NoError(t, err)
	assert.Equal(t, "alice", partner.ID)
	assert.Equal(t, "Alice", partner.Name)

	// Both sides now reference each other and carry a pairing date.
	alice, err := store.GetByID(context.Background(), "alice")
	require.NoError(t, err)
	bob, err := store.GetByID(context.Background(), "bob")
	require.NoError(t, err)
	require.NotNil(t, alice.PairedWith)
	require.NotNil(t, bob.PairedWith)
	assert.Equal(t, "bob", *alice.PairedWith)
	assert.Equal(t, "alice", *bob.PairedWith)
	assert.NotNil(t, alice.PairingDate)
	assert.NotNil(t, bob.PairingDate)
}

func TestPairRejections(t *testing.T) {
	store := testutil.NewUserStore()
	seedUser(store, "alice", "Alice")
	seedUser(store, "bob", "Bob")
	seedUser(store, "carol", "Carol")
	svc := NewUserService(store)

	code, err := svc.GetInviteCode(context.Background(), "alice")
	require.NoError(t, err)

	_, err = svc.Pair(context.Background(), "bob", "")
	assert.ErrorIs(t, err, repository.ErrInvalidInviteCode)

	_, err = svc.Pair(context.Background(), "bob", "NOSUCH")
	assert.ErrorIs(t, err, repository.ErrInvalidInviteCode)

	_, err = svc.Pair(context.Background(), "alice", code)
	assert.ErrorIs(t, err, repository.ErrSelfPairing)

	_, err = svc.Pair(context.Background(), "bob", code)
	require.NoError(t, err)

	// Alice is taken now; Carol's attempt on the same code fails.
	_, err = svc.Pair(context.Background(), "carol", code)
	assert.ErrorIs(t, err, repository.ErrPartnerAlreadyPaired)

	// Bob is paired and cannot redeem another code.
	carolCode, err := svc.GetInviteCode(context.Background(), "carol")
	require.NoError(t, err)
	_, err = svc.Pair(context.Background(), "bob", carolCode)
	assert.ErrorIs(t, err, repository.ErrAlreadyPaired)
}

func TestUnpairClearsBothSides(t *testing.T) {
	store := testutil.NewUserStore()
	seedUser(store, "alice", "Alice")
	seedUser(store, "bob", "Bob")
	svc := NewUserService(store)

	code, err := svc.GetInviteCode(context.Background(), "alice")
	require.NoError(t, err)
	_, err = svc.Pair(context.Background(), "bob", code)
	require.NoError(t, err)

	partnerID, err := svc.Unpair(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, "alice", partnerID)

	alice, _ := store.GetByID(context.Background(), "alice")
	bob, _ := store.GetByID(context.Background(), "bob")
	assert.Nil(t, alice.PairedWith)
	assert.Nil(t, alice.PairingDate)
	assert.Nil(t, bob.PairedWith)
	assert.Nil(t, bob.PairingDate)

	// Unpairing while single is quietly fine.
	partnerID, err = svc.Unpair(context.Background(), "bob")
	require.NoError(t, err)
	assert.Empty(t, partnerID)
}

func TestGetProfileResolvesPartner(t *testing.T) {
	store := testutil.NewUserStore()
	seedUser(store, "alice", "Alice")
	seedUser(store, "bob", "Bob")
	svc := NewUserService(store)

	profile, err := svc.GetProfile(context.Background(), "alice")
	require.NoError(t, err)
	assert.Nil(t, profile.Partner)

	code, _ := svc.GetInviteCode(context.Background(), "alice")
	_, err = svc.Pair(context.Background(), "bob", code)
	require.NoError(t, err)

	profile, err = svc.GetProfile(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, profile.Partner)
	assert.Equal(t, "bob", profile.Partner.ID)
	assert.Equal(t, "Bob", profile.Partner.Name)
}
