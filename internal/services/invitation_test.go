package services

import (
	"context"
	"testing"
	"time"

	"amora-backend/internal/models"
	"amora-backend/internal/repository"
	"amora-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pairedFixture(t *testing.T) (*testutil.UserStore, *testutil.InvitationStore, *InvitationService) {
	t.Helper()
	users := testutil.NewUserStore()
	seedUser(users, "alice", "Alice")
	seedUser(users, "bob", "Bob")

	userSvc := NewUserService(users)
	code, err := userSvc.GetInviteCode(context.Background(), "alice")
	require.NoError(t, err)
	_, err = userSvc.Pair(context.Background(), "bob", code)
	require.NoError(t, err)

	invitations := testutil.NewInvitationStore()
	return users, invitations, NewInvitationService(invitations, users, nil, nil)
}

func TestCreateInvitationDerivesRecipient(t *testing.T) {
	_, _, svc := pairedFixture(t)

	vibe := "cozy"
	inv, err := svc.Create(context.Background(), "alice", CreateInvitationInput{
		Title: "Movie night",
		Vibe:  &vibe,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", inv.SenderID)
	assert.Equal(t, "bob", inv.RecipientID)
	assert.Equal(t, models.InvitationPending, inv.Status)
}

func TestCreateInvitationRequiresPartner(t *testing.T) {
	users := testutil.NewUserStore()
	seedUser(users, "alice", "Alice")
	invitations := testutil.NewInvitationStore()
	svc := NewInvitationService(invitations, users, nil, nil)

	_, err := svc.Create(context.Background(), "alice", CreateInvitationInput{Title: "Dinner"})
	assert.ErrorIs(t, err, ErrNotPaired)
	assert.Empty(t, invitations.Invitations)
}

func TestRespondStatusWhitelist(t *testing.T) {
	_, invitations, svc := pairedFixture(t)

	inv, err := svc.Create(context.Background(), "alice", CreateInvitationInput{Title: "Picnic"})
	require.NoError(t, err)

	for _, status := range []string{"pending", "maybe", "", "ACCEPTED"} {
		_, err := svc.Respond(context.Background(), inv.ID, "bob", status, nil)
		assert.ErrorIs(t, err, ErrInvalidStatus, "status %q", status)
	}

	// The row is untouched after the rejected attempts.
	stored := invitations.Invitations[inv.ID]
	assert.Equal(t, models.InvitationPending, stored.Status)
	assert.Nil(t, stored.RespondedAt)

	msg := "can't wait!"
	updated, err := svc.Respond(context.Background(), inv.ID, "bob", models.InvitationAccepted, &msg)
	require.NoError(t, err)
	assert.Equal(t, models.InvitationAccepted, updated.Status)
	require.NotNil(t, updated.RespondedAt)
	assert.WithinDuration(t, time.Now(), *updated.RespondedAt, time.Minute)
}

func TestRespondRestrictedToRecipient(t *testing.T) {
	_, _, svc := pairedFixture(t)

	inv, err := svc.Create(context.Background(), "alice", CreateInvitationInput{Title: "Picnic"})
	require.NoError(t, err)

	// The sender cannot answer their own invitation.
	_, err = svc.Respond(context.Background(), inv.ID, "alice", models.InvitationDeclined, nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.Respond(context.Background(), "missing", "bob", models.InvitationDeclined, nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListInvitationsByParticipant(t *testing.T) {
	_, _, svc := pairedFixture(t)

	_, err := svc.Create(context.Background(), "alice", CreateInvitationInput{Title: "First"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "bob", CreateInvitationInput{Title: "Second"})
	require.NoError(t, err)

	forAlice, err := svc.List(context.Background(), "alice")
	require.NoError(t, err)
	assert.Len(t, forAlice, 2)

	forStranger, err := svc.List(context.Background(), "carol")
	require.NoError(t, err)
	assert.Empty(t, forStranger)
}
