package services

import (
	"context"
	"testing"
	"time"

	"amora-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMemoryRequiresPartner(t *testing.T) {
	users := testutil.NewUserStore()
	seedUser(users, "alice", "Alice")
	memories := testutil.NewMemoryStore()
	svc := NewMemoryService(memories, users, nil)

	_, err := svc.Create(context.Background(), "alice", CreateMemoryInput{
		Title:      "First date",
		MemoryDate: time.Now(),
	})
	assert.ErrorIs(t, err, ErrNotPaired)
	assert.Empty(t, memories.Memories)
}

func TestMemoryListIncludesPartner(t *testing.T) {
	users := testutil.NewUserStore()
	seedUser(users, "alice", "Alice")
	seedUser(users, "bob", "Bob")
	seedUser(users, "carol", "Carol")

	userSvc := NewUserService(users)
	code, err := userSvc.GetInviteCode(context.Background(), "alice")
	require.NoError(t, err)
	_, err = userSvc.Pair(context.Background(), "bob", code)
	require.NoError(t, err)

	memories := testutil.NewMemoryStore()
	svc := NewMemoryService(memories, users, nil)

	older, err := svc.Create(context.Background(), "alice", CreateMemoryInput{
		Title:      "Beach trip",
		MemoryDate: time.Now().Add(-48 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "everyday", older.Category)

	newer, err := svc.Create(context.Background(), "bob", CreateMemoryInput{
		Title:      "Concert",
		MemoryDate: time.Now(),
		Category:   "special",
	})
	require.NoError(t, err)

	// Both halves of the couple see both rows, newest date first.
	list, err := svc.List(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)

	list, err = svc.List(context.Background(), "bob")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	// An unrelated user sees nothing.
	list, err = svc.List(context.Background(), "carol")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMemoryDeleteScopedToOwner(t *testing.T) {
	users := testutil.NewUserStore()
	seedUser(users, "alice", "Alice")
	seedUser(users, "bob", "Bob")

	userSvc := NewUserService(users)
	code, _ := userSvc.GetInviteCode(context.Background(), "alice")
	_, err := userSvc.Pair(context.Background(), "bob", code)
	require.NoError(t, err)

	memories := testutil.NewMemoryStore()
	svc := NewMemoryService(memories, users, nil)

	m, err := svc.Create(context.Background(), "alice", CreateMemoryInput{
		Title:      "Beach trip",
		MemoryDate: time.Now(),
	})
	require.NoError(t, err)

	// The partner cannot delete the creator's memory.
	require.NoError(t, svc.Delete(context.Background(), m.ID, "bob"))
	assert.Len(t, memories.Memories, 1)

	require.NoError(t, svc.Delete(context.Background(), m.ID, "alice"))
	assert.Empty(t, memories.Memories)
}
