package memstore

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/medtrack-api/internal/domain"
	"github.com/phrazzld/medtrack-api/internal/store"
)

func newTestUser(t *testing.T, username string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(username, "$2a$10$digestdigestdigest")
	require.NoError(t, err)
	return user
}

func TestUserStoreCreateAndGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewUserStore()

	user := newTestUser(t, "alice")
	require.NoError(t, s.Create(ctx, user))

	byID, err := s.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Username, byID.Username)

	byName, err := s.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
}

func TestUserStoreDuplicateUsername(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewUserStore()

	require.NoError(t, s.Create(ctx, newTestUser(t, "alice")))
	err := s.Create(ctx, newTestUser(t, "alice"))

	assert.ErrorIs(t, err, store.ErrUsernameExists)
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestUserStoreLookupMisses(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewUserStore()

	_, err := s.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	_, err = s.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestUserStoreListPreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewUserStore()

	names := []string{"carol", "alice", "bob"}
	for _, name := range names {
		require.NoError(t, s.Create(ctx, newTestUser(t, name)))
	}

	users, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	for i, name := range names {
		assert.Equal(t, name, users[i].Username)
	}
}

func TestUserStoreReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewUserStore()

	user := newTestUser(t, "alice")
	require.NoError(t, s.Create(ctx, user))

	got, err := s.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	got.Username = "mutated"

	again, err := s.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", again.Username)
}
