package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukecc25/Flowershop/internal/domain"
)

func setupTestManager(t *testing.T) (*Manager, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	manager := NewManager(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return manager, mr, cleanup
}

func TestCreate_AnonymousSession(t *testing.T) {
	manager, mr, cleanup := setupTestManager(t)
	defer cleanup()

	sess, err := manager.Create(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, sess.ID)
	assert.False(t, sess.IsLoggedIn())
	assert.False(t, sess.IsAdmin())
	assert.True(t, mr.Exists(sessionKey(sess.ID)))

	ttl := mr.TTL(sessionKey(sess.ID))
	assert.Equal(t, DefaultTTL, ttl)
}

func TestGet_RoundTrip(t *testing.T) {
	manager, _, cleanup := setupTestManager(t)
	defer cleanup()

	ctx := context.Background()
	created, err := manager.Create(ctx)
	require.NoError(t, err)

	loaded, err := manager.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, loaded.ID)
	assert.False(t, loaded.IsLoggedIn())
}

func TestGet_UnknownSession(t *testing.T) {
	manager, _, cleanup := setupTestManager(t)
	defer cleanup()

	_, err := manager.Get(context.Background(), "no-such-session")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestGet_RefreshesTTL(t *testing.T) {
	manager, mr, cleanup := setupTestManager(t)
	defer cleanup()

	ctx := context.Background()
	sess, err := manager.Create(ctx)
	require.NoError(t, err)

	mr.FastForward(10 * 24 * time.Hour)
	_, err = manager.Get(ctx, sess.ID)
	require.NoError(t, err)

	assert.Equal(t, DefaultTTL, mr.TTL(sessionKey(sess.ID)))
}

func TestLogin_BindsUser(t *testing.T) {
	manager, _, cleanup := setupTestManager(t)
	defer cleanup()

	ctx := context.Background()
	sess, err := manager.Create(ctx)
	require.NoError(t, err)

	user := &domain.User{ID: 7, Email: "ada@example.com", RoleID: domain.RoleAdmin}
	require.NoError(t, manager.Login(ctx, sess, user))

	loaded, err := manager.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), loaded.UserID)
	assert.Equal(t, "ada@example.com", loaded.Email)
	assert.True(t, loaded.IsLoggedIn())
	assert.True(t, loaded.IsAdmin())
	assert.False(t, loaded.LoginAt.IsZero())
}

func TestDestroy(t *testing.T) {
	manager, mr, cleanup := setupTestManager(t)
	defer cleanup()

	ctx := context.Background()
	sess, err := manager.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, manager.Destroy(ctx, sess.ID))
	assert.False(t, mr.Exists(sessionKey(sess.ID)))

	_, err = manager.Get(ctx, sess.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)
}
