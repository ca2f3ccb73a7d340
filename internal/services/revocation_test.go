package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestRedisRevocationList(t *testing.T) {
	client, mr := setupTestRedis(t)
	list := NewRedisRevocationList(client)
	ctx := context.Background()

	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, list.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))
	assert.True(t, mr.Exists(revokedKeyPrefix+"jti-1"))

	revoked, err = list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Hour)
	revoked, err = list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked, "entries expire with the token")

	require.NoError(t, list.Revoke(ctx, "jti-2", time.Now().Add(-time.Minute)))
	assert.False(t, mr.Exists(revokedKeyPrefix+"jti-2"), "already expired tokens are not stored")
}

func TestRedisRevocationList_Unavailable(t *testing.T) {
	client, mr := setupTestRedis(t)
	list := NewRedisRevocationList(client)
	mr.Close()

	_, err := list.IsRevoked(context.Background(), "jti-1")
	assert.Error(t, err)
}

func TestMemoryRevocationList(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	list := NewMemoryRevocationList().(*memoryRevocationList)
	list.now = clock.now
	ctx := context.Background()

	require.NoError(t, list.Revoke(ctx, "jti-1", clock.now().Add(time.Minute)))
	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	clock.advance(2 * time.Minute)
	revoked, err = list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, list.Revoke(ctx, "jti-2", clock.now().Add(time.Minute)))
	assert.Len(t, list.revoked, 1, "expired entries are pruned")
}
