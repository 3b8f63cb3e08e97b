package tokenstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemoryStore()

	token, err := store.GetToken(context.Background(), "user1")
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestMemoryStoreExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	require.NoError(t, store.SetToken(context.Background(), "user1", "token-1", 240*time.Second))

	token, err := store.GetToken(context.Background(), "user1")
	require.NoError(t, err)
	assert.Equal(t, "token-1", token)

	now = now.Add(239 * time.Second)
	token, _ = store.GetToken(context.Background(), "user1")
	assert.Equal(t, "token-1", token)

	now = now.Add(time.Second)
	token, _ = store.GetToken(context.Background(), "user1")
	assert.Empty(t, token)
}

func TestMemoryStoreEvictionKeepsRefreshedToken(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.SetToken(ctx, "user1", "stale", time.Minute))
	now = now.Add(2 * time.Minute)

	// a refresh lands between the expired read and the eviction
	require.NoError(t, store.SetToken(ctx, "user1", "fresh", time.Minute))
	store.evictExpired("user1")

	token, err := store.GetToken(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)

	now = now.Add(2 * time.Minute)
	store.evictExpired("user1")
	assert.NotContains(t, store.entries, "user1")
}

func TestMemoryStoreKeysAreIndependent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SetToken(ctx, "%ANONYMOUS%", "anon", time.Minute))
	require.NoError(t, store.SetToken(ctx, "user1", "named", time.Minute))

	anon, _ := store.GetToken(ctx, "%ANONYMOUS%")
	named, _ := store.GetToken(ctx, "user1")
	assert.Equal(t, "anon", anon)
	assert.Equal(t, "named", named)
}

// Compile-time checks
var (
	_ TokenStore = (*MemoryStore)(nil)
	_ TokenStore = (*RedisStore)(nil)
)
