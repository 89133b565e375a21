package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRedisStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb, time.Second, zap.NewNop()), mr
}

func TestStoreRevokeAndCheck(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	require.False(t, s.IsRevoked(ctx, "jti-1"))
	s.Revoke(ctx, "jti-1", time.Minute)
	require.True(t, s.IsRevoked(ctx, "jti-1"))
	require.False(t, s.IsRevoked(ctx, "jti-2"))

	// Entries carry the token's remaining lifetime as TTL.
	ttl := mr.TTL("jwt:blacklist:jti-1")
	require.Greater(t, ttl, time.Duration(0))
	require.LessOrEqual(t, ttl, time.Minute)
}

func TestStoreEntryExpiresWithTTL(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	s.Revoke(ctx, "jti-1", time.Minute)
	require.True(t, s.IsRevoked(ctx, "jti-1"))

	mr.FastForward(2 * time.Minute)
	require.False(t, s.IsRevoked(ctx, "jti-1"))
}

func TestStoreIgnoresEmptyAndNonPositive(t *testing.T) {
	s, _ := newRedisStore(t)
	ctx := context.Background()

	s.Revoke(ctx, "", time.Minute)
	s.Revoke(ctx, "jti-1", 0)
	s.Revoke(ctx, "jti-2", -time.Minute)

	require.False(t, s.IsRevoked(ctx, ""))
	require.False(t, s.IsRevoked(ctx, "jti-1"))
	require.False(t, s.IsRevoked(ctx, "jti-2"))
}

func TestStoreFallsBackWhenCacheDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	s := New(rdb, 100*time.Millisecond, zap.NewNop())
	ctx := context.Background()

	mr.Close()

	// Revocation still succeeds and is visible through the local set.
	s.Revoke(ctx, "jti-1", time.Minute)
	require.True(t, s.IsRevoked(ctx, "jti-1"))
	require.False(t, s.IsRevoked(ctx, "jti-2"))
}

func TestStoreMemoryOnlyMode(t *testing.T) {
	s := New(nil, 0, zap.NewNop())
	ctx := context.Background()

	s.Revoke(ctx, "jti-1", time.Minute)
	require.True(t, s.IsRevoked(ctx, "jti-1"))
	require.False(t, s.IsRevoked(ctx, "jti-2"))
}

func TestStoreLocalEntriesHonorTTL(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := New(nil, 0, zap.NewNop()).WithNow(func() time.Time { return at })
	ctx := context.Background()

	s.Revoke(ctx, "jti-1", time.Minute)
	require.True(t, s.IsRevoked(ctx, "jti-1"))

	at = at.Add(2 * time.Minute)
	require.False(t, s.IsRevoked(ctx, "jti-1"))

	// Expired entries are pruned on the next write.
	s.Revoke(ctx, "jti-2", time.Minute)
	s.mu.Lock()
	_, ok := s.local["jti-1"]
	s.mu.Unlock()
	require.False(t, ok)
}
