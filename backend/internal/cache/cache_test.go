package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// brokenCache fails every call, like an unreachable Redis.
type brokenCache struct{}

func (brokenCache) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("connection refused")
}
func (brokenCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return errors.New("connection refused")
}
func (brokenCache) Delete(ctx context.Context, keys ...string) error {
	return errors.New("connection refused")
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "connections:u1", ConnectionsKey("u1"))
	assert.Equal(t, "feed:u1", FeedKey("u1"))
	assert.Equal(t, "matchingPeers:u1", MatchingPeersKey("u1"))
}

func TestMemoryCache_Expiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache().WithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 100*time.Second))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	now = now.Add(100 * time.Second)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryCache_Delete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, c.Delete(ctx, "a", "b", "missing"))

	assert.False(t, c.Has("a"))
	assert.False(t, c.Has("b"))
}

func TestFetch_PopulatesOnMissAndServesHits(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	calls := 0
	load := func(ctx context.Context) ([]string, error) {
		calls++
		return []string{"b", "c"}, nil
	}

	first, err := Fetch(ctx, c, zap.NewNop(), "connections:a", time.Minute, load)
	require.NoError(t, err)
	second, err := Fetch(ctx, c, zap.NewNop(), "connections:a", time.Minute, load)
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "c"}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestFetch_LoadErrorIsNotCached(t *testing.T) {
	c := NewMemoryCache()
	boom := errors.New("store down")

	_, err := Fetch(context.Background(), c, zap.NewNop(), "feed:a", time.Minute, func(ctx context.Context) ([]string, error) {
		return nil, boom
	})

	assert.ErrorIs(t, err, boom)
	assert.False(t, c.Has("feed:a"))
}

func TestFetch_BrokenCacheDegradesToLoad(t *testing.T) {
	got, err := Fetch(context.Background(), brokenCache{}, zap.NewNop(), "feed:a", time.Minute, func(ctx context.Context) (int, error) {
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestFetch_CorruptEntryIsRecomputed(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "feed:a", []byte("{not json"), time.Minute))

	got, err := Fetch(ctx, c, zap.NewNop(), "feed:a", time.Minute, func(ctx context.Context) ([]int, error) {
		return []int{1}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{1}, got)
}

func TestInvalidate_SwallowsCacheErrors(t *testing.T) {
	assert.NotPanics(t, func() {
		Invalidate(context.Background(), brokenCache{}, zap.NewNop(), "feed:a")
	})

	c := NewMemoryCache()
	require.NoError(t, c.Set(context.Background(), "feed:a", []byte("[]"), 0))
	Invalidate(context.Background(), c, zap.NewNop(), "feed:a")
	assert.False(t, c.Has("feed:a"))
}

// TestRedisCache requires a running Redis on localhost:6379
func TestRedisCache_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	rc := NewRedisCache(NewRedisClient("localhost:6379", "", 0))
	defer rc.Close()
	if err := rc.Ping(ctx); err != nil {
		t.Skipf("Redis not reachable: %v", err)
	}

	key := "test:" + time.Now().Format("20060102150405.000000")
	defer rc.Delete(ctx, key)

	_, err := rc.Get(ctx, key)
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, rc.Set(ctx, key, []byte("value"), time.Minute))
	got, err := rc.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), got)

	require.NoError(t, rc.Delete(ctx, key))
	_, err = rc.Get(ctx, key)
	assert.ErrorIs(t, err, ErrMiss)
}
