package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"talent-nest/backend/internal/constants"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache is a best-effort key/value store with TTL. It is never authoritative: any entry
// may be absent at any time.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

func ConnectionsKey(userID string) string   { return constants.CacheKeyConnections + userID }
func FeedKey(userID string) string          { return constants.CacheKeyFeed + userID }
func MatchingPeersKey(userID string) string { return constants.CacheKeyMatchingPeers + userID }

// Fetch reads key through c and falls back to load on a miss. Cache failures of any kind
// degrade to a miss and are only logged; errors from load are returned unchanged.
func Fetch[T any](ctx context.Context, c Cache, log *zap.Logger, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	raw, err := c.Get(ctx, key)
	switch {
	case err == nil:
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		log.Warn("Discarding undecodable cache entry", zap.String("key", key))
	case !errors.Is(err, ErrMiss):
		log.Warn("Cache read failed, treating as miss", zap.String("key", key), zap.Error(err))
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		log.Warn("Failed to encode cache entry", zap.String("key", key), zap.Error(err))
		return value, nil
	}
	if err := c.Set(ctx, key, encoded, ttl); err != nil {
		log.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
	return value, nil
}

// Invalidate deletes keys, logging instead of failing when the cache is unavailable.
func Invalidate(ctx context.Context, c Cache, log *zap.Logger, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.Delete(ctx, keys...); err != nil {
		log.Warn("Cache invalidation skipped", zap.Strings("keys", keys), zap.Error(err))
		return
	}
	log.Debug("Cache invalidated", zap.Strings("keys", keys))
}
