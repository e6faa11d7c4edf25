package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/courtpulse/courtpulse/internal/domain/leaderboard"
)

// keySnapshot is the key pattern for cached snapshots, one per mode.
const keySnapshot = "leaderboard:snapshot:"

// SnapshotCache caches the per-mode leaderboard snapshot as a JSON blob with
// a short TTL. It is a read-through accelerator, never the source of truth;
// a miss falls back to the snapshot store.
type SnapshotCache struct {
	cache *Cache
	ttl   time.Duration
}

// NewSnapshotCache creates a SnapshotCache with the given entry TTL.
func NewSnapshotCache(cache *Cache, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{cache: cache, ttl: ttl}
}

func snapshotKey(mode leaderboard.Mode) string {
	return keySnapshot + string(mode)
}

// Set stores the snapshot for one mode.
func (c *SnapshotCache) Set(ctx context.Context, snap leaderboard.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCacheSerialization, err)
	}

	if err := c.cache.client.Set(ctx, snapshotKey(snap.Mode), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache snapshot %s: %w", snap.Mode, err)
	}
	return nil
}

// Get returns the cached snapshot for one mode, or ErrCacheMiss.
func (c *SnapshotCache) Get(ctx context.Context, mode leaderboard.Mode) (leaderboard.Snapshot, error) {
	data, err := c.cache.client.Get(ctx, snapshotKey(mode)).Bytes()
	if errors.Is(err, redis.Nil) {
		return leaderboard.Snapshot{}, ErrCacheMiss
	}
	if err != nil {
		return leaderboard.Snapshot{}, fmt.Errorf("read cached snapshot %s: %w", mode, err)
	}

	var snap leaderboard.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return leaderboard.Snapshot{}, fmt.Errorf("%w: %v", ErrCacheSerialization, err)
	}
	return snap, nil
}

// Invalidate drops the cached snapshot for one mode.
func (c *SnapshotCache) Invalidate(ctx context.Context, mode leaderboard.Mode) error {
	if err := c.cache.client.Del(ctx, snapshotKey(mode)).Err(); err != nil {
		return fmt.Errorf("invalidate cached snapshot %s: %w", mode, err)
	}
	return nil
}
