package referencedata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"intake/pkg/platform/sentinel"
)

const redisSnapshotKey = "intake:refdata:snapshot"

// RedisCache shares the snapshot between service instances.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Load(ctx context.Context) (Snapshot, error) {
	raw, err := c.client.Get(ctx, redisSnapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return Snapshot{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("load reference data: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode reference data: %w", sentinel.ErrInvalidState)
	}
	return snap, nil
}

func (c *RedisCache) Store(ctx context.Context, snap Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode reference data: %w", err)
	}
	return c.client.Set(ctx, redisSnapshotKey, raw, c.ttl).Err()
}
