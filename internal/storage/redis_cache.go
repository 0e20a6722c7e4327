// internal/storage/redis_cache.go
package storage

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"zonewarden.io/internal/cache"
	"zonewarden.io/internal/models"
	"zonewarden.io/internal/redis"
)

// SnapshotCache is a shared (L2) cache of zone snapshots
type SnapshotCache interface {
	GetSnapshot(ctx context.Context, zoneID string) ([]models.Record, bool, error)
	SetSnapshot(ctx context.Context, zoneID string, records []models.Record) error
	DeleteSnapshot(ctx context.Context, zoneID string) error
}

// RedisSnapshots stores zone snapshots in Redis as JSON under keyPrefix
type RedisSnapshots struct {
	client    goredis.Cmdable
	keyPrefix string
	ttl       time.Duration
}

// RedisStats represents Redis-specific cache statistics
type RedisStats struct {
	Connected bool `json:"connected"`
	KeyCount  int  `json:"key_count"`
}

// NewRedisSnapshots creates a Redis-backed snapshot cache
func NewRedisSnapshots(client goredis.Cmdable, keyPrefix string, ttl time.Duration) *RedisSnapshots {
	return &RedisSnapshots{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

func (r *RedisSnapshots) key(zoneID string) string {
	return r.keyPrefix + cache.SnapshotKey(zoneID)
}

func (r *RedisSnapshots) GetSnapshot(ctx context.Context, zoneID string) ([]models.Record, bool, error) {
	var records []models.Record
	found, err := redis.GetJSON(ctx, r.client, r.key(zoneID), &records)
	if err != nil || !found {
		return nil, false, err
	}
	return records, true, nil
}

func (r *RedisSnapshots) SetSnapshot(ctx context.Context, zoneID string, records []models.Record) error {
	return redis.SetJSON(ctx, r.client, r.key(zoneID), records, r.ttl)
}

func (r *RedisSnapshots) DeleteSnapshot(ctx context.Context, zoneID string) error {
	return redis.Delete(ctx, r.client, r.key(zoneID))
}

// Stats reports connectivity and the number of snapshot keys under our prefix
func (r *RedisSnapshots) Stats(ctx context.Context) RedisStats {
	stats := RedisStats{Connected: redis.Ping(ctx, r.client) == nil, KeyCount: -1}
	if !stats.Connected {
		return stats
	}
	if keys, err := redis.ScanKeys(ctx, r.client, r.keyPrefix+"records:*"); err == nil {
		stats.KeyCount = len(keys)
	}
	return stats
}

// Clear removes every snapshot key under our prefix
func (r *RedisSnapshots) Clear(ctx context.Context) error {
	keys, err := redis.ScanKeys(ctx, r.client, r.keyPrefix+"records:*")
	if err != nil {
		return err
	}
	return redis.Delete(ctx, r.client, keys...)
}
