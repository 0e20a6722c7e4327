// internal/storage/cached.go
package storage

import (
	"context"
	"time"

	"zonewarden.io/internal/cache"
	"zonewarden.io/internal/logging"
	"zonewarden.io/internal/models"
)

// CachedStore wraps a Store with read-through snapshot caching: memory (L1), then an
// optional shared cache (L2), then the store. Writes go straight to the store, which
// validates against its own locked snapshot, and then invalidate both layers.
type CachedStore struct {
	Store
	memory cache.Cache
	shared SnapshotCache
	ttl    time.Duration
}

// CacheStats represents statistics for the cache layers in use
type CacheStats struct {
	L1Stats     *cache.Stats `json:"l1_memory,omitempty"`
	L2Stats     *RedisStats  `json:"l2_redis,omitempty"`
	TotalLayers int          `json:"total_layers"`
}

// NewCachedStore creates a cached store. memory and shared may each be nil.
func NewCachedStore(store Store, memory cache.Cache, shared SnapshotCache, ttl time.Duration) *CachedStore {
	return &CachedStore{
		Store:  store,
		memory: memory,
		shared: shared,
		ttl:    ttl,
	}
}

// ListRecords returns the zone snapshot from the nearest layer that has it
func (cs *CachedStore) ListRecords(ctx context.Context, zoneID string) ([]models.Record, error) {
	result, err := cs.ListRecordsWithSource(ctx, zoneID)
	if err != nil {
		return nil, err
	}
	return result.Records, nil
}

// ListRecordsWithSource is ListRecords that also reports which layer answered
func (cs *CachedStore) ListRecordsWithSource(ctx context.Context, zoneID string) (*SnapshotResult, error) {
	key := cache.SnapshotKey(zoneID)

	if cs.memory != nil {
		if records, ok := cs.memory.Get(key); ok {
			return &SnapshotResult{Records: records, Source: SourceMemory}, nil
		}
	}

	if cs.shared != nil {
		records, ok, err := cs.shared.GetSnapshot(ctx, zoneID)
		if err != nil {
			logging.Warn("cache", "Shared snapshot read failed", "zone_id", zoneID, "error", err.Error())
		} else if ok {
			if cs.memory != nil {
				cs.memory.Set(key, records, cs.ttl)
			}
			return &SnapshotResult{Records: records, Source: SourceRedis}, nil
		}
	}

	records, err := cs.Store.ListRecords(ctx, zoneID)
	if err != nil {
		return nil, err
	}

	if cs.memory != nil {
		cs.memory.Set(key, records, cs.ttl)
	}
	if cs.shared != nil {
		if err := cs.shared.SetSnapshot(ctx, zoneID, records); err != nil {
			logging.Warn("cache", "Shared snapshot write failed", "zone_id", zoneID, "error", err.Error())
		}
	}

	return &SnapshotResult{Records: records, Source: SourceDatabase}, nil
}

func (cs *CachedStore) CreateRecord(ctx context.Context, zoneID string, record models.Record) (*RecordWrite, error) {
	defer cs.Invalidate(ctx, zoneID)
	return cs.Store.CreateRecord(ctx, zoneID, record)
}

func (cs *CachedStore) UpdateRecord(ctx context.Context, zoneID, recordID string, record models.Record) (*RecordWrite, error) {
	defer cs.Invalidate(ctx, zoneID)
	return cs.Store.UpdateRecord(ctx, zoneID, recordID, record)
}

func (cs *CachedStore) DeleteRecord(ctx context.Context, zoneID, recordID string) (models.DeleteCheck, error) {
	defer cs.Invalidate(ctx, zoneID)
	return cs.Store.DeleteRecord(ctx, zoneID, recordID)
}

func (cs *CachedStore) DeleteZone(ctx context.Context, tenantID, zoneID string) error {
	defer cs.Invalidate(ctx, zoneID)
	return cs.Store.DeleteZone(ctx, tenantID, zoneID)
}

// Invalidate drops a zone's snapshot from both layers
func (cs *CachedStore) Invalidate(ctx context.Context, zoneID string) {
	if cs.memory != nil {
		cs.memory.Delete(cache.SnapshotKey(zoneID))
	}
	if cs.shared != nil {
		if err := cs.shared.DeleteSnapshot(ctx, zoneID); err != nil {
			logging.Warn("cache", "Shared snapshot invalidation failed", "zone_id", zoneID, "error", err.Error())
		}
	}
}

// Stats returns statistics for the configured layers
func (cs *CachedStore) Stats(ctx context.Context) CacheStats {
	var stats CacheStats
	if cs.memory != nil {
		l1 := cs.memory.Stats()
		stats.L1Stats = &l1
		stats.TotalLayers++
	}
	if rs, ok := cs.shared.(*RedisSnapshots); ok {
		l2 := rs.Stats(ctx)
		stats.L2Stats = &l2
		stats.TotalLayers++
	} else if cs.shared != nil {
		stats.TotalLayers++
	}
	return stats
}

// Close stops the memory cache and closes the underlying store
func (cs *CachedStore) Close() error {
	if cs.memory != nil {
		cs.memory.Close()
	}
	return cs.Store.Close()
}
