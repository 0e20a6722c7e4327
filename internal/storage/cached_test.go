package storage

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"zonewarden.io/internal/cache"
	"zonewarden.io/internal/models"
)

type fakeSnapshots struct {
	data    map[string][]models.Record
	failGet bool
}

func (f *fakeSnapshots) GetSnapshot(_ context.Context, zoneID string) ([]models.Record, bool, error) {
	if f.failGet {
		return nil, false, errors.New("connection refused")
	}
	records, ok := f.data[zoneID]
	return slices.Clone(records), ok, nil
}

func (f *fakeSnapshots) SetSnapshot(_ context.Context, zoneID string, records []models.Record) error {
	f.data[zoneID] = slices.Clone(records)
	return nil
}

func (f *fakeSnapshots) DeleteSnapshot(_ context.Context, zoneID string) error {
	delete(f.data, zoneID)
	return nil
}

func newCachedFixture(t *testing.T) (*CachedStore, *fakeSnapshots, *models.Zone) {
	t.Helper()
	backing := NewMemoryStore(nil)
	zone := newZone(t, backing, "tenant-a", "example.com")
	mustCreate(t, backing, zone.ID, models.Record{Name: "www", Type: models.RecordTypeA, Value: "192.0.2.1", TTL: 300})

	shared := &fakeSnapshots{data: make(map[string][]models.Record)}
	memory := cache.NewMemoryCache(&cache.Config{MaxEntries: 100})
	cs := NewCachedStore(backing, memory, shared, time.Minute)
	t.Cleanup(func() { cs.Close() })
	return cs, shared, zone
}

func TestReadThroughLayers(t *testing.T) {
	ctx := context.Background()
	cs, shared, zone := newCachedFixture(t)

	wantSources := []SnapshotSource{SourceDatabase, SourceMemory}
	for i, want := range wantSources {
		result, err := cs.ListRecordsWithSource(ctx, zone.ID)
		if err != nil {
			t.Fatal(err)
		}
		if result.Source != want || len(result.Records) != 1 {
			t.Errorf("read %d: source %s with %d records, want %s with 1", i, result.Source, len(result.Records), want)
		}
	}

	if _, ok := shared.data[zone.ID]; !ok {
		t.Error("database read did not populate the shared layer")
	}

	cs.memory.Clear()
	result, _ := cs.ListRecordsWithSource(ctx, zone.ID)
	if result.Source != SourceRedis {
		t.Errorf("source after L1 clear = %s, want %s", result.Source, SourceRedis)
	}
}

func TestWritesInvalidate(t *testing.T) {
	ctx := context.Background()
	cs, shared, zone := newCachedFixture(t)

	if _, err := cs.ListRecords(ctx, zone.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := cs.CreateRecord(ctx, zone.ID, models.Record{Name: "www", Type: models.RecordTypeA, Value: "192.0.2.2", TTL: 300}); err != nil {
		t.Fatal(err)
	}
	if _, ok := shared.data[zone.ID]; ok {
		t.Error("shared snapshot survived a write")
	}

	result, err := cs.ListRecordsWithSource(ctx, zone.ID)
	if err != nil {
		t.Fatal(err)
	}
	if result.Source != SourceDatabase || len(result.Records) != 2 {
		t.Errorf("after write: source %s with %d records, want DB with 2", result.Source, len(result.Records))
	}
}

func TestWritesValidateAgainstStoreNotCache(t *testing.T) {
	ctx := context.Background()
	cs, _, zone := newCachedFixture(t)

	// Poison L1 with an empty snapshot; the write must still see the stored A record.
	cs.memory.Set(cache.SnapshotKey(zone.ID), nil, time.Minute)

	_, err := cs.CreateRecord(ctx, zone.ID, models.Record{Name: "www", Type: models.RecordTypeCNAME, Value: "target.example.net", TTL: 300})
	var rejected *RecordRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected rejection from the store snapshot, got %v", err)
	}
}

func TestSharedLayerFailureFallsThrough(t *testing.T) {
	ctx := context.Background()
	cs, shared, zone := newCachedFixture(t)
	shared.failGet = true

	result, err := cs.ListRecordsWithSource(ctx, zone.ID)
	if err != nil {
		t.Fatalf("shared failure surfaced: %v", err)
	}
	if result.Source != SourceDatabase {
		t.Errorf("source = %s, want DB", result.Source)
	}
}

func TestCacheStats(t *testing.T) {
	cs, _, _ := newCachedFixture(t)
	stats := cs.Stats(context.Background())
	if stats.TotalLayers != 2 || stats.L1Stats == nil || stats.L2Stats != nil {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
