// internal/storage/memory.go
package storage

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"zonewarden.io/internal/metrics"
	"zonewarden.io/internal/models"
)

// MemoryStore is a process-local Store. One mutex covers every zone, which gives the
// same validate-then-write atomicity the Postgres store gets from its zone row lock.
type MemoryStore struct {
	mu      sync.Mutex
	zones   map[string]models.Zone
	records map[string][]models.Record // by zone id
	metrics *metrics.ValidationMetrics
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore(m *metrics.ValidationMetrics) *MemoryStore {
	return &MemoryStore{
		zones:   make(map[string]models.Zone),
		records: make(map[string][]models.Record),
		metrics: m,
		now:     time.Now,
	}
}

func (s *MemoryStore) tenantZoneNames(tenantID string) []string {
	var names []string
	for _, z := range s.zones {
		if z.TenantID == tenantID {
			names = append(names, z.Name)
		}
	}
	sort.Strings(names)
	return names
}

func (s *MemoryStore) CreateZone(_ context.Context, tenantID, name string) (*models.Zone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	canonical, err := admitZone(tenantID, name, s.tenantZoneNames(tenantID), s.metrics)
	if err != nil {
		return nil, err
	}

	zone := models.Zone{ID: newZoneID(), TenantID: tenantID, Name: canonical, CreatedAt: s.now().UTC()}
	s.zones[zone.ID] = zone
	s.records[zone.ID] = make([]models.Record, 0)
	return &zone, nil
}

func (s *MemoryStore) GetZone(_ context.Context, tenantID, zoneID string) (*models.Zone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	zone, ok := s.zones[zoneID]
	if !ok || zone.TenantID != tenantID {
		return nil, ErrZoneNotFound
	}
	return &zone, nil
}

func (s *MemoryStore) ListZones(_ context.Context, tenantID string) ([]models.Zone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	zones := make([]models.Zone, 0)
	for _, z := range s.zones {
		if z.TenantID == tenantID {
			zones = append(zones, z)
		}
	}
	sort.Slice(zones, func(i, j int) bool { return zones[i].Name < zones[j].Name })
	return zones, nil
}

func (s *MemoryStore) DeleteZone(_ context.Context, tenantID, zoneID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	zone, ok := s.zones[zoneID]
	if !ok || zone.TenantID != tenantID {
		return ErrZoneNotFound
	}
	delete(s.zones, zoneID)
	delete(s.records, zoneID)
	return nil
}

func (s *MemoryStore) ListRecords(_ context.Context, zoneID string) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, ok := s.records[zoneID]
	if !ok {
		return nil, ErrZoneNotFound
	}

	out := slices.Clone(records)
	sort.SliceStable(out, func(i, j int) bool {
		if a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name); a != b {
			return a < b
		}
		return out[i].Type < out[j].Type
	})
	return out, nil
}

func (s *MemoryStore) CreateRecord(_ context.Context, zoneID string, record models.Record) (*RecordWrite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	zone, ok := s.zones[zoneID]
	if !ok {
		return nil, ErrZoneNotFound
	}

	stored, verdict, err := admitRecord(&zone, record, s.records[zoneID], "")
	verdict.observe(s.metrics)
	if err != nil {
		return nil, err
	}
	stored.ID = newRecordID()

	s.records[zoneID] = append(s.records[zoneID], stored)
	return &RecordWrite{Record: stored, Result: verdict.result}, nil
}

func (s *MemoryStore) UpdateRecord(_ context.Context, zoneID, recordID string, record models.Record) (*RecordWrite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	zone, ok := s.zones[zoneID]
	if !ok {
		return nil, ErrZoneNotFound
	}

	records := s.records[zoneID]
	idx := slices.IndexFunc(records, func(r models.Record) bool { return r.ID == recordID })
	if idx < 0 {
		return nil, ErrRecordNotFound
	}

	stored, verdict, err := admitRecord(&zone, record, records, recordID)
	verdict.observe(s.metrics)
	if err != nil {
		return nil, err
	}

	records[idx] = stored
	return &RecordWrite{Record: stored, Result: verdict.result}, nil
}

func (s *MemoryStore) DeleteRecord(_ context.Context, zoneID, recordID string) (models.DeleteCheck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, ok := s.records[zoneID]
	if !ok {
		return models.DeleteCheck{}, ErrZoneNotFound
	}

	record, ok := findRecord(records, recordID)
	if !ok {
		return models.DeleteCheck{}, ErrRecordNotFound
	}

	check, err := admitDelete(record, records)
	if err != nil {
		return check, err
	}

	s.records[zoneID] = slices.DeleteFunc(slices.Clone(records), func(r models.Record) bool { return r.ID == recordID })
	return check, nil
}

func (s *MemoryStore) Health(context.Context) error {
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
