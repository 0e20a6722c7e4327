package storage

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"zonewarden.io/internal/metrics"
	"zonewarden.io/internal/models"
)

func newZone(t *testing.T, s Store, tenant, name string) *models.Zone {
	t.Helper()
	zone, err := s.CreateZone(context.Background(), tenant, name)
	if err != nil {
		t.Fatalf("CreateZone(%q): %v", name, err)
	}
	return zone
}

func mustCreate(t *testing.T, s Store, zoneID string, rec models.Record) models.Record {
	t.Helper()
	write, err := s.CreateRecord(context.Background(), zoneID, rec)
	if err != nil {
		t.Fatalf("CreateRecord(%+v): %v", rec, err)
	}
	return write.Record
}

func TestCreateZone(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(nil)
	zone := newZone(t, s, "tenant-a", "Example.COM.")

	if zone.Name != "example.com" || !strings.HasPrefix(zone.ID, "zone-") {
		t.Errorf("unexpected zone: %+v", zone)
	}

	tests := []struct {
		name   string
		tenant string
		zone   string
		check  func(error) bool
	}{
		{"exact duplicate", "tenant-a", "example.com", func(err error) bool { return errors.Is(err, ErrZoneExists) }},
		{"child zone", "tenant-a", "dev.example.com", func(err error) bool {
			var c *ZoneConflictError
			return errors.As(err, &c) && c.ConflictingZone == "example.com"
		}},
		{"public suffix", "tenant-a", "co.uk", func(err error) bool {
			var e *InvalidZoneNameError
			return errors.As(err, &e)
		}},
		{"bad grammar", "tenant-a", "exa mple.com", func(err error) bool {
			var e *InvalidZoneNameError
			return errors.As(err, &e)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateZone(ctx, tt.tenant, tt.zone)
			if !tt.check(err) {
				t.Errorf("CreateZone(%q) error = %v", tt.zone, err)
			}
		})
	}

	if _, err := s.CreateZone(ctx, "tenant-b", "dev.example.com"); err != nil {
		t.Errorf("other tenant blocked by tenant-a's zone: %v", err)
	}
}

func TestTenantIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(nil)
	zone := newZone(t, s, "tenant-a", "example.com")

	if _, err := s.GetZone(ctx, "tenant-b", zone.ID); !errors.Is(err, ErrZoneNotFound) {
		t.Errorf("GetZone across tenants: %v", err)
	}
	if err := s.DeleteZone(ctx, "tenant-b", zone.ID); !errors.Is(err, ErrZoneNotFound) {
		t.Errorf("DeleteZone across tenants: %v", err)
	}
	zones, _ := s.ListZones(ctx, "tenant-b")
	if len(zones) != 0 {
		t.Errorf("ListZones leaked zones: %v", zones)
	}
}

func TestCreateRecordStoresNormalizedForm(t *testing.T) {
	s := NewMemoryStore(nil)
	zone := newZone(t, s, "tenant-a", "example.com")

	rec := mustCreate(t, s, zone.ID, models.Record{Name: "  WWW ", Type: "a", Value: " 192.0.2.1 ", TTL: 300})
	if rec.Name != "www" || rec.Type != models.RecordTypeA || rec.Value != "192.0.2.1" {
		t.Errorf("stored record not normalized: %+v", rec)
	}
	if !strings.HasPrefix(rec.ID, "rec-") {
		t.Errorf("record id = %q, want rec- prefix", rec.ID)
	}

	apex := mustCreate(t, s, zone.ID, models.Record{Name: "example.com", Type: models.RecordTypeTXT, Value: "v=spf1 -all", TTL: 300})
	if apex.Name != "@" {
		t.Errorf("apex record stored as %q, want @", apex.Name)
	}
}

func TestCreateRecordRejected(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(nil)
	zone := newZone(t, s, "tenant-a", "example.com")
	a := mustCreate(t, s, zone.ID, models.Record{Name: "www", Type: models.RecordTypeA, Value: "192.0.2.1", TTL: 300})

	cname := models.Record{Name: "www", Type: models.RecordTypeCNAME, Value: "target.example.net", TTL: 300}
	_, err := s.CreateRecord(ctx, zone.ID, cname)
	var rejected *RecordRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected *RecordRejectedError, got %v", err)
	}
	if _, ok := rejected.Result.Errors[models.FieldName]; !ok {
		t.Errorf("CNAME conflict not reported on name: %v", rejected.Result.Errors)
	}

	records, _ := s.ListRecords(ctx, zone.ID)
	if len(records) != 1 {
		t.Errorf("rejected record was written: %v", records)
	}

	// once the conflicting A is gone the same CNAME is admitted
	if _, err := s.DeleteRecord(ctx, zone.ID, a.ID); err != nil {
		t.Fatalf("DeleteRecord: %v", err)
	}
	if _, err := s.CreateRecord(ctx, zone.ID, cname); err != nil {
		t.Errorf("CNAME retry after deleting the A: %v", err)
	}

	if _, err := s.CreateRecord(ctx, "zone-missing", models.Record{Name: "www", Type: models.RecordTypeA, Value: "192.0.2.1", TTL: 300}); !errors.Is(err, ErrZoneNotFound) {
		t.Errorf("unknown zone: %v", err)
	}
}

func TestVerdictObservedOncePerWrite(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.NewValidationMetrics()
	m.SetupAndRegisterCollectors(registry)

	s := NewMemoryStore(m)
	zone := newZone(t, s, "tenant-a", "example.com")
	rec := models.Record{Name: "www", Type: models.RecordTypeA, Value: "192.0.2.1", TTL: 300}

	// a rerun transaction runs the engine once per attempt and observes the last verdict
	var verdict *recordVerdict
	for i := 0; i < 3; i++ {
		var err error
		if _, verdict, err = admitRecord(zone, rec, nil, ""); err != nil {
			t.Fatalf("admitRecord: %v", err)
		}
	}
	n, err := testutil.GatherAndCount(registry, "zonewarden_validations_total")
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("engine runs were counted before the write settled: %d series", n)
	}
	verdict.observe(m)

	mustCreate(t, s, zone.ID, rec)

	want := `
# HELP zonewarden_validations_total Record validations by record type and outcome
# TYPE zonewarden_validations_total counter
zonewarden_validations_total{outcome="accepted",type="A"} 2
`
	if err = testutil.GatherAndCompare(registry, strings.NewReader(want), "zonewarden_validations_total"); err != nil {
		t.Error(err)
	}
}

func TestUpdateRecordExcludesItself(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(nil)
	zone := newZone(t, s, "tenant-a", "example.com")
	rec := mustCreate(t, s, zone.ID, models.Record{Name: "www", Type: models.RecordTypeA, Value: "192.0.2.1", TTL: 300})

	// Changing the only A record's TTL must not trip the duplicate or TTL checks against itself.
	write, err := s.UpdateRecord(ctx, zone.ID, rec.ID, models.Record{Name: "www", Type: models.RecordTypeA, Value: "192.0.2.1", TTL: 600})
	if err != nil {
		t.Fatalf("UpdateRecord: %v", err)
	}
	if write.Record.ID != rec.ID || write.Record.TTL != 600 {
		t.Errorf("unexpected update result: %+v", write.Record)
	}

	if _, err := s.UpdateRecord(ctx, zone.ID, "rec-missing", rec); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("unknown record: %v", err)
	}
}

func TestDeleteRecordPolicy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(nil)
	zone := newZone(t, s, "tenant-a", "example.com")

	// Apex SOA and NS are normally managed; seed them directly.
	s.records[zone.ID] = []models.Record{
		{ID: "rec-soa", Name: "@", Type: models.RecordTypeSOA, Value: "ns1.example.net. hostmaster.example.com. 1 7200 3600 1209600 300", TTL: 3600},
		{ID: "rec-ns1", Name: "@", Type: models.RecordTypeNS, Value: "ns1.example.net", TTL: 3600},
		{ID: "rec-ns2", Name: "@", Type: models.RecordTypeNS, Value: "ns2.example.net", TTL: 3600},
	}

	var refused *DeleteRefusedError
	if _, err := s.DeleteRecord(ctx, zone.ID, "rec-soa"); !errors.As(err, &refused) {
		t.Errorf("SOA deletion: got %v, want *DeleteRefusedError", err)
	}

	check, err := s.DeleteRecord(ctx, zone.ID, "rec-ns1")
	if err != nil {
		t.Fatalf("DeleteRecord: %v", err)
	}
	if !strings.Contains(check.Warning, "second-to-last") {
		t.Errorf("warning = %q", check.Warning)
	}

	check, err = s.DeleteRecord(ctx, zone.ID, "rec-ns2")
	if err != nil {
		t.Fatalf("DeleteRecord: %v", err)
	}
	if !strings.Contains(check.Warning, "last NS") {
		t.Errorf("warning = %q", check.Warning)
	}

	if _, err := s.DeleteRecord(ctx, zone.ID, "rec-ns2"); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("second delete: %v", err)
	}
}

func TestConcurrentWritesSerialize(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(nil)
	zone := newZone(t, s, "tenant-a", "example.com")

	// Two writers racing to put a CNAME on the same owner: exactly one may win.
	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.CreateRecord(ctx, zone.ID, models.Record{Name: "www", Type: models.RecordTypeCNAME, Value: "target.example.net", TTL: 300})
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, err := range errs {
		if err == nil {
			accepted++
		}
	}
	if accepted != 1 {
		t.Errorf("%d concurrent CNAME writes accepted, want 1", accepted)
	}
}
