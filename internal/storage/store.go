// internal/storage/store.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"zonewarden.io/internal/logging"
	"zonewarden.io/internal/metrics"
	"zonewarden.io/internal/models"
	"zonewarden.io/internal/validator"
)

// Store persists zones and their records. Every record write is validated against
// the zone's current records inside the same critical section as the write.
type Store interface {
	CreateZone(ctx context.Context, tenantID, name string) (*models.Zone, error)
	GetZone(ctx context.Context, tenantID, zoneID string) (*models.Zone, error)
	ListZones(ctx context.Context, tenantID string) ([]models.Zone, error)
	DeleteZone(ctx context.Context, tenantID, zoneID string) error

	ListRecords(ctx context.Context, zoneID string) ([]models.Record, error)
	CreateRecord(ctx context.Context, zoneID string, record models.Record) (*RecordWrite, error)
	UpdateRecord(ctx context.Context, zoneID, recordID string, record models.Record) (*RecordWrite, error)
	DeleteRecord(ctx context.Context, zoneID, recordID string) (models.DeleteCheck, error)

	Health(ctx context.Context) error
	Close() error
}

// RecordWrite is the outcome of an accepted create or update
type RecordWrite struct {
	Record models.Record           `json:"record"`
	Result models.ValidationResult `json:"result"`
}

var (
	ErrZoneNotFound   = errors.New("zone not found")
	ErrRecordNotFound = errors.New("record not found")
	ErrZoneExists     = errors.New("zone already exists")
)

// RecordRejectedError carries the verdict of a record that failed validation
type RecordRejectedError struct {
	Result models.ValidationResult
}

func (e *RecordRejectedError) Error() string {
	return fmt.Sprintf("record rejected: invalid %s", strings.Join(e.Result.ErrorFields(), ", "))
}

// ZoneConflictError reports a zone that would sit above or below an existing one
type ZoneConflictError struct {
	Zone            string
	ConflictingZone string
}

func (e *ZoneConflictError) Error() string {
	return fmt.Sprintf("zone %s overlaps existing zone %s", e.Zone, e.ConflictingZone)
}

// InvalidZoneNameError wraps a zone-name validation failure
type InvalidZoneNameError struct {
	Name string
	Err  error
}

func (e *InvalidZoneNameError) Error() string {
	return fmt.Sprintf("invalid zone name %q: %v", e.Name, e.Err)
}

func (e *InvalidZoneNameError) Unwrap() error {
	return e.Err
}

// DeleteRefusedError reports a record that may not be deleted
type DeleteRefusedError struct {
	Reason string
}

func (e *DeleteRefusedError) Error() string {
	return e.Reason
}

func newZoneID() string {
	return "zone-" + uuid.NewString()
}

func newRecordID() string {
	return "rec-" + uuid.NewString()
}

// admitZone validates a new zone name against the tenant's existing zones and
// returns the canonical name to store
func admitZone(tenantID, name string, existing []string, m *metrics.ValidationMetrics) (string, error) {
	canonical, err := validator.ValidateZoneName(name)
	if err != nil {
		return "", &InvalidZoneNameError{Name: name, Err: err}
	}

	for _, z := range existing {
		if models.NormalizeDomainName(z) == canonical {
			return "", ErrZoneExists
		}
	}

	if overlap := validator.DetectZoneOverlap(canonical, existing); overlap.HasOverlap {
		m.CountOverlap()
		logging.LogZoneConflict(tenantID, canonical, overlap.ConflictingZone)
		return "", &ZoneConflictError{Zone: canonical, ConflictingZone: overlap.ConflictingZone}
	}

	return canonical, nil
}

// recordVerdict is one engine run for a write. Stores observe it once the write has
// settled, so a rerun transaction is logged and counted once.
type recordVerdict struct {
	zoneName string
	record   models.Record
	result   models.ValidationResult
	elapsed  time.Duration
}

func (v *recordVerdict) observe(m *metrics.ValidationMetrics) {
	if v == nil {
		return
	}
	Observe(v.zoneName, v.record, v.result, v.elapsed, m)
}

// admitRecord runs the engine for a write and returns the record in its stored form
func admitRecord(zone *models.Zone, record models.Record, snapshot []models.Record, recordID string) (models.Record, *recordVerdict, error) {
	start := time.Now()
	result := validator.ValidateDNSRecord(record, snapshot, recordID, zone.Name)
	verdict := &recordVerdict{zoneName: zone.Name, record: record, result: result, elapsed: time.Since(start)}

	if !result.Valid {
		return models.Record{}, verdict, &RecordRejectedError{Result: result}
	}

	name := result.NormalizedName
	if validator.GetFQDN(name, zone.Name) == zone.Name {
		name = "@"
	}

	return models.Record{
		ID:    recordID,
		Name:  name,
		Type:  models.RecordType(strings.ToUpper(strings.TrimSpace(string(record.Type)))),
		Value: result.NormalizedValue,
		TTL:   record.TTL,
	}, verdict, nil
}

// Observe records a verdict in the verdict log and the validation metrics
func Observe(zoneName string, record models.Record, result models.ValidationResult, elapsed time.Duration, m *metrics.ValidationMetrics) {
	m.CountValidation(record.Type, result)
	logging.LogVerdict(zoneName, record.Name, string(record.Type), result.Valid, result.ErrorFields(), elapsed)
	if !result.Valid {
		logging.LogRejected(zoneName, record.Name, string(record.Type), result.Errors)
	}
}

// admitDelete consults the delete policy for record
func admitDelete(record models.Record, snapshot []models.Record) (models.DeleteCheck, error) {
	check := validator.CanDeleteRecord(record, snapshot)
	if !check.CanDelete {
		return check, &DeleteRefusedError{Reason: check.Reason}
	}
	return check, nil
}

func findRecord(records []models.Record, recordID string) (models.Record, bool) {
	for _, r := range records {
		if r.ID == recordID {
			return r, true
		}
	}
	return models.Record{}, false
}
