// internal/storage/postgres.go
package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"zonewarden.io/internal/logging"
	"zonewarden.io/internal/metrics"
	"zonewarden.io/internal/models"
	"zonewarden.io/internal/pgsqlpool"
)

//go:embed schema.sql
var schemaSQL string

const (
	constraintZoneName    = "zones_tenant_name"
	constraintRecordValue = "zone_records_unique_value"
)

// PostgresStore implements Store on PostgreSQL through a named pgsqlpool connection
type PostgresStore struct {
	pool           *pgsqlpool.Pool
	connectionName string
	metrics        *metrics.ValidationMetrics
}

// Config holds configuration for PostgreSQL storage
type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	ApplySchema     bool
}

// NewPostgresStore opens the connection and, if configured, applies the schema
func NewPostgresStore(ctx context.Context, pool *pgsqlpool.Pool, connectionName string, config *Config, m *metrics.ValidationMetrics) (*PostgresStore, error) {
	connConfig := &pgsqlpool.ConnectionConfig{
		Host:            config.Host,
		Port:            config.Port,
		User:            config.User,
		Password:        config.Password,
		DBName:          config.DBName,
		SSLMode:         config.SSLMode,
		MaxOpenConns:    config.MaxOpenConns,
		MaxIdleConns:    config.MaxIdleConns,
		ConnMaxLifetime: config.ConnMaxLifetime,
		ConnMaxIdleTime: config.ConnMaxIdleTime,
	}

	if err := pool.AddConnection(ctx, connectionName, connConfig); err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	s := &PostgresStore{
		pool:           pool,
		connectionName: connectionName,
		metrics:        m,
	}

	if config.ApplySchema {
		if err := pool.ExecSchema(ctx, connectionName, schemaSQL); err != nil {
			return nil, err
		}
		logging.Info("storage", "Schema applied", "connection", connectionName)
	}

	return s, nil
}

// fail logs and counts an infrastructure error, then returns it wrapped
func (s *PostgresStore) fail(operation, zoneID string, err error) error {
	s.metrics.CountStorageError(operation)
	logging.LogStorageError(operation, zoneID, err)
	return fmt.Errorf("%s: %w", operation, err)
}

// isDomainError reports errors that are verdicts rather than storage failures
func isDomainError(err error) bool {
	var rejected *RecordRejectedError
	var conflict *ZoneConflictError
	var refused *DeleteRefusedError
	var invalid *InvalidZoneNameError
	return errors.As(err, &rejected) || errors.As(err, &conflict) || errors.As(err, &refused) ||
		errors.As(err, &invalid) || errors.Is(err, ErrZoneExists) ||
		errors.Is(err, ErrZoneNotFound) || errors.Is(err, ErrRecordNotFound)
}

// CreateZone inserts a zone after checking it against the tenant's zones. A transaction-scoped
// advisory lock on the tenant serializes concurrent creations for the same tenant.
func (s *PostgresStore) CreateZone(ctx context.Context, tenantID, name string) (*models.Zone, error) {
	var zone models.Zone

	err := s.pool.Transaction(ctx, s.connectionName, nil, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, tenantID); err != nil {
			return err
		}

		existing, err := tenantZoneNames(ctx, tx, tenantID)
		if err != nil {
			return err
		}

		canonical, err := admitZone(tenantID, name, existing, s.metrics)
		if err != nil {
			return err
		}

		zone = models.Zone{ID: newZoneID(), TenantID: tenantID, Name: canonical}
		return tx.QueryRowContext(ctx,
			`INSERT INTO zones (id, tenant_id, name) VALUES ($1, $2, $3) RETURNING created_at`,
			zone.ID, zone.TenantID, zone.Name,
		).Scan(&zone.CreatedAt)
	})

	switch {
	case err == nil:
		logging.Info("storage", "Zone created", "tenant", tenantID, "zone", zone.Name, "zone_id", zone.ID)
		return &zone, nil
	case pgsqlpool.IsUniqueViolation(err, constraintZoneName):
		return nil, ErrZoneExists
	case isDomainError(err):
		return nil, err
	default:
		return nil, s.fail("create_zone", "", err)
	}
}

func tenantZoneNames(ctx context.Context, tx *sql.Tx, tenantID string) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `SELECT name FROM zones WHERE tenant_id = $1`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// GetZone returns a tenant's zone by id
func (s *PostgresStore) GetZone(ctx context.Context, tenantID, zoneID string) (*models.Zone, error) {
	row, err := s.pool.QueryRow(ctx, s.connectionName,
		`SELECT id, tenant_id, name, created_at FROM zones WHERE id = $1 AND tenant_id = $2`,
		zoneID, tenantID)
	if err != nil {
		return nil, s.fail("get_zone", zoneID, err)
	}

	var zone models.Zone
	if err := row.Scan(&zone.ID, &zone.TenantID, &zone.Name, &zone.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrZoneNotFound
		}
		return nil, s.fail("get_zone", zoneID, err)
	}
	return &zone, nil
}

// ListZones returns a tenant's zones ordered by name
func (s *PostgresStore) ListZones(ctx context.Context, tenantID string) ([]models.Zone, error) {
	rows, err := s.pool.Query(ctx, s.connectionName,
		`SELECT id, tenant_id, name, created_at FROM zones WHERE tenant_id = $1 ORDER BY name`,
		tenantID)
	if err != nil {
		return nil, s.fail("list_zones", "", err)
	}
	defer rows.Close()

	zones := make([]models.Zone, 0)
	for rows.Next() {
		var zone models.Zone
		if err := rows.Scan(&zone.ID, &zone.TenantID, &zone.Name, &zone.CreatedAt); err != nil {
			return nil, s.fail("list_zones", "", err)
		}
		zones = append(zones, zone)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("list_zones", "", err)
	}
	return zones, nil
}

// DeleteZone removes a zone and, by cascade, its records
func (s *PostgresStore) DeleteZone(ctx context.Context, tenantID, zoneID string) error {
	db, err := s.pool.GetConnection(s.connectionName)
	if err != nil {
		return s.fail("delete_zone", zoneID, err)
	}

	result, err := db.ExecContext(ctx, `DELETE FROM zones WHERE id = $1 AND tenant_id = $2`, zoneID, tenantID)
	if err != nil {
		return s.fail("delete_zone", zoneID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return s.fail("delete_zone", zoneID, err)
	}
	if affected == 0 {
		return ErrZoneNotFound
	}
	return nil
}

// ListRecords returns the zone's record snapshot
func (s *PostgresStore) ListRecords(ctx context.Context, zoneID string) ([]models.Record, error) {
	db, err := s.pool.GetConnection(s.connectionName)
	if err != nil {
		return nil, s.fail("list_records", zoneID, err)
	}

	records, err := queryRecords(ctx, db, zoneID)
	if err != nil {
		return nil, s.fail("list_records", zoneID, err)
	}
	return records, nil
}

// querier is satisfied by *sql.DB and *sql.Tx
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryRecords(ctx context.Context, q querier, zoneID string) ([]models.Record, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, record_type, value, ttl
		FROM zone_records
		WHERE zone_id = $1
		ORDER BY lower(name), record_type, created_at
	`, zoneID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]models.Record, 0)
	for rows.Next() {
		var r models.Record
		if err := rows.Scan(&r.ID, &r.Name, &r.Type, &r.Value, &r.TTL); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// lockZone takes the zone row lock that serializes record writes, then reads the snapshot
func lockZone(ctx context.Context, tx *sql.Tx, zoneID string) (*models.Zone, []models.Record, error) {
	var zone models.Zone
	err := tx.QueryRowContext(ctx,
		`SELECT id, tenant_id, name, created_at FROM zones WHERE id = $1 FOR UPDATE`,
		zoneID,
	).Scan(&zone.ID, &zone.TenantID, &zone.Name, &zone.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrZoneNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	records, err := queryRecords(ctx, tx, zoneID)
	if err != nil {
		return nil, nil, err
	}
	return &zone, records, nil
}

// CreateRecord validates record against the locked zone snapshot and inserts it
func (s *PostgresStore) CreateRecord(ctx context.Context, zoneID string, record models.Record) (*RecordWrite, error) {
	var (
		write   RecordWrite
		verdict *recordVerdict
	)

	err := s.pool.Transaction(ctx, s.connectionName, nil, func(tx *sql.Tx) error {
		verdict = nil
		zone, snapshot, err := lockZone(ctx, tx, zoneID)
		if err != nil {
			return err
		}

		var stored models.Record
		stored, verdict, err = admitRecord(zone, record, snapshot, "")
		if err != nil {
			return err
		}
		stored.ID = newRecordID()

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO zone_records (id, zone_id, name, record_type, value, ttl)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, stored.ID, zoneID, stored.Name, stored.Type, stored.Value, stored.TTL); err != nil {
			return err
		}

		write = RecordWrite{Record: stored, Result: verdict.result}
		return nil
	})
	verdict.observe(s.metrics)

	return s.finishWrite("create_record", zoneID, &write, err)
}

// UpdateRecord validates the replacement against the locked snapshot minus the record itself
func (s *PostgresStore) UpdateRecord(ctx context.Context, zoneID, recordID string, record models.Record) (*RecordWrite, error) {
	var (
		write   RecordWrite
		verdict *recordVerdict
	)

	err := s.pool.Transaction(ctx, s.connectionName, nil, func(tx *sql.Tx) error {
		verdict = nil
		zone, snapshot, err := lockZone(ctx, tx, zoneID)
		if err != nil {
			return err
		}
		if _, ok := findRecord(snapshot, recordID); !ok {
			return ErrRecordNotFound
		}

		var stored models.Record
		stored, verdict, err = admitRecord(zone, record, snapshot, recordID)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE zone_records
			SET name = $1, record_type = $2, value = $3, ttl = $4, updated_at = NOW()
			WHERE id = $5 AND zone_id = $6
		`, stored.Name, stored.Type, stored.Value, stored.TTL, recordID, zoneID); err != nil {
			return err
		}

		write = RecordWrite{Record: stored, Result: verdict.result}
		return nil
	})
	verdict.observe(s.metrics)

	return s.finishWrite("update_record", zoneID, &write, err)
}

func (s *PostgresStore) finishWrite(operation, zoneID string, write *RecordWrite, err error) (*RecordWrite, error) {
	switch {
	case err == nil:
		return write, nil
	case pgsqlpool.IsUniqueViolation(err, constraintRecordValue):
		// Only reachable when the engine's semantic comparison and the index disagree
		// on spelling; report it the way the engine reports duplicates.
		return nil, &RecordRejectedError{Result: models.ValidationResult{
			Errors:   map[string]string{models.FieldValue: "An identical record already exists"},
			Warnings: []string{},
		}}
	case isDomainError(err):
		return nil, err
	default:
		return nil, s.fail(operation, zoneID, err)
	}
}

// DeleteRecord removes a record unless the delete policy refuses it. The returned check
// carries any warning the caller should surface.
func (s *PostgresStore) DeleteRecord(ctx context.Context, zoneID, recordID string) (models.DeleteCheck, error) {
	var check models.DeleteCheck

	err := s.pool.Transaction(ctx, s.connectionName, nil, func(tx *sql.Tx) error {
		_, snapshot, err := lockZone(ctx, tx, zoneID)
		if err != nil {
			return err
		}

		record, ok := findRecord(snapshot, recordID)
		if !ok {
			return ErrRecordNotFound
		}

		check, err = admitDelete(record, snapshot)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `DELETE FROM zone_records WHERE id = $1 AND zone_id = $2`, recordID, zoneID)
		return err
	})

	switch {
	case err == nil:
		if check.Warning != "" {
			logging.Warn("storage", "Record deleted with warning", "zone_id", zoneID, "record_id", recordID, "warning", check.Warning)
		}
		return check, nil
	case isDomainError(err):
		return check, err
	default:
		return check, s.fail("delete_record", zoneID, err)
	}
}

// Health checks if the database connection is healthy
func (s *PostgresStore) Health(ctx context.Context) error {
	return s.pool.HealthCheck(ctx, s.connectionName)
}

// Close closes the database connection pool
func (s *PostgresStore) Close() error {
	return s.pool.Close()
}
