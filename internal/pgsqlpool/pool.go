// internal/pgsqlpool/pool.go
package pgsqlpool

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"
)

// maxTxAttempts bounds how often Transaction reruns fn after a serialization
// failure or deadlock
const maxTxAttempts = 3

// ConnectionConfig describes one PostgreSQL endpoint and its handle limits
type ConnectionConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string // disable, require, verify-ca, verify-full

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConnectionConfig targets a local server with a small pool
func DefaultConnectionConfig() *ConnectionConfig {
	return &ConnectionConfig{
		Host:            "localhost",
		Port:            5432,
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 2 * time.Minute,
	}
}

// DSN returns the key/value connection string understood by lib/pq. Every value is
// quoted so passwords may contain spaces and quotes.
func (c *ConnectionConfig) DSN() string {
	return strings.Join([]string{
		"host=" + dsnValue(c.Host),
		fmt.Sprintf("port=%d", c.Port),
		"user=" + dsnValue(c.User),
		"password=" + dsnValue(c.Password),
		"dbname=" + dsnValue(c.DBName),
		"sslmode=" + dsnValue(c.SSLMode),
	}, " ")
}

func dsnValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// Validate reports every problem with the config at once
func (c *ConnectionConfig) Validate() error {
	var problems []error
	if c.Host == "" {
		problems = append(problems, errors.New("host is required"))
	}
	if c.Port < 1 || c.Port > 65535 {
		problems = append(problems, fmt.Errorf("port %d is outside 1-65535", c.Port))
	}
	if c.User == "" {
		problems = append(problems, errors.New("user is required"))
	}
	if c.DBName == "" {
		problems = append(problems, errors.New("database name is required"))
	}
	if c.MaxOpenConns < 1 {
		problems = append(problems, errors.New("max open connections must be at least 1"))
	}
	if c.MaxIdleConns < 0 {
		problems = append(problems, errors.New("max idle connections cannot be negative"))
	}
	return errors.Join(problems...)
}

// Pool holds *sql.DB handles by name so several stores can share one process-wide
// registry
type Pool struct {
	mu  sync.RWMutex
	dbs map[string]*sql.DB
}

func NewPool() *Pool {
	return &Pool{dbs: make(map[string]*sql.DB)}
}

// AddConnection opens a handle through the lib/pq connector, applies the limits and
// pings it before registering it under name
func (p *Pool) AddConnection(ctx context.Context, name string, config *ConnectionConfig) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("connection %s: invalid config: %w", name, err)
	}

	connector, err := pq.NewConnector(config.DSN())
	if err != nil {
		return fmt.Errorf("connection %s: building connector: %w", name, err)
	}

	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)
	db.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("connection %s: ping: %w", name, err)
	}

	return p.attach(name, db)
}

func (p *Pool) attach(name string, db *sql.DB) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, taken := p.dbs[name]; taken {
		db.Close()
		return fmt.Errorf("connection %s is already registered", name)
	}
	p.dbs[name] = db
	return nil
}

// GetConnection returns the handle registered under name
func (p *Pool) GetConnection(name string) (*sql.DB, error) {
	p.mu.RLock()
	db, ok := p.dbs[name]
	p.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("connection %s is not registered", name)
	}
	return db, nil
}

func (p *Pool) HealthCheck(ctx context.Context, name string) error {
	db, err := p.GetConnection(name)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("connection %s unhealthy: %w", name, err)
	}
	return nil
}

// Close closes every handle and empties the registry
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for name, db := range p.dbs {
		if err := db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", name, err))
		}
	}
	p.dbs = make(map[string]*sql.DB)

	return errors.Join(errs...)
}

func (p *Pool) Query(ctx context.Context, name, query string, args ...any) (*sql.Rows, error) {
	db, err := p.GetConnection(name)
	if err != nil {
		return nil, err
	}
	return db.QueryContext(ctx, query, args...)
}

func (p *Pool) QueryRow(ctx context.Context, name, query string, args ...any) (*sql.Row, error) {
	db, err := p.GetConnection(name)
	if err != nil {
		return nil, err
	}
	return db.QueryRowContext(ctx, query, args...), nil
}

// Transaction runs fn in a transaction on the named handle. A rollback follows any
// error from fn, which is returned unwrapped so callers can match it. Serialization
// failures and deadlocks rerun fn from the start, up to maxTxAttempts times.
func (p *Pool) Transaction(ctx context.Context, name string, opts *sql.TxOptions, fn func(*sql.Tx) error) error {
	db, err := p.GetConnection(name)
	if err != nil {
		return err
	}

	for attempt := 1; ; attempt++ {
		err = runTx(ctx, db, opts, fn)
		if err == nil || !IsRetryable(err) || attempt == maxTxAttempts || ctx.Err() != nil {
			return err
		}
	}
}

func runTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ExecSchema runs a multi-statement DDL script on the named handle
func (p *Pool) ExecSchema(ctx context.Context, name, schema string) error {
	db, err := p.GetConnection(name)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("applying schema on %s: %w", name, err)
	}
	return nil
}

// PostgreSQL error codes the storage layer reacts to
const (
	codeUniqueViolation      pq.ErrorCode = "23505"
	codeSerializationFailure pq.ErrorCode = "40001"
	codeDeadlockDetected     pq.ErrorCode = "40P01"
)

// IsUniqueViolation reports whether err is a unique constraint violation. constraint
// narrows the match to one index; empty matches any.
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != codeUniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// IsRetryable reports whether err is a serialization failure or deadlock
func IsRetryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == codeSerializationFailure || pqErr.Code == codeDeadlockDetected
}
