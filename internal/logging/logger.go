// internal/logging/logger.go
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// LogLevel represents logging levels
type LogLevel string

const (
	LevelDebug LogLevel = "DEBUG"
	LevelInfo  LogLevel = "INFO"
	LevelWarn  LogLevel = "WARN"
	LevelError LogLevel = "ERROR"
)

// Config holds logging configuration
type Config struct {
	Level             LogLevel `yaml:"level"`
	Directory         string   `yaml:"directory"`
	AppLogFile        string   `yaml:"app_log_file"`
	VerdictLogFile    string   `yaml:"verdict_log_file"`
	EventLogFile      string   `yaml:"event_log_file"`
	EnableConsole     bool     `yaml:"enable_console"`
	VerdictSampleRate float64  `yaml:"verdict_sample_rate"`
}

// DefaultConfig returns default logging configuration
func DefaultConfig() *Config {
	return &Config{
		Level:             LevelInfo,
		Directory:         "logs",
		AppLogFile:        "app.log",
		VerdictLogFile:    "verdicts.log",
		EventLogFile:      "events.log",
		EnableConsole:     true,
		VerdictSampleRate: 0.05, // 5% of accepted records
	}
}

// Logger fans out to three JSON sinks: the application log, the sampled
// verdict log and the warning/error event log
type Logger struct {
	config        *Config
	appLogger     *slog.Logger
	verdictLogger *slog.Logger
	eventLogger   *slog.Logger

	sampleRNG   *rand.Rand
	sampleMutex sync.Mutex

	verdictsLogged atomic.Int64
	eventsLogged   atomic.Int64

	files []*os.File
}

var (
	globalLogger *Logger
	globalMutex  sync.RWMutex
)

// Initialize sets up the global logger. Calling it again replaces the previous logger.
func Initialize(config *Config) error {
	logger, err := newLogger(config)
	if err != nil {
		return err
	}
	SetLogger(logger)
	return nil
}

// SetLogger installs l as the global logger
func SetLogger(l *Logger) {
	globalMutex.Lock()
	defer globalMutex.Unlock()
	globalLogger = l
}

// GetLogger returns the global logger instance. Before Initialize it logs to stderr only.
func GetLogger() *Logger {
	globalMutex.RLock()
	l := globalLogger
	globalMutex.RUnlock()
	if l != nil {
		return l
	}

	globalMutex.Lock()
	defer globalMutex.Unlock()
	if globalLogger == nil {
		globalLogger = NewWithWriters(DefaultConfig(), os.Stderr, io.Discard, os.Stderr)
	}
	return globalLogger
}

// NewWithWriters builds a logger over caller-supplied writers. No files are opened.
func NewWithWriters(config *Config, app, verdicts, events io.Writer) *Logger {
	l := &Logger{
		config:    config,
		sampleRNG: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	l.appLogger = slog.New(slog.NewJSONHandler(app, &slog.HandlerOptions{Level: l.getSlogLevel()}))
	// Verdict logger accepts all levels; sampling happens before the call
	l.verdictLogger = slog.New(slog.NewJSONHandler(verdicts, &slog.HandlerOptions{Level: slog.LevelDebug}))
	l.eventLogger = slog.New(slog.NewJSONHandler(events, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return l
}

// newLogger opens the log files under config.Directory
func newLogger(config *Config) (*Logger, error) {
	if err := os.MkdirAll(config.Directory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	var files []*os.File
	open := func(name string) (*os.File, error) {
		f, err := os.OpenFile(filepath.Join(config.Directory, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			for _, opened := range files {
				_ = opened.Close()
			}
			return nil, fmt.Errorf("failed to open log file %s: %w", name, err)
		}
		files = append(files, f)
		return f, nil
	}

	appFile, err := open(config.AppLogFile)
	if err != nil {
		return nil, err
	}
	verdictFile, err := open(config.VerdictLogFile)
	if err != nil {
		return nil, err
	}
	eventFile, err := open(config.EventLogFile)
	if err != nil {
		return nil, err
	}

	var app io.Writer = appFile
	if config.EnableConsole {
		app = io.MultiWriter(appFile, os.Stdout)
	}

	logger := NewWithWriters(config, app, verdictFile, eventFile)
	logger.files = files
	return logger, nil
}

// getSlogLevel converts our LogLevel to slog.Level
func (l *Logger) getSlogLevel() slog.Level {
	switch l.config.Level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// shouldSampleVerdict decides whether an accepted record is written to the verdict log
func (l *Logger) shouldSampleVerdict() bool {
	if l.config.Level == LevelDebug {
		return true
	}

	l.sampleMutex.Lock()
	defer l.sampleMutex.Unlock()

	return l.sampleRNG.Float64() < l.config.VerdictSampleRate
}

// Application Logging Methods

// Info logs an informational message
func (l *Logger) Info(component, message string, fields ...any) {
	l.appLogger.Info(message, append([]any{"component", component}, fields...)...)
}

// Warn logs a warning message
func (l *Logger) Warn(component, message string, fields ...any) {
	l.appLogger.Warn(message, append([]any{"component", component}, fields...)...)
}

// Error logs an error message
func (l *Logger) Error(component, message string, err error, fields ...any) {
	allFields := append([]any{"component", component}, fields...)
	if err != nil {
		allFields = append(allFields, "error", err.Error())
	}
	l.appLogger.Error(message, allFields...)
}

// Debug logs a debug message
func (l *Logger) Debug(component, message string, fields ...any) {
	l.appLogger.Debug(message, append([]any{"component", component}, fields...)...)
}

// Verdict Logging Methods

// LogVerdict records the outcome of one record validation. Rejections are always
// written, acceptances are sampled.
func (l *Logger) LogVerdict(zone, name, recordType string, valid bool, errorFields []string, duration time.Duration) {
	if valid && !l.shouldSampleVerdict() {
		return
	}

	outcome := "accepted"
	if !valid {
		outcome = "rejected"
	}

	l.verdictLogger.Info("record_verdict",
		"zone", zone,
		"name", name,
		"type", recordType,
		"outcome", outcome,
		"error_fields", errorFields,
		"duration_us", duration.Microseconds(),
		"timestamp", time.Now().Unix(),
	)
	l.verdictsLogged.Add(1)
}

// Event Logging Methods

// LogRejected writes the full error map of a rejected write
func (l *Logger) LogRejected(zone, name, recordType string, errors map[string]string) {
	fields := make([]string, 0, len(errors))
	for f := range errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	attrs := []any{
		"event_type", "record_rejected",
		"zone", zone,
		"name", name,
		"type", recordType,
	}
	for _, f := range fields {
		attrs = append(attrs, "error_"+f, errors[f])
	}

	l.eventLogger.Warn("record_rejected", attrs...)
	l.eventsLogged.Add(1)
}

// LogZoneConflict writes a refused zone creation
func (l *Logger) LogZoneConflict(tenant, zone, conflictingZone string) {
	l.eventLogger.Warn("zone_conflict",
		"event_type", "zone_conflict",
		"tenant", tenant,
		"zone", zone,
		"conflicting_zone", conflictingZone,
	)
	l.eventsLogged.Add(1)
}

// LogStorageError writes a failed storage operation
func (l *Logger) LogStorageError(operation, zoneID string, err error) {
	l.eventLogger.Error("storage_error",
		"event_type", "storage_error",
		"operation", operation,
		"zone_id", zoneID,
		"error", err.Error(),
	)
	l.eventsLogged.Add(1)
}

// GetStats returns logging statistics
func (l *Logger) GetStats() map[string]any {
	return map[string]any{
		"verdicts_logged": l.verdictsLogged.Load(),
		"events_logged":   l.eventsLogged.Load(),
		"sample_rate":     l.config.VerdictSampleRate,
		"log_level":       string(l.config.Level),
	}
}

// Close closes all log files
func (l *Logger) Close() error {
	var lastErr error
	for _, f := range l.files {
		if err := f.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Global convenience functions

// Info logs an informational message using the global logger
func Info(component, message string, fields ...any) {
	GetLogger().Info(component, message, fields...)
}

// Warn logs a warning message using the global logger
func Warn(component, message string, fields ...any) {
	GetLogger().Warn(component, message, fields...)
}

// Error logs an error message using the global logger
func Error(component, message string, err error, fields ...any) {
	GetLogger().Error(component, message, err, fields...)
}

// Debug logs a debug message using the global logger
func Debug(component, message string, fields ...any) {
	GetLogger().Debug(component, message, fields...)
}

func LogVerdict(zone, name, recordType string, valid bool, errorFields []string, duration time.Duration) {
	GetLogger().LogVerdict(zone, name, recordType, valid, errorFields, duration)
}

func LogRejected(zone, name, recordType string, errors map[string]string) {
	GetLogger().LogRejected(zone, name, recordType, errors)
}

func LogZoneConflict(tenant, zone, conflictingZone string) {
	GetLogger().LogZoneConflict(tenant, zone, conflictingZone)
}

func LogStorageError(operation, zoneID string, err error) {
	GetLogger().LogStorageError(operation, zoneID, err)
}
