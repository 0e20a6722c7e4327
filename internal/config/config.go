// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable holding the config file path
const EnvConfigPath = "ZONEWARDEN_CONFIG"

// Config holds all configuration for the zonewarden service
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Cache    CacheConfig    `yaml:"cache"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// HTTPConfig holds API server settings
type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	GinMode         string        `yaml:"gin_mode"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
}

// DatabaseConfig holds PostgreSQL database configuration
type DatabaseConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	User           string `yaml:"user"`
	Password       string `yaml:"password"`
	DBName         string `yaml:"dbname"`
	SSLMode        string `yaml:"sslmode"`
	ConnectionName string `yaml:"connection_name"`
	ApplySchema    bool   `yaml:"apply_schema"`

	// Connection pool settings
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

// RedisConfig holds the optional shared snapshot cache settings
type RedisConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Addr        string        `yaml:"addr"`
	Password    string        `yaml:"password"`
	DB          int           `yaml:"db"`
	KeyPrefix   string        `yaml:"key_prefix"`
	SnapshotTTL time.Duration `yaml:"snapshot_ttl"`
}

// CacheConfig holds in-process snapshot cache configuration
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled"`
	MaxEntries      int           `yaml:"max_entries"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
	DefaultTTL      time.Duration `yaml:"default_ttl"`
}

// LoggingConfig holds log sink settings
type LoggingConfig struct {
	Level             string  `yaml:"level"`
	Directory         string  `yaml:"directory"`
	EnableConsole     bool    `yaml:"enable_console"`
	VerdictSampleRate float64 `yaml:"verdict_sample_rate"`
}

// MetricsConfig holds Prometheus exposition settings
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			GinMode:         "release",
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  10 * time.Second,
		},

		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "zonewarden",
			Password:        "zonewarden",
			DBName:          "zonewarden",
			SSLMode:         "disable",
			ConnectionName:  "zones_primary",
			ApplySchema:     true,
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			ConnMaxIdleTime: 2 * time.Minute,
		},

		Redis: RedisConfig{
			Enabled:     false,
			Addr:        "localhost:6379",
			KeyPrefix:   "zonewarden:",
			SnapshotTTL: 5 * time.Minute,
		},

		Cache: CacheConfig{
			Enabled:         true,
			MaxEntries:      10000,
			CleanupInterval: 60 * time.Second,
			DefaultTTL:      300 * time.Second,
		},

		Logging: LoggingConfig{
			Level:             "INFO",
			Directory:         "logs",
			EnableConsole:     true,
			VerdictSampleRate: 0.05,
		},

		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (or at
// $ZONEWARDEN_CONFIG when path is empty), then environment overrides.
// The result is not validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	// Override with environment variables
	loadHTTPConfig(cfg)
	loadDatabaseConfig(cfg)
	loadRedisConfig(cfg)
	loadCacheConfig(cfg)
	loadLoggingConfig(cfg)
	loadMetricsConfig(cfg)

	return cfg, nil
}

// loadFile overlays a YAML file on cfg; keys absent from the file keep their values
func loadFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	// an empty file decodes to io.EOF and leaves the defaults alone
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// loadHTTPConfig loads API server configuration from environment
func loadHTTPConfig(cfg *Config) {
	if env := os.Getenv("HTTP_ADDR"); env != "" {
		cfg.HTTP.Addr = env
	}

	if env := os.Getenv("GIN_MODE"); env != "" {
		cfg.HTTP.GinMode = env
	}

	envDuration("SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout)
	envDuration("REQUEST_TIMEOUT", &cfg.HTTP.RequestTimeout)
}

// loadDatabaseConfig loads database configuration from environment
func loadDatabaseConfig(cfg *Config) {
	if env := os.Getenv("DB_HOST"); env != "" {
		cfg.Database.Host = env
	}

	if env := os.Getenv("DB_PORT"); env != "" {
		if port, err := strconv.Atoi(env); err == nil && port > 0 {
			cfg.Database.Port = port
		}
	}

	if env := os.Getenv("DB_USER"); env != "" {
		cfg.Database.User = env
	}

	if env := os.Getenv("DB_PASSWORD"); env != "" {
		cfg.Database.Password = env
	}

	if env := os.Getenv("DB_NAME"); env != "" {
		cfg.Database.DBName = env
	}

	if env := os.Getenv("DB_SSL_MODE"); env != "" {
		cfg.Database.SSLMode = env
	}

	if env := os.Getenv("DB_CONNECTION_NAME"); env != "" {
		cfg.Database.ConnectionName = env
	}

	envBool("DB_APPLY_SCHEMA", &cfg.Database.ApplySchema)

	if env := os.Getenv("DB_MAX_OPEN_CONNS"); env != "" {
		if val, err := strconv.Atoi(env); err == nil && val > 0 {
			cfg.Database.MaxOpenConns = val
		}
	}

	if env := os.Getenv("DB_MAX_IDLE_CONNS"); env != "" {
		if val, err := strconv.Atoi(env); err == nil && val >= 0 {
			cfg.Database.MaxIdleConns = val
		}
	}

	envDuration("DB_CONN_MAX_LIFETIME", &cfg.Database.ConnMaxLifetime)
	envDuration("DB_CONN_MAX_IDLE_TIME", &cfg.Database.ConnMaxIdleTime)
}

// loadRedisConfig loads Redis configuration from environment
func loadRedisConfig(cfg *Config) {
	envBool("REDIS_ENABLED", &cfg.Redis.Enabled)

	if env := os.Getenv("REDIS_ADDR"); env != "" {
		cfg.Redis.Addr = env
	}

	if env := os.Getenv("REDIS_PASSWORD"); env != "" {
		cfg.Redis.Password = env
	}

	if env := os.Getenv("REDIS_DB"); env != "" {
		if val, err := strconv.Atoi(env); err == nil && val >= 0 {
			cfg.Redis.DB = val
		}
	}

	if env := os.Getenv("REDIS_KEY_PREFIX"); env != "" {
		cfg.Redis.KeyPrefix = env
	}

	envDuration("REDIS_SNAPSHOT_TTL", &cfg.Redis.SnapshotTTL)
}

// loadCacheConfig loads cache configuration from environment
func loadCacheConfig(cfg *Config) {
	envBool("CACHE_ENABLED", &cfg.Cache.Enabled)

	if env := os.Getenv("CACHE_MAX_ENTRIES"); env != "" {
		if val, err := strconv.Atoi(env); err == nil && val > 0 {
			cfg.Cache.MaxEntries = val
		}
	}

	envDuration("CACHE_CLEANUP_INTERVAL", &cfg.Cache.CleanupInterval)
	envDuration("CACHE_DEFAULT_TTL", &cfg.Cache.DefaultTTL)
}

// loadLoggingConfig loads logging configuration from environment
func loadLoggingConfig(cfg *Config) {
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		cfg.Logging.Level = strings.ToUpper(env)
	}

	if env := os.Getenv("LOG_DIR"); env != "" {
		cfg.Logging.Directory = env
	}

	envBool("LOG_CONSOLE", &cfg.Logging.EnableConsole)

	if env := os.Getenv("LOG_VERDICT_SAMPLE_RATE"); env != "" {
		if val, err := strconv.ParseFloat(env, 64); err == nil {
			cfg.Logging.VerdictSampleRate = val
		}
	}
}

// loadMetricsConfig loads metrics configuration from environment
func loadMetricsConfig(cfg *Config) {
	envBool("METRICS_ENABLED", &cfg.Metrics.Enabled)

	if env := os.Getenv("METRICS_PATH"); env != "" {
		cfg.Metrics.Path = env
	}
}

func envBool(name string, dst *bool) {
	if env := os.Getenv(name); env != "" {
		if val, err := strconv.ParseBool(env); err == nil {
			*dst = val
		}
	}
}

func envDuration(name string, dst *time.Duration) {
	if env := os.Getenv(name); env != "" {
		if val, err := time.ParseDuration(env); err == nil {
			*dst = val
		}
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		return &ValidationError{Field: "HTTP.Addr", Message: "cannot be empty"}
	}

	switch c.HTTP.GinMode {
	case "debug", "release", "test":
	default:
		return &ValidationError{Field: "HTTP.GinMode", Message: "must be 'debug', 'release' or 'test'"}
	}

	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database config error: %w", err)
	}

	if err := c.Redis.Validate(); err != nil {
		return fmt.Errorf("redis config error: %w", err)
	}

	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache config error: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config error: %w", err)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return &ValidationError{Field: "Metrics.Path", Message: "must start with '/'"}
	}

	return nil
}

// Validate validates database configuration
func (db *DatabaseConfig) Validate() error {
	if db.Host == "" {
		return &ValidationError{Field: "Host", Message: "cannot be empty"}
	}

	if db.Port <= 0 || db.Port > 65535 {
		return &ValidationError{Field: "Port", Message: "must be between 1 and 65535"}
	}

	if db.User == "" {
		return &ValidationError{Field: "User", Message: "cannot be empty"}
	}

	if db.DBName == "" {
		return &ValidationError{Field: "DBName", Message: "cannot be empty"}
	}

	if db.ConnectionName == "" {
		return &ValidationError{Field: "ConnectionName", Message: "cannot be empty"}
	}

	if db.MaxOpenConns <= 0 {
		return &ValidationError{Field: "MaxOpenConns", Message: "must be greater than 0"}
	}

	if db.MaxIdleConns < 0 {
		return &ValidationError{Field: "MaxIdleConns", Message: "cannot be negative"}
	}

	return nil
}

// Validate validates Redis configuration
func (r *RedisConfig) Validate() error {
	if !r.Enabled {
		return nil
	}

	if r.Addr == "" {
		return &ValidationError{Field: "Addr", Message: "cannot be empty when redis is enabled"}
	}

	if r.DB < 0 {
		return &ValidationError{Field: "DB", Message: "cannot be negative"}
	}

	if r.SnapshotTTL <= 0 {
		return &ValidationError{Field: "SnapshotTTL", Message: "must be greater than 0"}
	}

	return nil
}

// Validate validates cache configuration
func (cache *CacheConfig) Validate() error {
	if cache.Enabled {
		if cache.MaxEntries <= 0 {
			return &ValidationError{Field: "MaxEntries", Message: "must be greater than 0 when cache is enabled"}
		}

		if cache.CleanupInterval < 0 {
			return &ValidationError{Field: "CleanupInterval", Message: "cannot be negative"}
		}

		if cache.DefaultTTL < 0 {
			return &ValidationError{Field: "DefaultTTL", Message: "cannot be negative"}
		}
	}

	return nil
}

// Validate validates logging configuration
func (l *LoggingConfig) Validate() error {
	switch strings.ToUpper(l.Level) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		return &ValidationError{Field: "Level", Message: "must be one of DEBUG, INFO, WARN, ERROR"}
	}

	if l.VerdictSampleRate < 0 || l.VerdictSampleRate > 1 {
		return &ValidationError{Field: "VerdictSampleRate", Message: "must be between 0 and 1"}
	}

	return nil
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error: %s %s", e.Field, e.Message)
}
