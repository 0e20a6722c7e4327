package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"zonewarden.io/internal/api"
	"zonewarden.io/internal/cache"
	"zonewarden.io/internal/config"
	"zonewarden.io/internal/logging"
	"zonewarden.io/internal/metrics"
	"zonewarden.io/internal/pgsqlpool"
	"zonewarden.io/internal/redis"
	"zonewarden.io/internal/storage"
)

func newServeCmd(configPath *string) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.inMemory, "in-memory", false, "Keep zones in process memory instead of PostgreSQL")
	cmd.Flags().BoolVar(&opts.flushCache, "flush-cache", false, "Drop every Redis snapshot under the key prefix before serving")
	return cmd
}

type serveOptions struct {
	inMemory   bool
	flushCache bool
}

func serve(ctx context.Context, cfg *config.Config, opts serveOptions) error {
	if err := logging.Initialize(loggingConfig(cfg)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.GetLogger().Close()

	registry := prometheus.NewRegistry()
	vm := metrics.NewValidationMetrics()
	if cfg.Metrics.Enabled {
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		vm.SetupAndRegisterCollectors(registry)
	}

	store, err := openStore(ctx, cfg, opts, vm)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error("main", "Error closing storage", err)
		}
		if err := redis.CloseAll(); err != nil {
			logging.Error("main", "Error closing redis clients", err)
		}
	}()

	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.Health(healthCtx); err != nil {
		return fmt.Errorf("storage health check failed: %w", err)
	}
	logging.Info("main", "Storage layer initialized")

	gin.SetMode(cfg.HTTP.GinMode)
	apiOpts := api.Options{
		Metrics:        vm,
		MetricsPath:    cfg.Metrics.Path,
		RequestTimeout: cfg.HTTP.RequestTimeout,
	}
	if cfg.Metrics.Enabled {
		apiOpts.Gatherer = registry
	}

	app, err := api.NewApp(store, apiOpts)
	if err != nil {
		return err
	}

	if cached, ok := store.(*storage.CachedStore); ok {
		go reportStats(ctx, cached)
	}

	return app.Run(ctx, cfg.HTTP.Addr, cfg.HTTP.ShutdownTimeout)
}

func loggingConfig(cfg *config.Config) *logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = logging.LogLevel(cfg.Logging.Level)
	lc.Directory = cfg.Logging.Directory
	lc.EnableConsole = cfg.Logging.EnableConsole
	lc.VerdictSampleRate = cfg.Logging.VerdictSampleRate
	return lc
}

// openStore builds the store stack: PostgreSQL (or memory), wrapped in the snapshot
// caches when either layer is enabled
func openStore(ctx context.Context, cfg *config.Config, opts serveOptions, vm *metrics.ValidationMetrics) (storage.Store, error) {
	var base storage.Store

	if opts.inMemory {
		base = storage.NewMemoryStore(vm)
		logging.Warn("main", "Using in-memory storage; zones are lost on exit")
	} else {
		db := cfg.Database
		pg, err := storage.NewPostgresStore(ctx, pgsqlpool.NewPool(), db.ConnectionName, &storage.Config{
			Host:            db.Host,
			Port:            db.Port,
			User:            db.User,
			Password:        db.Password,
			DBName:          db.DBName,
			SSLMode:         db.SSLMode,
			MaxOpenConns:    db.MaxOpenConns,
			MaxIdleConns:    db.MaxIdleConns,
			ConnMaxLifetime: db.ConnMaxLifetime,
			ConnMaxIdleTime: db.ConnMaxIdleTime,
			ApplySchema:     db.ApplySchema,
		}, vm)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage: %w", err)
		}
		logging.Info("main", "Connected to PostgreSQL", "host", db.Host, "port", db.Port, "database", db.DBName)
		base = pg
	}

	var memory cache.Cache
	if cfg.Cache.Enabled {
		memory = cache.NewMemoryCache(&cache.Config{
			MaxEntries:      cfg.Cache.MaxEntries,
			CleanupInterval: cfg.Cache.CleanupInterval,
		})
		logging.Info("main", "Memory cache enabled", "max_entries", cfg.Cache.MaxEntries, "ttl", cfg.Cache.DefaultTTL.String())
	}

	var shared storage.SnapshotCache
	if cfg.Redis.Enabled {
		client := redis.NewClient(redis.DefaultClient, redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redis.Ping(pingCtx, client); err != nil {
			logging.Warn("main", "Redis not reachable at startup; reads fall through to storage", "addr", cfg.Redis.Addr, "error", err.Error())
		}
		cancel()

		snapshots := storage.NewRedisSnapshots(client, cfg.Redis.KeyPrefix, cfg.Redis.SnapshotTTL)
		if opts.flushCache {
			if err := snapshots.Clear(ctx); err != nil {
				logging.Warn("main", "Could not flush Redis snapshots", "error", err.Error())
			} else {
				logging.Info("main", "Flushed Redis snapshots", "prefix", cfg.Redis.KeyPrefix)
			}
		}
		shared = snapshots
		logging.Info("main", "Redis snapshot cache enabled", "addr", cfg.Redis.Addr)
	}

	if memory == nil && shared == nil {
		return base, nil
	}
	return storage.NewCachedStore(base, memory, shared, cfg.Cache.DefaultTTL), nil
}

// reportStats periodically logs cache and logger statistics
func reportStats(ctx context.Context, store *storage.CachedStore) {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := store.Stats(ctx)
			if stats.L1Stats != nil {
				logging.Info("stats", "Memory cache",
					"entries", stats.L1Stats.Entries,
					"hits", stats.L1Stats.Hits,
					"misses", stats.L1Stats.Misses,
					"hit_rate", stats.L1Stats.HitRate,
					"evictions", stats.L1Stats.Evictions,
				)
			}
			if stats.L2Stats != nil {
				logging.Info("stats", "Redis cache", "connected", stats.L2Stats.Connected, "keys", stats.L2Stats.KeyCount)
			}

			ls := logging.GetLogger().GetStats()
			logging.Info("stats", "Logging", "verdicts_logged", ls["verdicts_logged"], "events_logged", ls["events_logged"])
		}
	}
}
