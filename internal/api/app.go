// Package api exposes zone and record management over HTTP. Every record write goes
// through the store, which runs the validation engine under the zone's write lock.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"zonewarden.io/internal/logging"
	"zonewarden.io/internal/metrics"
	"zonewarden.io/internal/storage"
)

// Options configures the HTTP layer
type Options struct {
	Metrics        *metrics.ValidationMetrics
	Gatherer       prometheus.Gatherer // nil disables the metrics endpoint
	MetricsPath    string
	RequestTimeout time.Duration
}

// App encapsulates the router and its handlers
type App struct {
	Router         *gin.Engine
	ZoneHandlers   *ZoneHandlers
	RecordHandlers *RecordHandlers
	HealthHandler  *HealthHandler

	opts Options
}

// NewApp builds the router over store
func NewApp(store storage.Store, opts Options) (*App, error) {
	if err := registerValidators(); err != nil {
		return nil, err
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	app := &App{
		Router:         router,
		ZoneHandlers:   NewZoneHandlers(store),
		RecordHandlers: NewRecordHandlers(store, opts.Metrics),
		HealthHandler:  NewHealthHandler(store),
		opts:           opts,
	}

	app.setupRoutes()
	return app, nil
}

func (app *App) setupRoutes() {
	app.Router.GET("/api/v1/health", app.HealthHandler.HealthCheckHandler)

	if app.opts.Gatherer != nil {
		app.Router.GET(app.opts.MetricsPath, gin.WrapH(promhttp.HandlerFor(app.opts.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := app.Router.Group("/api/v1", requestTimeout(app.opts.RequestTimeout), requireTenant())
	{
		v1.POST("/zones", app.ZoneHandlers.CreateZoneHandler)
		v1.GET("/zones", app.ZoneHandlers.ListZonesHandler)
		v1.POST("/zones/overlap", app.ZoneHandlers.OverlapHandler)
		v1.GET("/zones/:zoneID", app.ZoneHandlers.GetZoneHandler)
		v1.DELETE("/zones/:zoneID", app.ZoneHandlers.DeleteZoneHandler)
	}

	zone := v1.Group("/zones/:zoneID", app.ZoneHandlers.loadZone)
	{
		zone.GET("/records", app.RecordHandlers.ListRecordsHandler)
		zone.POST("/records", app.RecordHandlers.CreateRecordHandler)
		zone.POST("/records/validate", app.RecordHandlers.ValidateRecordHandler)
		zone.PUT("/records/:recordID", app.RecordHandlers.UpdateRecordHandler)
		zone.DELETE("/records/:recordID", app.RecordHandlers.DeleteRecordHandler)
		zone.POST("/import", app.RecordHandlers.ImportHandler)
		zone.GET("/export", app.RecordHandlers.ExportHandler)
	}
}

// Run serves until ctx is cancelled, then shuts down within shutdownTimeout
func (app *App) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("api", "HTTP server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info("api", "HTTP server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
