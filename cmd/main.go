package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/okian/activscan/internal/adapters/http/api"
	"github.com/okian/activscan/internal/adapters/http/site"
	"github.com/okian/activscan/internal/adapters/http/swagger"
	app "github.com/okian/activscan/internal/app"
	"github.com/okian/activscan/internal/config"
	"github.com/okian/activscan/internal/domain/detect"
	"github.com/okian/activscan/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout            = 30 * time.Second
	writeTimeout           = 60 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 5 * time.Second
	corsMaxAge             = 300
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := newService(cfg, loggerInstance)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			stop()
		}
	}()

	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// newService maps configuration onto service and detector options.
func newService(cfg *config.Config, l logger.Logger) *app.Service {
	return app.New(
		app.WithLogger(l),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithResultStoreSize(cfg.ResultStoreSize),
		app.WithDetectorOptions(
			detect.WithTrees(cfg.Trees),
			detect.WithContamination(cfg.Contamination),
			detect.WithMaxSamples(cfg.MaxSamples),
			detect.WithSeed(cfg.Seed),
			detect.WithMissingSentinel(cfg.MissingSentinel),
			detect.WithLabels(cfg.NormalLabel, cfg.AnomalyLabel),
		),
	)
}

// newRouter wires the upload page, API docs and business routes.
func newRouter(ctx context.Context, cfg *config.Config, svc *app.Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Origins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "X-Batch-ID"},
		MaxAge:         corsMaxAge,
	}))

	site.Register(ctx, r)
	swagger.Register(ctx, r)

	apiServer := api.NewServer(svc, svc, api.WithMaxUploadBytes(cfg.MaxUploadBytes))
	apiServer.Register(ctx, r)
	return r
}

// startServiceMetricsUpdater refreshes queue and store gauges until ctx ends.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// GetStats updates the gauges as a side effect.
			_ = svc.GetStats()
		}
	}
}
