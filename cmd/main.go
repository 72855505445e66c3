package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/vokasi/internal/adapters/artifacts"
	"github.com/okian/vokasi/internal/adapters/http/api"
	"github.com/okian/vokasi/internal/adapters/http/site"
	"github.com/okian/vokasi/internal/adapters/http/swagger"
	app "github.com/okian/vokasi/internal/app"
	"github.com/okian/vokasi/internal/config"
	"github.com/okian/vokasi/internal/domain/features"
	"github.com/okian/vokasi/pkg/logger"
	"github.com/okian/vokasi/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	if err := logger.Init(); err != nil {
		fatalf("failed to initialize logging: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		fatalf("failed to load config: %v", err)
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		fatalf("failed to initialize logging: %v", err)
	}
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc, err := newService(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "startup failed", logger.Error(err))
		fatalf("startup failed: %v", err)
	}

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, svc, log),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
}

// newService loads the artifacts named by cfg and starts a prediction
// service over them.
func newService(ctx context.Context, cfg *config.Config, log logger.Logger) (*app.Service, error) {
	catalog, err := features.NewCatalog(cfg.Categories)
	if err != nil {
		return nil, fmt.Errorf("build category catalog: %w", err)
	}

	start := time.Now()
	bundle, err := artifacts.Load(ctx, artifacts.Paths{
		Model:    cfg.ModelPath,
		Scaler:   cfg.ScalerPath,
		Manifest: cfg.ManifestPath,
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordArtifactsLoaded(time.Now().Unix(), float64(time.Since(start).Microseconds())/1000)
	log.Info(ctx, "artifacts loaded",
		logger.String("model", cfg.ModelPath),
		logger.String("scaler", cfg.ScalerPath),
		logger.String("manifest", cfg.ManifestPath),
	)

	svc := app.New(
		app.WithLogger(log),
		app.WithBundle(bundle),
		app.WithCatalog(catalog),
		app.WithCurrencyPrefix(cfg.CurrencyPrefix),
		app.WithCatalogCheck(cfg.CatalogCheck),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, fmt.Errorf("start service: %w", err)
	}
	return svc, nil
}

// newMux registers docs, static assets and the business routes.
func newMux(ctx context.Context, svc *app.Service, log logger.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	site.Register(ctx, mux)
	api.NewServer(svc, svc, log).Register(ctx, mux)
	return mux
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// startSystemMetricsUpdater refreshes runtime metrics until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
