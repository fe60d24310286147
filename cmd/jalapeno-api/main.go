// Command jalapeno-api runs the HTTP surface of spec.md §6 over a
// PostgreSQL-backed Graph Store Adapter. Grounded on services/gateway-svc/
// cmd/main.go's startup/shutdown sequence (config load, logger init,
// component wiring, signal-based graceful shutdown); the ConnectRPC client
// manager and h2c/http2 wrapping have no counterpart here, since this
// surface is plain JSON over net/http.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"jalapeno/internal/audit"
	"jalapeno/internal/config"
	"jalapeno/internal/graphstore"
	"jalapeno/internal/httpapi"
	"jalapeno/internal/logger"
	"jalapeno/internal/metrics"
	"jalapeno/internal/ratelimit"
	"jalapeno/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger.InitWithConfig(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	logger.Info("starting jalapeno-api", "version", cfg.App.Version, "environment", cfg.App.Environment)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Database.AutoMigrate {
		if err := migrate(ctx, cfg.Database); err != nil {
			logger.Fatal("migration failed", "error", err)
		}
	}

	store, err := graphstore.NewPostgresStore(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to graph store", "error", err)
	}
	defer store.Close()

	if cfg.Metrics.Enabled {
		m := metrics.InitMetrics(cfg.Metrics.Namespace, cfg.Metrics.Subsystem)
		m.SetServiceInfo(cfg.App.Version, cfg.App.Environment)
	}

	provider, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
		Version:     cfg.App.Version,
		Environment: cfg.App.Environment,
		SampleRate:  cfg.Tracing.SampleRate,
	})
	if err != nil {
		logger.Fatal("failed to initialize tracing", "error", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("tracing shutdown error", "error", err)
		}
	}()

	var limiter ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		limiter, err = ratelimit.New(&ratelimit.Config{
			Requests:        cfg.RateLimit.Requests,
			Window:          cfg.RateLimit.Window,
			Backend:         cfg.RateLimit.Backend,
			RedisAddr:       cfg.RateLimit.RedisAddr,
			BurstSize:       cfg.RateLimit.BurstSize,
			CleanupInterval: cfg.RateLimit.CleanupInterval,
		})
		if err != nil {
			logger.Fatal("failed to initialize rate limiter", "error", err)
		}
		defer limiter.Close()
	}
	routeLimits := ratelimit.NewRouteLimits(&ratelimit.Config{
		Requests: cfg.RateLimit.Requests,
		Window:   cfg.RateLimit.Window,
	})

	auditLogger, err := audit.New(&audit.Config{
		Enabled:     cfg.Audit.Enabled,
		Backend:     cfg.Audit.Backend,
		FilePath:    cfg.Audit.FilePath,
		BufferSize:  cfg.Audit.BufferSize,
		FlushPeriod: 5 * time.Second,
	})
	if err != nil {
		logger.Fatal("failed to initialize audit logger", "error", err)
	}
	audit.SetGlobal(auditLogger)
	defer auditLogger.Close()

	server := httpapi.NewServer(store, cfg, limiter, routeLimits, auditLogger)
	httpServer := httpapi.NewHTTPServer(fmt.Sprintf(":%d", cfg.HTTP.Port), cfg.HTTP, server.Handler())

	go func() {
		logger.Info("listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err.Error() != "http: Server closed" {
			logger.Fatal("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received")

	timeout := cfg.HTTP.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if err := httpapi.Shutdown(context.Background(), httpServer, timeout); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("jalapeno-api stopped")
}

// migrate opens a dedicated pool for applying goose migrations, then closes
// it; the long-lived request-serving pool is built separately by
// graphstore.NewPostgresStore.
func migrate(ctx context.Context, dbCfg config.DatabaseConfig) error {
	poolCfg, err := pgxpool.ParseConfig(dbCfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to parse migration DSN: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return fmt.Errorf("failed to open migration pool: %w", err)
	}
	defer pool.Close()

	return graphstore.RunMigrations(ctx, pool, dbCfg)
}
