package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/pocketsage/internal/cache"
	"github.com/mmynk/pocketsage/internal/config"
	"github.com/mmynk/pocketsage/internal/metrics"
	"github.com/mmynk/pocketsage/internal/middleware"
	"github.com/mmynk/pocketsage/internal/rpc"
	"github.com/mmynk/pocketsage/internal/service"
	"github.com/mmynk/pocketsage/internal/storage/sqlite"
	"github.com/mmynk/pocketsage/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	slog.SetDefault(slog.New(logging.NewHandler(os.Stderr, logging.LevelFromString(cfg.LogLevel), cfg.LogFormat)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	projections, closeCache := newCache(ctx, cfg)
	defer closeCache()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	interceptors := connect.WithInterceptors(middleware.LoggingInterceptor(), middleware.MetricsInterceptor(m))

	mux := http.NewServeMux()

	// Register Connect services
	debtPath, debtHandler := rpc.NewDebtServiceHandler(service.NewDebtService(store, cfg, projections, m), interceptors)
	mux.Handle(debtPath, debtHandler)

	habitPath, habitHandler := rpc.NewHabitServiceHandler(service.NewHabitService(store), interceptors)
	mux.Handle(habitPath, habitHandler)

	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Add CORS middleware
	handler := corsMiddleware(mux)

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		slog.Info("Shutting down")
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Shutdown failed", "error", err)
		}
	}()

	slog.Info("Connect server starting",
		"address", server.Addr,
		"max_schedule_months", cfg.MaxScheduleMonths,
		"payment_modes", cfg.Modes(),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// newCache connects to Redis when configured and falls back to the in-memory cache otherwise.
func newCache(ctx context.Context, cfg config.Config) (cache.Cache, func()) {
	if cfg.RedisAddr == "" {
		slog.Info("Using in-memory projection cache", "ttl", cfg.CacheTTL)
		return cache.NewMemoryCache(), func() {}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rc, err := cache.NewRedisCache(pingCtx, cfg.RedisAddr)
	if err != nil {
		slog.Warn("Redis unavailable, using in-memory projection cache", "error", err)
		return cache.NewMemoryCache(), func() {}
	}
	slog.Info("Using Redis projection cache", "address", cfg.RedisAddr, "ttl", cfg.CacheTTL)
	return rc, func() { rc.Close() }
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
