package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lexconsult/marketplace/internal/accounts"
	"github.com/lexconsult/marketplace/internal/api/router"
	"github.com/lexconsult/marketplace/internal/app/bootstrap"
	"github.com/lexconsult/marketplace/internal/backend"
	"github.com/lexconsult/marketplace/internal/booking"
	appconfig "github.com/lexconsult/marketplace/internal/config"
	"github.com/lexconsult/marketplace/internal/directory"
	httpmiddleware "github.com/lexconsult/marketplace/internal/http/middleware"
	"github.com/lexconsult/marketplace/internal/observability/metrics"
	"github.com/lexconsult/marketplace/internal/payments"
	"github.com/lexconsult/marketplace/pkg/logging"
)

type appMetrics struct {
	booking  *metrics.BookingMetrics
	backend  *metrics.BackendMetrics
	payments *metrics.PaymentMetrics
}

func setupMetrics() (http.Handler, *appMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := &appMetrics{
		booking:  metrics.NewBookingMetrics(reg),
		backend:  metrics.NewBackendMetrics(reg),
		payments: metrics.NewPaymentMetrics(reg),
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}), m
}

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting marketplace API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"backend", cfg.BackendBaseURL,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metricsHandler, m := setupMetrics()
	checks := map[string]router.HealthCheck{}

	// Storage
	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	pool := bootstrap.BuildPostgresPool(ctx, cfg, logger)
	if pool != nil {
		defer pool.Close()
	}
	lawyers := bootstrap.BuildDirectorySource(pool, logger)
	if pg, ok := lawyers.(*directory.PostgresSource); ok {
		checks["postgres"] = pg.Ping
	}

	// Booking
	loc, err := cfg.Location()
	if err != nil {
		logger.Warn("invalid booking timezone, using UTC", "timezone", cfg.BookingTimezone, "error", err)
	}
	sessions := bootstrap.BuildSessionStore(redisClient, logger)
	if mem, ok := sessions.(*booking.MemoryStore); ok {
		go mem.Run(ctx, time.Minute)
	}
	schedules := bootstrap.BuildScheduleSource(cfg)
	bookingService := booking.NewService(sessions, schedules, booking.Options{
		Policy:     booking.ParseWeekPolicy(cfg.BookingWeekPolicy),
		SessionTTL: cfg.BookingSessionTTL,
		Location:   loc,
		FormPath:   cfg.BookingFormPath,
		Metrics:    m.booking,
	}, logger)

	// Backend-facing pages
	backendClient := backend.NewClient(cfg.BackendBaseURL, cfg.BackendTimeout, m.backend, logger)
	accountsHandler := accounts.NewHandler(
		accounts.NewConfirmer(backendClient, logger),
		accounts.NewSignup(backendClient, logger),
		logger,
	)
	paymentCallback := payments.NewCallbackHandler(
		payments.NewCompleter(backendClient, m.payments, logger),
		cfg.DashboardPath,
		logger,
	)

	limiter := httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Run(ctx, 5*time.Minute)

	// Setup router
	r := router.New(&router.Config{
		Logger:             logger,
		BookingHandler:     booking.NewHandler(bookingService, logger),
		DirectoryHandler:   directory.NewHandler(lawyers, logger),
		AccountsHandler:    accountsHandler,
		PaymentCallback:    paymentCallback,
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:        limiter,
		HealthChecks:       checks,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.BackendTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
