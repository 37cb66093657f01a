package router

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lexconsult/marketplace/internal/accounts"
	"github.com/lexconsult/marketplace/internal/booking"
	"github.com/lexconsult/marketplace/internal/directory"
	httpmiddleware "github.com/lexconsult/marketplace/internal/http/middleware"
	"github.com/lexconsult/marketplace/internal/payments"
	"github.com/lexconsult/marketplace/pkg/logging"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	BookingHandler     *booking.Handler
	DirectoryHandler   *directory.Handler
	AccountsHandler    *accounts.Handler
	PaymentCallback    *payments.CallbackHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	RateLimiter        *httpmiddleware.RateLimiter

	// HealthChecks are run by /health, keyed by dependency name.
	HealthChecks map[string]HealthCheck
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}

	// Public endpoints (health checks, metrics, payment return)
	r.Group(func(public chi.Router) {
		public.Get("/health", healthHandler(cfg.HealthChecks))
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.PaymentCallback != nil {
			public.Get("/payments/gocardless/callback", cfg.PaymentCallback.Handle)
		}
	})

	r.Route("/api", func(api chi.Router) {
		if cfg.RateLimiter != nil {
			api.Use(httpmiddleware.RateLimit(cfg.RateLimiter, cfg.Logger))
		}
		if cfg.DirectoryHandler != nil {
			api.Mount("/lawyers", cfg.DirectoryHandler.Routes())
		}
		if cfg.BookingHandler != nil {
			api.Get("/consultation-types", cfg.BookingHandler.ListConsultationTypes)
			api.Get("/consultation-types/{type}", cfg.BookingHandler.GetConsultationType)
			api.Mount("/booking/sessions", cfg.BookingHandler.Routes())
		}
		if cfg.AccountsHandler != nil {
			api.Get("/auth/confirm", cfg.AccountsHandler.ConfirmEmail)
			api.Route("/signup", func(r chi.Router) {
				r.Post("/client", cfg.AccountsHandler.SignupClient)
				r.Post("/lawyer", cfg.AccountsHandler.SignupLawyer)
			})
		}
	})

	return r
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := "ok"
		code := http.StatusOK
		deps := make(map[string]string, len(names))
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				deps[name] = err.Error()
				status = "degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			deps[name] = "ok"
		}

		resp := map[string]any{"status": status}
		if len(deps) > 0 {
			resp["dependencies"] = deps
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
