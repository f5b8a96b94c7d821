package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/rentledger/internal/adapter/http/handler"
	"github.com/iho/rentledger/internal/adapter/http/middleware"
	"github.com/iho/rentledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	EntryHandler     *handler.EntryHandler
	LedgerHandler    *handler.LedgerHandler
	AdvanceHandler   *handler.AdvanceHandler
	ReferenceHandler *handler.ReferenceHandler
	HealthHandler    *handler.HealthHandler

	Logger           zerolog.Logger
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	AllowedOrigins   []string
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.IdempotencyKeyHeader, middleware.ActorHeader},
		ExposedHeaders: []string{"X-Idempotency-Replay"},
		MaxAge:         300,
	}))

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
		}

		r.Route("/entries", func(r chi.Router) {
			r.Get("/", cfg.EntryHandler.List)
			r.Post("/", cfg.EntryHandler.Create)
			r.Get("/{entryID}", cfg.EntryHandler.Get)
			r.Post("/from-payment/{paymentID}", cfg.EntryHandler.FromPayment)
			r.Post("/from-expense/{expenseID}", cfg.EntryHandler.FromExpense)
		})

		r.Route("/ledger", func(r chi.Router) {
			r.Post("/recalculate", cfg.LedgerHandler.Recalculate)
			r.Get("/report", cfg.LedgerHandler.Report)
			r.Get("/consistency", cfg.LedgerHandler.CheckConsistency)
		})

		r.Route("/leases", func(r chi.Router) {
			r.Post("/", cfg.ReferenceHandler.CreateLease)
			r.Get("/{leaseID}/advance-balance", cfg.AdvanceHandler.Balance)
			r.Get("/{leaseID}/advances", cfg.AdvanceHandler.ListByLease)
			r.Post("/{leaseID}/advances", cfg.AdvanceHandler.Create)
			r.Post("/{leaseID}/apply-advances", cfg.AdvanceHandler.ApplyToLease)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/", cfg.ReferenceHandler.CreatePayment)
			r.Get("/{paymentID}", cfg.ReferenceHandler.GetPayment)
			r.Post("/{paymentID}/apply-advance", cfg.AdvanceHandler.ApplyToPayment)
		})

		r.Post("/expenses", cfg.ReferenceHandler.CreateExpense)

		r.Route("/advances", func(r chi.Router) {
			r.Get("/{advanceID}", cfg.AdvanceHandler.Get)
			r.Get("/{advanceID}/history", cfg.AdvanceHandler.History)
			r.Post("/{advanceID}/refund", cfg.AdvanceHandler.Refund)
			r.Post("/{advanceID}/transfer", cfg.AdvanceHandler.Transfer)
		})
	})

	return r
}
