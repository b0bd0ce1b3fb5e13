package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/finbooks/erpledger/internal/adapter/http/handler"
	"github.com/finbooks/erpledger/internal/adapter/http/middleware"
	"github.com/finbooks/erpledger/internal/infrastructure/metrics"
	"github.com/finbooks/erpledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler     *handler.AccountHandler
	TransactionHandler *handler.TransactionHandler
	PeriodHandler      *handler.PeriodHandler
	JournalHandler     *handler.JournalHandler
	SequenceHandler    *handler.SequenceHandler
	HealthHandler      *handler.HealthHandler
	IdempotencyStore   usecase.IdempotencyStore
	IdempotencyTTL     time.Duration
	Logger             zerolog.Logger
	Metrics            *metrics.Metrics
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.NewRecoveryMiddleware(cfg.Logger).Wrap)

	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}

	// Health and telemetry endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Chart of accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{code}", cfg.AccountHandler.Get)
			r.Get("/{code}/balance", cfg.AccountHandler.Balance)
			r.Get("/{code}/opening-balance", cfg.AccountHandler.OpeningBalance)
			r.Get("/{code}/turnover", cfg.AccountHandler.Turnover)
		})

		// Transactions
		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", cfg.TransactionHandler.Create)
			r.Get("/", cfg.TransactionHandler.List)
			r.Get("/number/{number}", cfg.TransactionHandler.GetByNumber)
			r.Get("/{id}", cfg.TransactionHandler.Get)
			r.Get("/{id}/validate", cfg.TransactionHandler.Validate)
			r.Post("/{id}/post", cfg.TransactionHandler.Post)
			r.Post("/{id}/unpost", cfg.TransactionHandler.UnPost)
		})

		// Fiscal periods
		r.Route("/periods", func(r chi.Router) {
			r.Post("/", cfg.PeriodHandler.Create)
			r.Get("/", cfg.PeriodHandler.List)
			r.Get("/check", cfg.PeriodHandler.Check)
			r.Get("/{code}", cfg.PeriodHandler.Get)
			r.Post("/{code}/open", cfg.PeriodHandler.Open)
			r.Post("/{code}/close", cfg.PeriodHandler.Close)
		})

		// Numbering sequences
		r.Route("/sequences", func(r chi.Router) {
			r.Post("/", cfg.SequenceHandler.Create)
			r.Get("/{code}", cfg.SequenceHandler.Get)
		})

		// Journal and reports
		r.Route("/journal", func(r chi.Router) {
			r.Get("/entries", cfg.JournalHandler.Entries)
			r.Get("/report", cfg.JournalHandler.Report)
			r.Get("/audit/{number}", cfg.JournalHandler.AuditTrail)
		})

		r.Get("/reports/trial-balance", cfg.JournalHandler.TrialBalance)
	})

	return r
}
