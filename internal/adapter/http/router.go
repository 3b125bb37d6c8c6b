package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/bookledger/internal/adapter/http/handler"
	"github.com/iho/bookledger/internal/adapter/http/middleware"
	"github.com/iho/bookledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler   *handler.AccountHandler
	CustomerHandler  *handler.CustomerHandler
	AgreementHandler *handler.AgreementHandler
	EventHandler     *handler.EventHandler
	EntryHandler     *handler.EntryHandler
	CatalogHandler   *handler.CatalogHandler
	LedgerHandler    *handler.LedgerHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Reference data
		r.Route("/catalog", func(r chi.Router) {
			r.Post("/currencies", cfg.CatalogHandler.CreateCurrency)
			r.Post("/account-types", cfg.CatalogHandler.CreateAccountType)
			r.Get("/account-types", cfg.CatalogHandler.ListAccountTypes)
			r.Post("/event-types", cfg.CatalogHandler.CreateEventType)
			r.Post("/entry-types", cfg.CatalogHandler.CreateEntryType)
		})

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Get("/{id}/balance", cfg.AccountHandler.GetBalance)
			r.Get("/{id}/entries", cfg.EntryHandler.ListByAccount)
		})

		// Customers
		r.Route("/customers", func(r chi.Router) {
			r.Post("/", cfg.CustomerHandler.Create)
			r.Get("/{id}", cfg.CustomerHandler.Get)
		})

		// Service agreements and posting rules
		r.Route("/agreements", func(r chi.Router) {
			r.Post("/", cfg.AgreementHandler.Create)
			r.Get("/{id}", cfg.AgreementHandler.Get)
			r.Post("/{id}/rules", cfg.AgreementHandler.AddRule)
		})

		// Accounting events
		r.Route("/events", func(r chi.Router) {
			r.Post("/", cfg.EventHandler.Record)
			r.Post("/adjustments", cfg.EventHandler.RecordAdjustment)
			r.Get("/{id}", cfg.EventHandler.Get)
			r.Post("/{id}/reverse", cfg.EventHandler.Reverse)
			r.Get("/{id}/entries", cfg.EntryHandler.ListByEvent)
		})

		// Ledger-wide checks
		r.Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)
	})

	return r
}
