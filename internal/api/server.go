// Package api implements the HTTP layer for KerbScan. Handlers are methods on
// *Server. Each handler file is responsible for one resource group and only
// imports the dependencies it actually uses.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/kerbscan/kerbscan-backend/internal/db"
	"github.com/kerbscan/kerbscan-backend/internal/email"
	"github.com/kerbscan/kerbscan-backend/internal/store"
	stripeinternal "github.com/kerbscan/kerbscan-backend/internal/stripe"
	"github.com/kerbscan/kerbscan-backend/internal/worker"
)

// Config holds values read from environment variables at startup.
type Config struct {
	// BaseURL is the frontend origin, used for the report access link in
	// emails and as the allowed CORS origin in production.
	// e.g. "https://app.kerbscan.com.au"
	BaseURL string

	// StripeWebhookSecret is the signing secret from the Stripe dashboard.
	StripeWebhookSecret string

	// ReportPriceCents is the one-time report price in AUD cents, e.g. 1900.
	ReportPriceCents int64

	// Env is "production", "staging", or "development".
	Env string
}

// Server holds all shared dependencies. Each handler file attaches methods to
// this type and uses only the fields it needs.
type Server struct {
	// q handles all single-query reads. Injected directly — no repo wrapper.
	q db.Querier

	// store handles multi-step atomic writes.
	store *store.Store

	// stripe creates PaymentIntents and verifies webhook signatures.
	stripe stripeinternal.Client

	// worker enqueues report generation jobs after payment confirmation.
	worker worker.Enqueuer

	// mailer sends transactional emails (receipt + report delivery).
	mailer email.Sender

	cfg    Config
	logger *slog.Logger
}

// NewServer constructs the Server and wires the chi router. The returned
// http.Handler is ready to pass to http.ListenAndServe.
func NewServer(
	q db.Querier,
	st *store.Store,
	stripeClient stripeinternal.Client,
	enqueuer worker.Enqueuer,
	mailer email.Sender,
	cfg Config,
	logger *slog.Logger,
) http.Handler {
	s := &Server{
		q:      q,
		store:  st,
		stripe: stripeClient,
		worker: enqueuer,
		mailer: mailer,
		cfg:    cfg,
		logger: logger,
	}

	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// ── Global middleware ─────────────────────────────────────────────────────
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(s.corsOptions()))
	r.Use(middleware.Timeout(30 * time.Second))

	// ── Health ────────────────────────────────────────────────────────────────
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// ── API v1 ────────────────────────────────────────────────────────────────
	r.Route("/api", func(r chi.Router) {

		// Scans — no auth required (anonymous creation).
		r.Post("/scan", s.handleCreateScan)

		// Scan-scoped routes — require valid anon_token header.
		r.Route("/scan/{scanID}", func(r chi.Router) {
			r.Use(s.requireAnonToken)
			r.Patch("/vehicle", s.handleUpdateVehicle)
			r.Put("/progress", s.handleUpsertProgress)
			r.Get("/analysis", s.handleGetAnalysis)
			r.Post("/checkout", s.handleCreateCheckout)
		})

		// Stripe webhook — no auth (signature verification inside handler).
		r.Post("/webhooks/stripe", s.handleStripeWebhook)

		// Report access — no auth (opaque access token in URL).
		r.Get("/report/{accessToken}", s.handleGetReport)
	})

	return r
}

// corsOptions restricts origins to the frontend in production and stays open
// in development so local frontends on any port can talk to the API.
func (s *Server) corsOptions() cors.Options {
	allowed := []string{"*"}
	if s.cfg.Env == "production" && s.cfg.BaseURL != "" {
		allowed = []string{s.cfg.BaseURL}
	}

	return cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Anon-Token", "X-Request-ID"},
		MaxAge:         86400,
	}
}
