package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/contalibre/contalibre/internal/auth"
	"github.com/contalibre/contalibre/internal/dashboard"
	"github.com/contalibre/contalibre/internal/ledger/catalog"
	"github.com/contalibre/contalibre/internal/ledger/closing"
	"github.com/contalibre/contalibre/internal/ledger/periods"
	"github.com/contalibre/contalibre/internal/ledger/transactions"
	"github.com/contalibre/contalibre/internal/observability"
	reporthttp "github.com/contalibre/contalibre/internal/reports/http"
	"github.com/contalibre/contalibre/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	TokenIssuer *auth.TokenIssuer

	AuthHandler        *auth.Handler
	CatalogHandler     *catalog.Handler
	PeriodHandler      *periods.Handler
	TransactionHandler *transactions.Handler
	ClosingHandler     *closing.Handler
	ReportHandler      *reporthttp.Handler
	DashboardHandler   *dashboard.Handler
	JobHandler         *jobs.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router. Everything under /api/v1 except
// /auth requires a bearer token.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", params.AuthHandler.Routes())

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser(params.TokenIssuer))
			params.CatalogHandler.MountRoutes(r)
			params.PeriodHandler.MountRoutes(r)
			params.TransactionHandler.MountRoutes(r)
			params.ClosingHandler.MountRoutes(r)
			params.ReportHandler.MountRoutes(r)
			params.DashboardHandler.MountRoutes(r)
		})
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
