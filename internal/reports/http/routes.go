package reporthttp

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/contalibre/contalibre/internal/shared"
)

var errBadPeriodParam = errors.New("reports: period_id required")

// MountRoutes registers statement endpoints onto the router. Export
// renditions share a per-user rate limit; json reads stay unthrottled
// because they hit the balance cache.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Route("/reports", func(r chi.Router) {
		r.Group(func(gr chi.Router) {
			gr.Use(exportLimiter(limiter))
			gr.Get("/balance-sheet", h.handleBalanceSheet)
			gr.Get("/income-statement", h.handleIncomeStatement)
		})
		r.Get("/executive-summary", h.handleExecutiveSummary)
		r.Get("/accounts/{code}/ledger", h.handleTAccount)
	})
}

// exportLimiter applies the rate limit only to non-json renditions.
func exportLimiter(limit func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		limited := limit(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Query().Get("format") {
			case "", "json":
				next.ServeHTTP(w, r)
			default:
				limited.ServeHTTP(w, r)
			}
		})
	}
}

func rateLimitKey(r *http.Request) (string, error) {
	if userID, ok := shared.UserIDFromContext(r.Context()); ok {
		return "user:" + strconv.FormatInt(userID, 10), nil
	}
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}
