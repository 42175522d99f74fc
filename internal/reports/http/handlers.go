package reporthttp

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/contalibre/contalibre/internal/ledger/balances"
	"github.com/contalibre/contalibre/internal/ledger/catalog"
	"github.com/contalibre/contalibre/internal/ledger/periods"
	"github.com/contalibre/contalibre/internal/reports"
	"github.com/contalibre/contalibre/internal/reports/export"
	"github.com/contalibre/contalibre/internal/shared"
)

const requestTimeout = 5 * time.Second

// BalanceSource reads period balances and account movements.
type BalanceSource interface {
	DetailBalances(ctx context.Context, userID, periodID int64) ([]balances.AccountBalance, error)
	RunningBalance(ctx context.Context, userID, accountCode, periodID int64) ([]balances.Entry, error)
}

// PeriodSource resolves period metadata.
type PeriodSource interface {
	Get(ctx context.Context, userID, periodID int64) (periods.Period, error)
}

// AccountSource resolves chart accounts.
type AccountSource interface {
	Resolve(ctx context.Context, code int64) (catalog.Account, error)
}

// Handler serves the financial statement endpoints. Statements support
// json, csv, pdf, and xlsx renditions selected by the format query
// parameter.
type Handler struct {
	logger   *slog.Logger
	balances BalanceSource
	periods  PeriodSource
	catalog  AccountSource
}

func NewHandler(logger *slog.Logger, balanceSrc BalanceSource, periodSrc PeriodSource, accountSrc AccountSource) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, balances: balanceSrc, periods: periodSrc, catalog: accountSrc}
}

func (h *Handler) loadPeriodBalances(r *http.Request) (periods.Period, []balances.AccountBalance, error) {
	userID, _ := shared.UserIDFromContext(r.Context())
	periodID, err := strconv.ParseInt(r.URL.Query().Get("period_id"), 10, 64)
	if err != nil || periodID <= 0 {
		return periods.Period{}, nil, errBadPeriodParam
	}
	var (
		period periods.Period
		detail []balances.AccountBalance
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		period, err = h.periods.Get(ctx, userID, periodID)
		return err
	})
	g.Go(func() error {
		var err error
		detail, err = h.balances.DetailBalances(ctx, userID, periodID)
		return err
	})
	if err := g.Wait(); err != nil {
		return periods.Period{}, nil, err
	}
	return period, detail, nil
}

func (h *Handler) handleBalanceSheet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	r = r.WithContext(ctx)

	period, detail, err := h.loadPeriodBalances(r)
	if err != nil {
		h.respondError(w, "balance sheet", err)
		return
	}
	bs := reports.BuildBalanceSheet(period.Name, detail)

	switch r.URL.Query().Get("format") {
	case "", "json":
		shared.WriteJSON(w, http.StatusOK, bs)
	case "csv":
		var buf bytes.Buffer
		if err := export.BalanceSheetCSV(&buf, bs); err != nil {
			h.respondError(w, "balance sheet csv", err)
			return
		}
		writeAttachment(w, "balance-general.csv", "text/csv; charset=utf-8", buf.Bytes())
	case "pdf":
		data, err := export.BalanceSheetPDF(bs)
		if err != nil {
			h.respondError(w, "balance sheet pdf", err)
			return
		}
		writeAttachment(w, "balance-general.pdf", "application/pdf", data)
	case "xlsx":
		data, err := export.BalanceSheetXLSX(bs)
		if err != nil {
			h.respondError(w, "balance sheet xlsx", err)
			return
		}
		writeAttachment(w, "balance-general.xlsx",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	default:
		shared.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown_format"})
	}
}

func (h *Handler) handleIncomeStatement(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	r = r.WithContext(ctx)

	period, detail, err := h.loadPeriodBalances(r)
	if err != nil {
		h.respondError(w, "income statement", err)
		return
	}
	is := reports.BuildIncomeStatement(period.Name, detail)

	switch r.URL.Query().Get("format") {
	case "", "json":
		shared.WriteJSON(w, http.StatusOK, is)
	case "csv":
		var buf bytes.Buffer
		if err := export.IncomeStatementCSV(&buf, is); err != nil {
			h.respondError(w, "income statement csv", err)
			return
		}
		writeAttachment(w, "estado-de-resultados.csv", "text/csv; charset=utf-8", buf.Bytes())
	case "pdf":
		data, err := export.IncomeStatementPDF(is)
		if err != nil {
			h.respondError(w, "income statement pdf", err)
			return
		}
		writeAttachment(w, "estado-de-resultados.pdf", "application/pdf", data)
	case "xlsx":
		data, err := export.IncomeStatementXLSX(is)
		if err != nil {
			h.respondError(w, "income statement xlsx", err)
			return
		}
		writeAttachment(w, "estado-de-resultados.xlsx",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	default:
		shared.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown_format"})
	}
}

func (h *Handler) handleExecutiveSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	r = r.WithContext(ctx)

	period, detail, err := h.loadPeriodBalances(r)
	if err != nil {
		h.respondError(w, "executive summary", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, reports.BuildExecutiveSummary(period.Name, detail))
}

func (h *Handler) handleTAccount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	r = r.WithContext(ctx)

	userID, _ := shared.UserIDFromContext(r.Context())
	code, err := strconv.ParseInt(chi.URLParam(r, "code"), 10, 64)
	if err != nil || code <= 0 {
		shared.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_account_code"})
		return
	}
	periodID, err := strconv.ParseInt(r.URL.Query().Get("period_id"), 10, 64)
	if err != nil || periodID <= 0 {
		shared.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "period_id_required"})
		return
	}
	account, err := h.catalog.Resolve(r.Context(), code)
	if err != nil {
		h.respondError(w, "t account", err)
		return
	}
	period, err := h.periods.Get(r.Context(), userID, periodID)
	if err != nil {
		h.respondError(w, "t account", err)
		return
	}
	entries, err := h.balances.RunningBalance(r.Context(), userID, code, periodID)
	if err != nil {
		h.respondError(w, "t account", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, reports.BuildTAccount(account, period.Name, entries))
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	if err == errBadPeriodParam {
		shared.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "period_id_required"})
		return
	}
	h.logger.Error(op, slog.Any("error", err))
	shared.WriteError(w, err)
}

func writeAttachment(w http.ResponseWriter, filename, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}
