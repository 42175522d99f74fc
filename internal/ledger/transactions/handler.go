package transactions

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/contalibre/contalibre/internal/shared"
)

const defaultListLimit = 50

// Handler serves transaction posting and lookup endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// MountRoutes registers transaction endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/transactions", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.post)
		r.Get("/{id}", h.get)
		r.Delete("/{id}", h.void)
	})
}

type lineForm struct {
	AccountCode int64   `json:"account_code"`
	Debit       float64 `json:"debit"`
	Credit      float64 `json:"credit"`
}

type postForm struct {
	PeriodID        int64      `json:"period_id"`
	Date            string     `json:"date"`
	Description     string     `json:"description"`
	ReferenceNumber string     `json:"reference_number"`
	Type            string     `json:"type"`
	Ref             *uuid.UUID `json:"ref"`
	Lines           []lineForm `json:"lines"`
}

func (h *Handler) post(w http.ResponseWriter, r *http.Request) {
	userID, _ := shared.UserIDFromContext(r.Context())
	var form postForm
	if err := shared.DecodeJSON(r, &form); err != nil {
		shared.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_payload"})
		return
	}
	date, err := time.Parse("2006-01-02", form.Date)
	if err != nil {
		shared.WriteJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "invalid_date"})
		return
	}
	in := ProposalInput{
		PeriodID:        form.PeriodID,
		Date:            date,
		Description:     form.Description,
		ReferenceNumber: form.ReferenceNumber,
		Type:            TransactionType(form.Type),
		Lines:           make([]LineInput, 0, len(form.Lines)),
	}
	if in.Type == "" {
		in.Type = TypeDiario
	}
	if form.Ref != nil {
		in.Ref = *form.Ref
	}
	for _, line := range form.Lines {
		in.Lines = append(in.Lines, LineInput{
			AccountCode: line.AccountCode,
			Debit:       line.Debit,
			Credit:      line.Credit,
		})
	}
	entry, err := h.service.Post(r.Context(), userID, in)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, entry)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, _ := shared.UserIDFromContext(r.Context())
	periodID, err := strconv.ParseInt(r.URL.Query().Get("period_id"), 10, 64)
	if err != nil || periodID <= 0 {
		shared.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "period_id_required"})
		return
	}
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	list, err := h.service.ListRecent(r.Context(), userID, periodID, limit)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"transactions": list})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	userID, _ := shared.UserIDFromContext(r.Context())
	transactionID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || transactionID <= 0 {
		shared.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_id"})
		return
	}
	entry, err := h.service.Get(r.Context(), userID, transactionID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, entry)
}

func (h *Handler) void(w http.ResponseWriter, r *http.Request) {
	userID, _ := shared.UserIDFromContext(r.Context())
	transactionID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || transactionID <= 0 {
		shared.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_id"})
		return
	}
	if err := h.service.Void(r.Context(), userID, transactionID); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "voided"})
}
