package periods

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/contalibre/contalibre/internal/shared"
)

// ClosingStatusSource reports which periods have an active closing
// transaction.
type ClosingStatusSource interface {
	ClosingStatus(ctx context.Context, userID int64, periodIDs []int64) (map[int64]bool, error)
}

// Handler serves period management endpoints.
type Handler struct {
	service *Service
	closing ClosingStatusSource
}

func NewHandler(service *Service, closing ClosingStatusSource) *Handler {
	return &Handler{service: service, closing: closing}
}

// MountRoutes registers period endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/periods", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/current", h.current)
		r.Get("/{id}", h.get)
	})
}

type createPeriodForm struct {
	Name     string `json:"name"`
	StartsAt string `json:"starts_at"`
	EndsAt   string `json:"ends_at"`
}

type periodView struct {
	Period
	IsClosed bool `json:"is_closed"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, _ := shared.UserIDFromContext(r.Context())
	list, err := h.service.List(r.Context(), userID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	ids := make([]int64, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.ID)
	}
	closed, err := h.closing.ClosingStatus(r.Context(), userID, ids)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	out := make([]periodView, 0, len(list))
	for _, p := range list {
		out = append(out, periodView{Period: p, IsClosed: closed[p.ID]})
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"periods": out})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, _ := shared.UserIDFromContext(r.Context())
	var form createPeriodForm
	if err := shared.DecodeJSON(r, &form); err != nil {
		shared.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_payload"})
		return
	}
	startsAt, err := time.Parse("2006-01-02", form.StartsAt)
	if err != nil {
		shared.WriteJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "invalid_start_date"})
		return
	}
	endsAt, err := time.Parse("2006-01-02", form.EndsAt)
	if err != nil {
		shared.WriteJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "invalid_end_date"})
		return
	}
	period, err := h.service.Create(r.Context(), userID, form.Name, startsAt, endsAt)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, period)
}

func (h *Handler) current(w http.ResponseWriter, r *http.Request) {
	userID, _ := shared.UserIDFromContext(r.Context())
	period, err := h.service.EnsureCurrent(r.Context(), userID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	closed, err := h.closing.ClosingStatus(r.Context(), userID, []int64{period.ID})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, periodView{Period: period, IsClosed: closed[period.ID]})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	userID, _ := shared.UserIDFromContext(r.Context())
	periodID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || periodID <= 0 {
		shared.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_id"})
		return
	}
	period, err := h.service.Get(r.Context(), userID, periodID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	closed, err := h.closing.ClosingStatus(r.Context(), userID, []int64{period.ID})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, periodView{Period: period, IsClosed: closed[period.ID]})
}
