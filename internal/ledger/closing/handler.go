package closing

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/contalibre/contalibre/internal/shared"
)

// Handler serves period close and reopen endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// MountRoutes registers closing endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/periods/{id}/close", h.close)
	r.Post("/periods/{id}/reopen", h.reopen)
	r.Get("/periods/{id}/closing-status", h.status)
}

func (h *Handler) close(w http.ResponseWriter, r *http.Request) {
	userID, _ := shared.UserIDFromContext(r.Context())
	periodID, err := parsePeriodID(r)
	if err != nil {
		shared.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_id"})
		return
	}
	result, err := h.service.Close(r.Context(), userID, periodID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) reopen(w http.ResponseWriter, r *http.Request) {
	userID, _ := shared.UserIDFromContext(r.Context())
	periodID, err := parsePeriodID(r)
	if err != nil {
		shared.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_id"})
		return
	}
	if err := h.service.Reopen(r.Context(), userID, periodID); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "reopened"})
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	userID, _ := shared.UserIDFromContext(r.Context())
	periodID, err := parsePeriodID(r)
	if err != nil {
		shared.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_id"})
		return
	}
	closed, err := h.service.ClosingStatus(r.Context(), userID, []int64{periodID})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"period_id": periodID,
		"is_closed": closed[periodID],
	})
}

func parsePeriodID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, strconv.ErrSyntax
	}
	return id, nil
}
