package dashboard

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/contalibre/contalibre/internal/shared"
)

// Handler serves the aggregated dashboard endpoint.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// MountRoutes registers the dashboard endpoint onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/dashboard", h.load)
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) {
	userID, _ := shared.UserIDFromContext(r.Context())
	var periodID int64
	if raw := r.URL.Query().Get("period_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			shared.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_period_id"})
			return
		}
		periodID = id
	}
	view, err := h.service.Load(r.Context(), userID, periodID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, view)
}
