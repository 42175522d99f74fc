package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/contalibre/contalibre/internal/shared"
)

// Handler serves read-only chart of accounts endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// MountRoutes registers catalog endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/accounts", h.list)
	r.Get("/accounts/detail", h.listDetail)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.List(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"accounts": accounts})
}

func (h *Handler) listDetail(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.ListDetail(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"accounts": accounts})
}
