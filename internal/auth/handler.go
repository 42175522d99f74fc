package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/contalibre/contalibre/internal/shared"
)

type registerForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Handler exposes registration and login endpoints.
type Handler struct {
	service  *Service
	issuer   *TokenIssuer
	validate *validator.Validate
}

func NewHandler(service *Service, issuer *TokenIssuer) *Handler {
	return &Handler{service: service, issuer: issuer, validate: validator.New()}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	return r
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var form registerForm
	if err := shared.DecodeJSON(r, &form); err != nil {
		shared.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_payload"})
		return
	}
	if err := h.validate.Struct(form); err != nil {
		shared.WriteJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "invalid_form"})
		return
	}
	user, err := h.service.Register(r.Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			shared.WriteJSON(w, http.StatusConflict, map[string]string{"error": "email_taken"})
			return
		}
		shared.WriteError(w, err)
		return
	}
	token, err := h.issuer.Issue(user.ID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, map[string]any{
		"token": token,
		"user":  map[string]any{"id": user.ID, "email": user.Email},
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	if err := shared.DecodeJSON(r, &form); err != nil {
		shared.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_payload"})
		return
	}
	if err := h.validate.Struct(form); err != nil {
		shared.WriteError(w, shared.ErrInvalidCredentials)
		return
	}
	user, err := h.service.Authenticate(r.Context(), form.Email, form.Password)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	token, err := h.issuer.Issue(user.ID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  map[string]any{"id": user.ID, "email": user.Email},
	})
}
