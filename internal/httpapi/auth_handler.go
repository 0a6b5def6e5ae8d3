package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vladislavdragonenkov/crm/internal/service/identity"
)

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// AuthHandler обслуживает регистрацию, вход и текущую учётную запись.
type AuthHandler struct {
	Identity *identity.Service
}

func (h *AuthHandler) Register(r *chi.Mux) {
	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)
	r.Get("/me", h.me)
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	created, err := h.Identity.Register(r.Context(), identity.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Surname:  req.Surname,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toIdentityResponse(created))
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	token, err := h.Identity.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	seller, err := h.Identity.Current(r.Context(), IdentityFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSellerResponse(seller))
}
