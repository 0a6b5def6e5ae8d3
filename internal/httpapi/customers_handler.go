package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/vladislavdragonenkov/crm/internal/domain"
	"github.com/vladislavdragonenkov/crm/internal/service/customer"
)

type customerRequest struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

func (req customerRequest) toInput() customer.CustomerInput {
	return customer.CustomerInput{
		Name:    req.Name,
		Surname: req.Surname,
		Company: req.Company,
		Email:   req.Email,
		Phone:   req.Phone,
	}
}

// CustomersHandler обслуживает клиентов продавцов.
type CustomersHandler struct {
	Customers *customer.Service
}

func (h *CustomersHandler) Register(r *chi.Mux) {
	r.Get("/customers", h.list)
	r.Get("/customers/mine", h.listMine)
	r.Get("/customers/{id}", h.get)
	r.Post("/customers", h.create)
	r.Put("/customers/{id}", h.update)
	r.Delete("/customers/{id}", h.delete)
}

func (h *CustomersHandler) list(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Customers.List(r.Context(), IdentityFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lo.Map(customers, func(c domain.Customer, _ int) customerResponse {
		return toCustomerResponse(c)
	}))
}

func (h *CustomersHandler) listMine(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Customers.ListMine(r.Context(), IdentityFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lo.Map(customers, func(c domain.Customer, _ int) customerResponse {
		return toCustomerResponse(c)
	}))
}

func (h *CustomersHandler) get(w http.ResponseWriter, r *http.Request) {
	found, err := h.Customers.Get(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCustomerResponse(found))
}

func (h *CustomersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	created, err := h.Customers.Create(r.Context(), IdentityFromContext(r.Context()), req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCustomerResponse(created))
}

func (h *CustomersHandler) update(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	updated, err := h.Customers.Update(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCustomerResponse(updated))
}

func (h *CustomersHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Customers.Delete(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
