package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/vladislavdragonenkov/crm/internal/domain"
	"github.com/vladislavdragonenkov/crm/internal/service/catalog"
)

type productRequest struct {
	Name         string `json:"name"`
	PriceMinor   int64  `json:"price_minor"`
	AvailableQty int64  `json:"available_qty"`
}

func (req productRequest) toInput() catalog.ProductInput {
	return catalog.ProductInput{
		Name:         req.Name,
		PriceMinor:   req.PriceMinor,
		AvailableQty: req.AvailableQty,
	}
}

// ProductsHandler обслуживает общий каталог товаров.
// Чтение публично, запись требует аутентификации.
type ProductsHandler struct {
	Catalog *catalog.Service
}

func (h *ProductsHandler) Register(r *chi.Mux) {
	r.Get("/products", h.list)
	r.Get("/products/search", h.search)
	r.Get("/products/{id}", h.get)
	r.Post("/products", h.create)
	r.Put("/products/{id}", h.update)
	r.Delete("/products/{id}", h.delete)
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	products, err := h.Catalog.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lo.Map(products, func(p domain.Product, _ int) productResponse {
		return toProductResponse(p)
	}))
}

func (h *ProductsHandler) search(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	products, err := h.Catalog.Search(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lo.Map(products, func(p domain.Product, _ int) productResponse {
		return toProductResponse(p)
	}))
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	product, err := h.Catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	product, err := h.Catalog.Create(r.Context(), IdentityFromContext(r.Context()), req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toProductResponse(product))
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	product, err := h.Catalog.Update(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.Delete(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
