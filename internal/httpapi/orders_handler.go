package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vladislavdragonenkov/crm/internal/domain"
	"github.com/vladislavdragonenkov/crm/internal/service/order"
)

type orderItemRequest struct {
	ProductID string `json:"product_id"`
	Qty       int32  `json:"qty"`
}

type createOrderRequest struct {
	CustomerID string             `json:"customer_id"`
	Items      []orderItemRequest `json:"items"`
}

func (req createOrderRequest) toInput() order.CreateInput {
	input := order.CreateInput{CustomerID: req.CustomerID}
	for _, item := range req.Items {
		input.Items = append(input.Items, order.LineInput{ProductID: item.ProductID, Qty: item.Qty})
	}
	return input
}

type updateOrderRequest struct {
	CustomerID string             `json:"customer_id"`
	Items      []orderItemRequest `json:"items"`
	Status     string             `json:"status"`
}

func (req updateOrderRequest) toInput() order.UpdateInput {
	input := order.UpdateInput{
		CustomerID: req.CustomerID,
		Status:     domain.OrderStatus(req.Status),
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, order.LineInput{ProductID: item.ProductID, Qty: item.Qty})
	}
	return input
}

// OrdersHandler обслуживает заказы.
type OrdersHandler struct {
	Orders *order.Service
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Get("/orders", h.list)
	r.Get("/orders/mine", h.listMine)
	r.Get("/orders/mine/status/{status}", h.listMineByStatus)
	r.Get("/orders/{id}", h.get)
	r.Post("/orders", h.create)
	r.Put("/orders/{id}", h.update)
	r.Delete("/orders/{id}", h.delete)
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.List(r.Context(), IdentityFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

func (h *OrdersHandler) listMine(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListMine(r.Context(), IdentityFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

func (h *OrdersHandler) listMineByStatus(w http.ResponseWriter, r *http.Request) {
	status := domain.OrderStatus(chi.URLParam(r, "status"))

	orders, err := h.Orders.ListMineByStatus(r.Context(), IdentityFromContext(r.Context()), status)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	found, err := h.Orders.Get(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(found))
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	created, err := h.Orders.Create(r.Context(), IdentityFromContext(r.Context()), req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(created))
}

func (h *OrdersHandler) update(w http.ResponseWriter, r *http.Request) {
	var req updateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	updated, err := h.Orders.Update(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(updated))
}

func (h *OrdersHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Orders.Delete(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
