package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/vladislavdragonenkov/crm/internal/domain"
	"github.com/vladislavdragonenkov/crm/internal/service/report"
)

// ReportsHandler обслуживает отчёты по продажам.
type ReportsHandler struct {
	Reports *report.Service
}

func (h *ReportsHandler) Register(r *chi.Mux) {
	r.Get("/reports/top-customers", h.topCustomers)
	r.Get("/reports/top-sellers", h.topSellers)
}

func (h *ReportsHandler) topCustomers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Reports.TopCustomers(r.Context(), IdentityFromContext(r.Context()), limitParam(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lo.Map(rows, func(row domain.CustomerSales, _ int) customerSalesResponse {
		return toCustomerSalesResponse(row)
	}))
}

func (h *ReportsHandler) topSellers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Reports.TopSellers(r.Context(), IdentityFromContext(r.Context()), limitParam(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lo.Map(rows, func(row domain.SellerSales, _ int) sellerSalesResponse {
		return toSellerSalesResponse(row)
	}))
}

// limitParam читает ?limit=; 0 означает лимит по умолчанию.
func limitParam(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return limit
}
