package httpapi

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vladislavdragonenkov/crm/internal/auth"
	"github.com/vladislavdragonenkov/crm/internal/service/catalog"
	"github.com/vladislavdragonenkov/crm/internal/service/customer"
	"github.com/vladislavdragonenkov/crm/internal/service/identity"
	"github.com/vladislavdragonenkov/crm/internal/service/order"
	"github.com/vladislavdragonenkov/crm/internal/service/report"
)

// Services — сервисный слой, который обслуживает роутер.
type Services struct {
	Identity *identity.Service
	Catalog  *catalog.Service
	Customer *customer.Service
	Order    *order.Service
	Report   *report.Service
}

// NewRouter собирает chi-роутер со всеми ресурсами API.
func NewRouter(resolver *auth.Resolver, services Services) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Use(IdentityMiddleware(resolver))

	(&AuthHandler{Identity: services.Identity}).Register(r)
	(&ProductsHandler{Catalog: services.Catalog}).Register(r)
	(&CustomersHandler{Customers: services.Customer}).Register(r)
	(&OrdersHandler{Orders: services.Order}).Register(r)
	(&ReportsHandler{Reports: services.Report}).Register(r)

	return r
}
