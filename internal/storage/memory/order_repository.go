package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

// orderRepositoryInMemory — in-memory реализация OrderRepository.
type orderRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Order
}

// NewOrderRepository возвращает in-memory репозиторий заказов.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{
		items: make(map[string]domain.Order),
	}
}

func (r *orderRepositoryInMemory) Create(_ context.Context, order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Сохраняем копию позиций, чтобы избежать мутаций извне.
	r.items[order.ID] = cloneOrder(order)
	return nil
}

func (r *orderRepositoryInMemory) Get(_ context.Context, id string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

func (r *orderRepositoryInMemory) List(_ context.Context) ([]domain.Order, error) {
	return r.filtered(func(domain.Order) bool { return true }), nil
}

func (r *orderRepositoryInMemory) ListBySeller(_ context.Context, sellerID string) ([]domain.Order, error) {
	return r.filtered(func(o domain.Order) bool { return o.SellerID == sellerID }), nil
}

func (r *orderRepositoryInMemory) ListBySellerAndStatus(_ context.Context, sellerID string, status domain.OrderStatus) ([]domain.Order, error) {
	return r.filtered(func(o domain.Order) bool {
		return o.SellerID == sellerID && o.Status == status
	}), nil
}

func (r *orderRepositoryInMemory) Update(_ context.Context, order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[order.ID]; !ok {
		return domain.ErrOrderNotFound
	}
	r.items[order.ID] = cloneOrder(order)
	return nil
}

func (r *orderRepositoryInMemory) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.items, id)
	return nil
}

// TopCustomers группирует COMPLETED-заказы по клиенту и суммирует итоги.
func (r *orderRepositoryInMemory) TopCustomers(_ context.Context, limit int) ([]domain.CustomerSales, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	totals := make(map[string]int64)
	for _, order := range r.items {
		if order.Status != domain.OrderStatusCompleted {
			continue
		}
		totals[order.CustomerID] += order.TotalMinor
	}

	result := make([]domain.CustomerSales, 0, len(totals))
	for customerID, total := range totals {
		result = append(result, domain.CustomerSales{CustomerID: customerID, TotalMinor: total})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].TotalMinor != result[j].TotalMinor {
			return result[i].TotalMinor > result[j].TotalMinor
		}
		return result[i].CustomerID < result[j].CustomerID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// TopSellers группирует COMPLETED-заказы по продавцу и суммирует итоги.
func (r *orderRepositoryInMemory) TopSellers(_ context.Context, limit int) ([]domain.SellerSales, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	totals := make(map[string]int64)
	for _, order := range r.items {
		if order.Status != domain.OrderStatusCompleted {
			continue
		}
		totals[order.SellerID] += order.TotalMinor
	}

	result := make([]domain.SellerSales, 0, len(totals))
	for sellerID, total := range totals {
		result = append(result, domain.SellerSales{SellerID: sellerID, TotalMinor: total})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].TotalMinor != result[j].TotalMinor {
			return result[i].TotalMinor > result[j].TotalMinor
		}
		return result[i].SellerID < result[j].SellerID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *orderRepositoryInMemory) filtered(keep func(domain.Order) bool) []domain.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Order, 0)
	for _, order := range r.items {
		if keep(order) {
			result = append(result, cloneOrder(order))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result
}

func cloneOrder(order domain.Order) domain.Order {
	items := make([]domain.OrderLineItem, len(order.Items))
	copy(items, order.Items)
	order.Items = items
	if order.Customer != nil {
		customer := *order.Customer
		order.Customer = &customer
	}
	return order
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
