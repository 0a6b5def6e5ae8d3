package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

// productRepositoryInMemory — in-memory реализация ProductRepository.
// Один mutex на весь каталог даёт ту же дисциплину единственного писателя
// на товар, что и условное обновление в PostgreSQL.
type productRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Product
}

// NewProductRepository возвращает in-memory репозиторий каталога.
func NewProductRepository() domain.ProductRepository {
	return &productRepositoryInMemory{
		items: make(map[string]domain.Product),
	}
}

func (r *productRepositoryInMemory) Create(_ context.Context, product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[product.ID] = product
	return nil
}

func (r *productRepositoryInMemory) Get(_ context.Context, id string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.items[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

func (r *productRepositoryInMemory) List(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Product, 0, len(r.items))
	for _, product := range r.items {
		result = append(result, product)
	}
	sortProducts(result)
	return result, nil
}

// Search ищет по подстроке имени без учёта регистра.
func (r *productRepositoryInMemory) Search(_ context.Context, text string, limit int) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(text))
	result := make([]domain.Product, 0)
	for _, product := range r.items {
		if needle == "" || strings.Contains(strings.ToLower(product.Name), needle) {
			result = append(result, product)
		}
	}
	sortProducts(result)

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *productRepositoryInMemory) Update(_ context.Context, product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[product.ID]; !ok {
		return domain.ErrProductNotFound
	}
	r.items[product.ID] = product
	return nil
}

func (r *productRepositoryInMemory) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.items, id)
	return nil
}

// AdjustStock применяет движения остатка в два этапа под одним mutex:
// сначала проверяет выполнимость всех списаний, затем применяет изменения.
// При отказе любой позиции остатки не меняются.
func (r *productRepositoryInMemory) AdjustStock(_ context.Context, deltas []domain.StockDelta) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Фаза проверки: ни одного изменения до полной уверенности.
	for _, d := range deltas {
		product, ok := r.items[d.ProductID]
		if !ok {
			return domain.ErrProductNotFound
		}
		if d.Delta > 0 && product.AvailableQty < d.Delta {
			return &domain.OutOfStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   d.Delta,
				Available:   product.AvailableQty,
			}
		}
	}

	now := time.Now().UTC()
	for _, d := range deltas {
		product := r.items[d.ProductID]
		product.AvailableQty -= d.Delta
		product.UpdatedAt = now
		r.items[d.ProductID] = product
	}
	return nil
}

func sortProducts(products []domain.Product) {
	sort.Slice(products, func(i, j int) bool {
		if products[i].Name != products[j].Name {
			return products[i].Name < products[j].Name
		}
		return products[i].ID < products[j].ID
	})
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
