package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

// customerRepositoryInMemory — in-memory реализация CustomerRepository.
type customerRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Customer
}

// NewCustomerRepository возвращает in-memory репозиторий клиентов.
func NewCustomerRepository() domain.CustomerRepository {
	return &customerRepositoryInMemory{
		items: make(map[string]domain.Customer),
	}
}

// Create сохраняет клиента, если email ещё не занят.
func (r *customerRepositoryInMemory) Create(_ context.Context, customer domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTakenLocked(customer.Email, "") {
		return domain.ErrCustomerExists
	}
	r.items[customer.ID] = customer
	return nil
}

func (r *customerRepositoryInMemory) Get(_ context.Context, id string) (domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, ok := r.items[id]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return customer, nil
}

func (r *customerRepositoryInMemory) List(_ context.Context) ([]domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Customer, 0, len(r.items))
	for _, customer := range r.items {
		result = append(result, customer)
	}
	sortCustomers(result)
	return result, nil
}

// ListBySeller отдаёт только записи владельца — фильтрация на стороне хранилища.
func (r *customerRepositoryInMemory) ListBySeller(_ context.Context, sellerID string) ([]domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Customer, 0)
	for _, customer := range r.items {
		if customer.SellerID == sellerID {
			result = append(result, customer)
		}
	}
	sortCustomers(result)
	return result, nil
}

func (r *customerRepositoryInMemory) Update(_ context.Context, customer domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[customer.ID]; !ok {
		return domain.ErrCustomerNotFound
	}
	if r.emailTakenLocked(customer.Email, customer.ID) {
		return domain.ErrCustomerExists
	}
	r.items[customer.ID] = customer
	return nil
}

func (r *customerRepositoryInMemory) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrCustomerNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *customerRepositoryInMemory) emailTakenLocked(email, exceptID string) bool {
	for _, existing := range r.items {
		if existing.ID != exceptID && strings.EqualFold(existing.Email, email) {
			return true
		}
	}
	return false
}

func sortCustomers(customers []domain.Customer) {
	sort.Slice(customers, func(i, j int) bool {
		return customers[i].ID < customers[j].ID
	})
}

var _ domain.CustomerRepository = (*customerRepositoryInMemory)(nil)
