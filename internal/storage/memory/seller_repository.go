package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

// sellerRepositoryInMemory — простая in-memory реализация SellerRepository.
type sellerRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Seller
}

// NewSellerRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewSellerRepository() domain.SellerRepository {
	return &sellerRepositoryInMemory{
		items: make(map[string]domain.Seller),
	}
}

// Create сохраняет продавца, если email ещё не занят.
func (r *sellerRepositoryInMemory) Create(_ context.Context, seller domain.Seller) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if strings.EqualFold(existing.Email, seller.Email) {
			return domain.ErrSellerExists
		}
	}
	r.items[seller.ID] = seller
	return nil
}

// Get возвращает продавца или ErrSellerNotFound.
func (r *sellerRepositoryInMemory) Get(_ context.Context, id string) (domain.Seller, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seller, ok := r.items[id]
	if !ok {
		return domain.Seller{}, domain.ErrSellerNotFound
	}
	return seller, nil
}

// GetByEmail возвращает продавца по email или ErrSellerNotFound.
func (r *sellerRepositoryInMemory) GetByEmail(_ context.Context, email string) (domain.Seller, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, seller := range r.items {
		if strings.EqualFold(seller.Email, email) {
			return seller, nil
		}
	}
	return domain.Seller{}, domain.ErrSellerNotFound
}

var _ domain.SellerRepository = (*sellerRepositoryInMemory)(nil)
