package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/crm/internal/auth"
	"github.com/vladislavdragonenkov/crm/internal/domain"
)

// DefaultSearchLimit ограничивает выдачу поиска по каталогу.
const DefaultSearchLimit = 10

// ProductInput — данные для создания или обновления позиции каталога.
type ProductInput struct {
	Name         string
	PriceMinor   int64
	AvailableQty int64
}

// Service управляет общим каталогом товаров. Каталог общий для всех
// продавцов: операции требуют аутентификации, но не владения.
type Service struct {
	products domain.ProductRepository
	logger   *log.Entry
	now      func() time.Time
}

// NewService создаёт сервис каталога.
func NewService(products domain.ProductRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "catalog")
	}
	return &Service{
		products: products,
		logger:   logger,
		now:      time.Now,
	}
}

// Create добавляет позицию в каталог.
func (s *Service) Create(ctx context.Context, identity *domain.Identity, input ProductInput) (domain.Product, error) {
	if err := auth.Require(identity); err != nil {
		return domain.Product{}, err
	}

	now := s.now().UTC()
	product := domain.Product{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(input.Name),
		PriceMinor:   input.PriceMinor,
		AvailableQty: input.AvailableQty,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if verr := domain.NewValidationError(product.ValidateInvariants()); verr != nil {
		return domain.Product{}, verr
	}

	if err := s.products.Create(ctx, product); err != nil {
		return domain.Product{}, err
	}

	s.logger.WithField("product_id", product.ID).Info("product created")
	return product, nil
}

// Get возвращает позицию каталога по идентификатору. Чтение каталога публично.
func (s *Service) Get(ctx context.Context, id string) (domain.Product, error) {
	return s.products.Get(ctx, id)
}

// List возвращает весь каталог.
func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

// Search ищет товары по подстроке имени без учёта регистра.
// При limit <= 0 берётся DefaultSearchLimit.
func (s *Service) Search(ctx context.Context, text string, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return s.products.Search(ctx, strings.TrimSpace(text), limit)
}

// Update заменяет атрибуты позиции каталога.
func (s *Service) Update(ctx context.Context, identity *domain.Identity, id string, input ProductInput) (domain.Product, error) {
	if err := auth.Require(identity); err != nil {
		return domain.Product{}, err
	}

	product, err := s.products.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	product.Name = strings.TrimSpace(input.Name)
	product.PriceMinor = input.PriceMinor
	product.AvailableQty = input.AvailableQty
	product.UpdatedAt = s.now().UTC()

	if verr := domain.NewValidationError(product.ValidateInvariants()); verr != nil {
		return domain.Product{}, verr
	}

	if err := s.products.Update(ctx, product); err != nil {
		return domain.Product{}, err
	}

	return product, nil
}

// Delete удаляет позицию каталога.
func (s *Service) Delete(ctx context.Context, identity *domain.Identity, id string) error {
	if err := auth.Require(identity); err != nil {
		return err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.WithField("product_id", id).Info("product deleted")
	return nil
}
