package customer

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/crm/internal/auth"
	"github.com/vladislavdragonenkov/crm/internal/domain"
)

// CustomerInput — данные для создания или обновления клиента.
// Владелец в input не передаётся: он фиксируется при создании.
type CustomerInput struct {
	Name    string
	Surname string
	Company string
	Email   string
	Phone   string
}

// Service управляет клиентами продавцов. Каждая запись принадлежит
// создавшему её продавцу; чужие записи недоступны ни на чтение, ни на запись.
type Service struct {
	customers domain.CustomerRepository
	logger    *log.Entry
	now       func() time.Time
}

// NewService создаёт сервис клиентов.
func NewService(customers domain.CustomerRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "customer")
	}
	return &Service{
		customers: customers,
		logger:    logger,
		now:       time.Now,
	}
}

// Create заводит клиента и закрепляет его за вызывающим продавцом.
func (s *Service) Create(ctx context.Context, identity *domain.Identity, input CustomerInput) (domain.Customer, error) {
	if err := auth.Require(identity); err != nil {
		return domain.Customer{}, err
	}

	now := s.now().UTC()
	customer := domain.Customer{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(input.Name),
		Surname:   strings.TrimSpace(input.Surname),
		Company:   strings.TrimSpace(input.Company),
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:     strings.TrimSpace(input.Phone),
		SellerID:  identity.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if verr := domain.NewValidationError(customer.ValidateInvariants()); verr != nil {
		return domain.Customer{}, verr
	}

	if err := s.customers.Create(ctx, customer); err != nil {
		return domain.Customer{}, err
	}

	s.logger.WithFields(log.Fields{
		"customer_id": customer.ID,
		"seller_id":   customer.SellerID,
	}).Info("customer created")
	return customer, nil
}

// Get возвращает клиента; доступ есть только у владельца.
func (s *Service) Get(ctx context.Context, identity *domain.Identity, id string) (domain.Customer, error) {
	if err := auth.Require(identity); err != nil {
		return domain.Customer{}, err
	}

	customer, err := s.customers.Get(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if err := auth.Authorize(identity, customer); err != nil {
		return domain.Customer{}, err
	}

	return customer, nil
}

// List возвращает всех клиентов. Для чтения списка достаточно
// аутентификации; проверка владения действует на операциях по id.
func (s *Service) List(ctx context.Context, identity *domain.Identity) ([]domain.Customer, error) {
	if err := auth.Require(identity); err != nil {
		return nil, err
	}
	return s.customers.List(ctx)
}

// ListMine возвращает клиентов вызывающего продавца.
// Фильтрация по владельцу выполняется на стороне хранилища.
func (s *Service) ListMine(ctx context.Context, identity *domain.Identity) ([]domain.Customer, error) {
	if err := auth.Require(identity); err != nil {
		return nil, err
	}
	return s.customers.ListBySeller(ctx, identity.ID)
}

// Update заменяет атрибуты клиента. Владелец не меняется.
func (s *Service) Update(ctx context.Context, identity *domain.Identity, id string, input CustomerInput) (domain.Customer, error) {
	if err := auth.Require(identity); err != nil {
		return domain.Customer{}, err
	}

	customer, err := s.customers.Get(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if err := auth.Authorize(identity, customer); err != nil {
		return domain.Customer{}, err
	}

	customer.Name = strings.TrimSpace(input.Name)
	customer.Surname = strings.TrimSpace(input.Surname)
	customer.Company = strings.TrimSpace(input.Company)
	customer.Email = strings.ToLower(strings.TrimSpace(input.Email))
	customer.Phone = strings.TrimSpace(input.Phone)
	customer.UpdatedAt = s.now().UTC()

	if verr := domain.NewValidationError(customer.ValidateInvariants()); verr != nil {
		return domain.Customer{}, verr
	}

	if err := s.customers.Update(ctx, customer); err != nil {
		return domain.Customer{}, err
	}

	return customer, nil
}

// Delete удаляет клиента владельца.
func (s *Service) Delete(ctx context.Context, identity *domain.Identity, id string) error {
	if err := auth.Require(identity); err != nil {
		return err
	}

	customer, err := s.customers.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.Authorize(identity, customer); err != nil {
		return err
	}

	if err := s.customers.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.WithField("customer_id", id).Info("customer deleted")
	return nil
}
