package report

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/crm/internal/auth"
	"github.com/vladislavdragonenkov/crm/internal/domain"
	"github.com/vladislavdragonenkov/crm/internal/redisx"
)

// Лимиты рейтингов по умолчанию.
const (
	TopCustomersLimit = 10
	TopSellersLimit   = 3
)

// Service строит отчёты по закрытым продажам. Отчёты агрегируют только
// COMPLETED-заказы; для чтения достаточно аутентификации, проверки
// владения нет. Redis-кеш опционален.
type Service struct {
	orders    domain.OrderRepository
	customers domain.CustomerRepository
	sellers   domain.SellerRepository
	cache     *redis.Client // опциональный кеш рейтингов
	logger    *log.Entry
}

// NewService создаёт отчётный сервис без кеша.
func NewService(
	orders domain.OrderRepository,
	customers domain.CustomerRepository,
	sellers domain.SellerRepository,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "report")
	}
	return &Service{
		orders:    orders,
		customers: customers,
		sellers:   sellers,
		logger:    logger,
	}
}

// NewServiceWithCache создаёт отчётный сервис с Redis-кешем рейтингов.
func NewServiceWithCache(
	orders domain.OrderRepository,
	customers domain.CustomerRepository,
	sellers domain.SellerRepository,
	cache *redis.Client,
	logger *log.Entry,
) *Service {
	svc := NewService(orders, customers, sellers, logger)
	svc.cache = cache
	return svc
}

// TopCustomers возвращает клиентов с наибольшей суммой закрытых продаж,
// по убыванию суммы. Равные суммы упорядочены по id.
func (s *Service) TopCustomers(ctx context.Context, identity *domain.Identity, limit int) ([]domain.CustomerSales, error) {
	if err := auth.Require(identity); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = TopCustomersLimit
	}

	cacheKey := fmt.Sprintf(redisx.KeyTopCustomers, limit)
	var cached []domain.CustomerSales
	if s.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	sales, err := s.orders.TopCustomers(ctx, limit)
	if err != nil {
		return nil, err
	}

	// Дополняем строки рейтинга снимками клиентов для отображения.
	sales = lo.Map(sales, func(row domain.CustomerSales, _ int) domain.CustomerSales {
		customer, err := s.customers.Get(ctx, row.CustomerID)
		if err != nil {
			// Клиент мог быть удалён после закрытия продаж; строка остаётся без снимка.
			s.logger.WithError(err).WithField("customer_id", row.CustomerID).Debug("ranking row without customer snapshot")
			return row
		}
		row.Customer = &customer
		return row
	})

	s.writeCache(ctx, cacheKey, sales)
	return sales, nil
}

// TopSellers возвращает продавцов с наибольшей суммой закрытых продаж.
func (s *Service) TopSellers(ctx context.Context, identity *domain.Identity, limit int) ([]domain.SellerSales, error) {
	if err := auth.Require(identity); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = TopSellersLimit
	}

	cacheKey := fmt.Sprintf(redisx.KeyTopSellers, limit)
	var cached []domain.SellerSales
	if s.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	sales, err := s.orders.TopSellers(ctx, limit)
	if err != nil {
		return nil, err
	}

	sales = lo.Map(sales, func(row domain.SellerSales, _ int) domain.SellerSales {
		seller, err := s.sellers.Get(ctx, row.SellerID)
		if err != nil {
			s.logger.WithError(err).WithField("seller_id", row.SellerID).Debug("ranking row without seller snapshot")
			return row
		}
		identity := seller.Identity()
		row.Seller = &identity
		return row
	})

	s.writeCache(ctx, cacheKey, sales)
	return sales, nil
}

// readCache читает закешированный рейтинг; любой сбой кеша игнорируется.
func (s *Service) readCache(ctx context.Context, key string, out interface{}) bool {
	if s.cache == nil {
		return false
	}

	raw, err := s.cache.Get(ctx, key).Result()
	if err != nil || raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("corrupted report cache entry, ignoring")
		return false
	}
	return true
}

func (s *Service) writeCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, redisx.TTLReportCache).Err(); err != nil {
		s.logger.WithError(err).WithField("key", key).Debug("failed to cache report")
	}
}
