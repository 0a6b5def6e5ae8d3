package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/crm/internal/auth"
	"github.com/vladislavdragonenkov/crm/internal/domain"
	"github.com/vladislavdragonenkov/crm/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/crm/internal/metrics"
)

// LineInput — позиция заказа на входе. Цена не передаётся:
// она фиксируется из каталога на момент оформления.
type LineInput struct {
	ProductID string
	Qty       int32
}

// CreateInput — данные для оформления заказа.
type CreateInput struct {
	CustomerID string
	Items      []LineInput
}

// UpdateInput — данные для изменения заказа. Пустые поля означают
// «не меняется»: нулевой CustomerID оставляет клиента, пустой срез
// Items — состав, пустой Status — статус.
type UpdateInput struct {
	CustomerID string
	Items      []LineInput
	Status     domain.OrderStatus
}

// Service — движок оформления заказов. Оформление резервирует сток
// атомарно: заказ либо записан вместе со списанием остатков,
// либо остатки не тронуты.
type Service struct {
	orders        domain.OrderRepository
	customers     domain.CustomerRepository
	products      domain.ProductRepository
	ledger        domain.InventoryLedger
	logger        *log.Entry
	metrics       *metrics.FulfillmentMetrics
	kafkaProducer *kafka.Producer // опциональный Kafka producer
	now           func() time.Time
}

// NewService создаёт движок заказов.
func NewService(
	orders domain.OrderRepository,
	customers domain.CustomerRepository,
	products domain.ProductRepository,
	ledger domain.InventoryLedger,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "order")
	}
	return &Service{
		orders:    orders,
		customers: customers,
		products:  products,
		ledger:    ledger,
		logger:    logger,
		metrics:   metrics.NewFulfillmentMetrics(),
		now:       time.Now,
	}
}

// NewServiceWithKafka создаёт движок заказов с Kafka producer.
func NewServiceWithKafka(
	orders domain.OrderRepository,
	customers domain.CustomerRepository,
	products domain.ProductRepository,
	ledger domain.InventoryLedger,
	kafkaProducer *kafka.Producer,
	logger *log.Entry,
) *Service {
	svc := NewService(orders, customers, products, ledger, logger)
	svc.kafkaProducer = kafkaProducer
	return svc
}

// NewServiceWithoutMetrics создаёт движок заказов без метрик (для тестов).
func NewServiceWithoutMetrics(
	orders domain.OrderRepository,
	customers domain.CustomerRepository,
	products domain.ProductRepository,
	ledger domain.InventoryLedger,
	logger *log.Entry,
) *Service {
	svc := NewService(orders, customers, products, ledger, logger)
	svc.metrics = nil
	return svc
}

// Create оформляет заказ для клиента вызывающего продавца.
// Цены позиций снимаются с каталога, сток резервируется атомарно,
// заказ записывается в статусе PENDING. Если запись не удалась,
// резерв компенсируется обратно.
func (s *Service) Create(ctx context.Context, identity *domain.Identity, input CreateInput) (domain.Order, error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordFulfillmentDuration(time.Since(start))
	}()

	if err := auth.Require(identity); err != nil {
		return domain.Order{}, err
	}

	if verr := validateItems(input.Items); verr != nil {
		return domain.Order{}, verr
	}

	customer, err := s.customers.Get(ctx, input.CustomerID)
	if err != nil {
		return domain.Order{}, err
	}
	// Заказ оформляется только на собственного клиента.
	if err := auth.Authorize(identity, customer); err != nil {
		return domain.Order{}, err
	}

	items, deltas, total, err := s.priceItems(ctx, input.Items)
	if err != nil {
		return domain.Order{}, err
	}

	if err := s.ledger.Reserve(ctx, deltas); err != nil {
		return domain.Order{}, err
	}

	now := s.now().UTC()
	ord := domain.Order{
		ID:         uuid.NewString(),
		CustomerID: customer.ID,
		SellerID:   identity.ID,
		Items:      items,
		TotalMinor: total,
		Status:     domain.OrderStatusPending,
		Customer:   &customer,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if verr := domain.NewValidationError(ord.ValidateInvariants()); verr != nil {
		// Резерв уже сделан — возвращаем его.
		s.compensate(ctx, deltas)
		return domain.Order{}, verr
	}

	if err := s.orders.Create(ctx, ord); err != nil {
		s.logger.WithError(err).WithField("order_id", ord.ID).Error("failed to persist order, releasing stock")
		s.compensate(ctx, deltas)
		return domain.Order{}, err
	}

	s.metrics.RecordOrderCreated()
	s.publishOrderEvent(kafka.EventTypeOrderCreated, &ord, nil)
	s.logger.WithFields(log.Fields{
		"order_id":    ord.ID,
		"customer_id": ord.CustomerID,
		"total_minor": ord.TotalMinor,
	}).Info("order created")

	return ord, nil
}

// Get возвращает заказ; доступ есть только у оформившего продавца.
func (s *Service) Get(ctx context.Context, identity *domain.Identity, id string) (domain.Order, error) {
	if err := auth.Require(identity); err != nil {
		return domain.Order{}, err
	}

	ord, err := s.orders.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if err := auth.Authorize(identity, ord); err != nil {
		return domain.Order{}, err
	}

	return ord, nil
}

// List возвращает все заказы. Для чтения списка достаточно аутентификации.
func (s *Service) List(ctx context.Context, identity *domain.Identity) ([]domain.Order, error) {
	if err := auth.Require(identity); err != nil {
		return nil, err
	}
	return s.orders.List(ctx)
}

// ListMine возвращает заказы вызывающего продавца.
func (s *Service) ListMine(ctx context.Context, identity *domain.Identity) ([]domain.Order, error) {
	if err := auth.Require(identity); err != nil {
		return nil, err
	}
	return s.orders.ListBySeller(ctx, identity.ID)
}

// ListMineByStatus возвращает заказы вызывающего продавца в заданном статусе.
func (s *Service) ListMineByStatus(ctx context.Context, identity *domain.Identity, status domain.OrderStatus) ([]domain.Order, error) {
	if err := auth.Require(identity); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, domain.NewValidationError([]error{domain.ErrStatusInvalid})
	}
	return s.orders.ListBySellerAndStatus(ctx, identity.ID, status)
}

// Update меняет состав и/или статус заказа. Изменение состава применяется
// к стоку как чистая разница: по каждому товару списывается или
// возвращается только дельта между новым и старым количеством.
// Менять заказ может только владелец заказа, притом лишь на клиентах,
// которыми он владеет.
func (s *Service) Update(ctx context.Context, identity *domain.Identity, id string, input UpdateInput) (domain.Order, error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordFulfillmentDuration(time.Since(start))
	}()

	if err := auth.Require(identity); err != nil {
		return domain.Order{}, err
	}

	ord, err := s.orders.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if err := auth.Authorize(identity, ord); err != nil {
		return domain.Order{}, err
	}

	// Владение клиентом заказа проверяется тоже: заказ не должен быть
	// доступен через «осиротевшую» связь.
	customer, err := s.customers.Get(ctx, ord.CustomerID)
	if err != nil {
		return domain.Order{}, err
	}
	if err := auth.Authorize(identity, customer); err != nil {
		return domain.Order{}, err
	}

	prevStatus := ord.Status

	if input.CustomerID != "" && input.CustomerID != ord.CustomerID {
		// Заказ можно перевести только на другого собственного клиента.
		next, err := s.customers.Get(ctx, input.CustomerID)
		if err != nil {
			return domain.Order{}, err
		}
		if err := auth.Authorize(identity, next); err != nil {
			return domain.Order{}, err
		}
		ord.CustomerID = next.ID
		ord.Customer = &next
	}

	// Сток трогаем в последнюю очередь: сначала все проверки, чтобы
	// отказ валидации не оставил применённую разницу без заказа.
	var deltas []domain.StockDelta
	if len(input.Items) > 0 {
		if verr := validateItems(input.Items); verr != nil {
			return domain.Order{}, verr
		}

		items, _, total, err := s.priceItems(ctx, input.Items)
		if err != nil {
			return domain.Order{}, err
		}

		deltas = diffItems(ord.Items, items)
		ord.Items = items
		ord.TotalMinor = total
	}

	if input.Status != "" {
		if !input.Status.Valid() {
			return domain.Order{}, domain.NewValidationError([]error{domain.ErrStatusInvalid})
		}
		ord.Status = input.Status
	}

	ord.UpdatedAt = s.now().UTC()

	if verr := domain.NewValidationError(ord.ValidateInvariants()); verr != nil {
		return domain.Order{}, verr
	}

	if err := s.ledger.Adjust(ctx, deltas); err != nil {
		return domain.Order{}, err
	}

	if err := s.orders.Update(ctx, ord); err != nil {
		s.logger.WithError(err).WithField("order_id", ord.ID).Error("failed to persist order update, reverting stock diff")
		s.compensateAdjust(ctx, deltas)
		return domain.Order{}, err
	}

	s.metrics.RecordOrderUpdated()
	s.recordStatusChange(prevStatus, ord.Status)
	s.publishOrderEvent(kafka.EventTypeOrderUpdated, &ord, map[string]interface{}{
		"previous_status": string(prevStatus),
	})

	return ord, nil
}

// Delete удаляет заказ владельца. Списанный при оформлении сток
// на склад не возвращается.
func (s *Service) Delete(ctx context.Context, identity *domain.Identity, id string) error {
	if err := auth.Require(identity); err != nil {
		return err
	}

	ord, err := s.orders.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.Authorize(identity, ord); err != nil {
		return err
	}

	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}

	s.metrics.RecordOrderDeleted()
	s.publishOrderEvent(kafka.EventTypeOrderDeleted, &ord, nil)
	s.logger.WithField("order_id", id).Info("order deleted")
	return nil
}

// priceItems снимает текущие цены каталога и готовит дельты резерва.
func (s *Service) priceItems(ctx context.Context, inputs []LineInput) ([]domain.OrderLineItem, []domain.StockDelta, int64, error) {
	items := make([]domain.OrderLineItem, 0, len(inputs))
	deltas := make([]domain.StockDelta, 0, len(inputs))
	var total int64

	for _, in := range inputs {
		product, err := s.products.Get(ctx, in.ProductID)
		if err != nil {
			return nil, nil, 0, err
		}

		items = append(items, domain.OrderLineItem{
			ProductID:  product.ID,
			Qty:        in.Qty,
			PriceMinor: product.PriceMinor,
		})
		deltas = append(deltas, domain.StockDelta{
			ProductID: product.ID,
			Delta:     int64(in.Qty),
		})
		total += int64(in.Qty) * product.PriceMinor
	}

	return items, deltas, total, nil
}

func (s *Service) compensate(ctx context.Context, deltas []domain.StockDelta) {
	if err := s.ledger.Release(ctx, deltas); err != nil {
		s.logger.WithError(err).Error("compensating release failed, stock left reserved")
	}
}

// compensateAdjust откатывает применённую чистую разницу: дельты
// инвертируются, списания становятся возвратами и наоборот.
func (s *Service) compensateAdjust(ctx context.Context, deltas []domain.StockDelta) {
	if len(deltas) == 0 {
		return
	}
	inverted := make([]domain.StockDelta, len(deltas))
	for i, d := range deltas {
		inverted[i] = domain.StockDelta{ProductID: d.ProductID, Delta: -d.Delta}
	}
	if err := s.ledger.Adjust(ctx, inverted); err != nil {
		s.logger.WithError(err).Error("compensating adjust failed, stock diverged from order")
	}
}

func (s *Service) recordStatusChange(prev, next domain.OrderStatus) {
	if prev == next {
		return
	}
	switch next {
	case domain.OrderStatusCompleted:
		s.metrics.RecordOrderCompleted()
	case domain.OrderStatusCancelled:
		s.metrics.RecordOrderCancelled()
	}
}

func (s *Service) publishOrderEvent(eventType kafka.EventType, ord *domain.Order, metadata map[string]interface{}) {
	if s.kafkaProducer == nil {
		return // Kafka не настроен, пропускаем
	}

	event := kafka.NewOrderEvent(eventType, ord.ID, ord.CustomerID, ord.SellerID, string(ord.Status), ord.TotalMinor, metadata)
	if err := s.kafkaProducer.PublishEvent(kafka.TopicOrderEvents, ord.ID, event); err != nil {
		// Логируем ошибку, но не прерываем операцию - Kafka опциональный
		s.logger.WithError(err).WithFields(log.Fields{
			"event_type": eventType,
			"order_id":   ord.ID,
		}).Warn("failed to publish order event to kafka")
	}
}

// validateItems проверяет позиции входа: непустой набор, положительные
// количества, отсутствие дубликатов товара.
func validateItems(items []LineInput) error {
	var issues []error

	if len(items) == 0 {
		issues = append(issues, domain.ErrItemsRequired)
	}

	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.Qty <= 0 {
			issues = append(issues, domain.ErrItemQtyInvalid)
		}
		if _, ok := seen[item.ProductID]; ok {
			issues = append(issues, domain.ErrItemDuplicated)
		}
		seen[item.ProductID] = struct{}{}
	}

	return domain.NewValidationError(issues)
}

// diffItems строит чистую разницу движений стока между старым и новым
// составом: положительная дельта дорезервирует, отрицательная возвращает.
func diffItems(old, next []domain.OrderLineItem) []domain.StockDelta {
	byProduct := make(map[string]int64)
	for _, item := range next {
		byProduct[item.ProductID] += int64(item.Qty)
	}
	for _, item := range old {
		byProduct[item.ProductID] -= int64(item.Qty)
	}

	// Стабильный порядок: сначала из нового состава, затем убранные позиции.
	deltas := make([]domain.StockDelta, 0, len(byProduct))
	emit := func(productID string) {
		delta, ok := byProduct[productID]
		if !ok || delta == 0 {
			delete(byProduct, productID)
			return
		}
		deltas = append(deltas, domain.StockDelta{ProductID: productID, Delta: delta})
		delete(byProduct, productID)
	}
	for _, item := range next {
		emit(item.ProductID)
	}
	for _, item := range old {
		emit(item.ProductID)
	}

	return deltas
}
