package inventory

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/crm/internal/domain"
	"github.com/vladislavdragonenkov/crm/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/crm/internal/metrics"
)

// Ledger реализует операции резервирования склада поверх каталога товаров.
// Все операции атомарны: либо применяются все позиции, либо ни одна.
type Ledger struct {
	products      domain.ProductRepository
	logger        *log.Entry
	metrics       *metrics.FulfillmentMetrics
	kafkaProducer *kafka.Producer // опциональный Kafka producer
}

// NewLedger создаёт рабочий экземпляр ledger.
func NewLedger(products domain.ProductRepository, logger *log.Entry) *Ledger {
	if logger == nil {
		logger = log.New().WithField("component", "inventory")
	}
	return &Ledger{
		products: products,
		logger:   logger,
		metrics:  metrics.NewFulfillmentMetrics(),
	}
}

// NewLedgerWithKafka создаёт ledger с Kafka producer для публикации событий склада.
func NewLedgerWithKafka(products domain.ProductRepository, kafkaProducer *kafka.Producer, logger *log.Entry) *Ledger {
	ledger := NewLedger(products, logger)
	ledger.kafkaProducer = kafkaProducer
	return ledger
}

// NewLedgerWithoutMetrics создаёт ledger без метрик (для тестов).
func NewLedgerWithoutMetrics(products domain.ProductRepository, logger *log.Entry) *Ledger {
	ledger := NewLedger(products, logger)
	ledger.metrics = nil
	return ledger
}

// Reserve списывает количество по всем позициям. Ожидает положительные дельты.
func (l *Ledger) Reserve(ctx context.Context, deltas []domain.StockDelta) error {
	start := time.Now()
	err := l.products.AdjustStock(ctx, deltas)
	l.metrics.RecordStockOpDuration("reserve", time.Since(start))

	if err != nil {
		if domain.IsOutOfStock(err) {
			l.metrics.RecordReservationFailed()
		}
		l.logger.WithError(err).WithField("items", len(deltas)).Warn("reserve failed")
		return err
	}

	l.publishStockEvent(kafka.EventTypeStockReserved, deltas)
	return nil
}

// Release возвращает количество на склад. Ожидает положительные дельты,
// которые инвертируются перед применением.
func (l *Ledger) Release(ctx context.Context, deltas []domain.StockDelta) error {
	inverted := make([]domain.StockDelta, len(deltas))
	for i, d := range deltas {
		inverted[i] = domain.StockDelta{ProductID: d.ProductID, Delta: -d.Delta}
	}

	start := time.Now()
	err := l.products.AdjustStock(ctx, inverted)
	l.metrics.RecordStockOpDuration("release", time.Since(start))

	if err != nil {
		l.logger.WithError(err).WithField("items", len(deltas)).Warn("release failed")
		return err
	}

	l.metrics.RecordReservationReleased()
	l.publishStockEvent(kafka.EventTypeStockReleased, deltas)
	return nil
}

// Adjust применяет смешанный набор дельт как есть: положительные списывают,
// отрицательные возвращают. Используется при изменении состава заказа.
func (l *Ledger) Adjust(ctx context.Context, deltas []domain.StockDelta) error {
	if len(deltas) == 0 {
		return nil
	}

	start := time.Now()
	err := l.products.AdjustStock(ctx, deltas)
	l.metrics.RecordStockOpDuration("adjust", time.Since(start))

	if err != nil {
		if domain.IsOutOfStock(err) {
			l.metrics.RecordReservationFailed()
		}
		l.logger.WithError(err).WithField("items", len(deltas)).Warn("adjust failed")
		return err
	}

	return nil
}

func (l *Ledger) publishStockEvent(eventType kafka.EventType, deltas []domain.StockDelta) {
	if l.kafkaProducer == nil {
		return // Kafka не настроен, пропускаем
	}

	items := make([]kafka.StockEventItem, len(deltas))
	for i, d := range deltas {
		items[i] = kafka.StockEventItem{ProductID: d.ProductID, Delta: d.Delta}
	}

	event := kafka.NewStockEvent(eventType, "", items)
	if err := l.kafkaProducer.PublishEvent(kafka.TopicStockEvents, string(eventType), event); err != nil {
		// Логируем ошибку, но не прерываем операцию - Kafka опциональный
		l.logger.WithError(err).WithField("event_type", eventType).Warn("failed to publish stock event to kafka")
	}
}

var _ domain.InventoryLedger = (*Ledger)(nil)
