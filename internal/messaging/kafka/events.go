package kafka

import "time"

// EventType определяет тип события
type EventType string

const (
	// Order события
	EventTypeOrderCreated   EventType = "order.created"
	EventTypeOrderUpdated   EventType = "order.updated"
	EventTypeOrderDeleted   EventType = "order.deleted"
	EventTypeOrderCompleted EventType = "order.completed"
	EventTypeOrderCancelled EventType = "order.cancelled"

	// Stock события
	EventTypeStockReserved EventType = "stock.reserved"
	EventTypeStockReleased EventType = "stock.released"
)

// Topics для Kafka
const (
	TopicOrderEvents = "crm.order.events"
	TopicStockEvents = "crm.stock.events"
)

// OrderEvent представляет событие заказа
type OrderEvent struct {
	EventType  EventType              `json:"event_type"`
	OrderID    string                 `json:"order_id"`
	CustomerID string                 `json:"customer_id"`
	SellerID   string                 `json:"seller_id"`
	Status     string                 `json:"status"`
	TotalMinor int64                  `json:"total_minor"`
	Timestamp  time.Time              `json:"timestamp"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// StockEvent представляет событие изменения остатков склада
type StockEvent struct {
	EventType EventType        `json:"event_type"`
	OrderID   string           `json:"order_id,omitempty"`
	Items     []StockEventItem `json:"items"`
	Timestamp time.Time        `json:"timestamp"`
}

// StockEventItem описывает изменение остатка одного товара
type StockEventItem struct {
	ProductID string `json:"product_id"`
	Delta     int64  `json:"delta"`
}

// NewOrderEvent создает новое событие заказа
func NewOrderEvent(eventType EventType, orderID, customerID, sellerID, status string, totalMinor int64, metadata map[string]interface{}) *OrderEvent {
	return &OrderEvent{
		EventType:  eventType,
		OrderID:    orderID,
		CustomerID: customerID,
		SellerID:   sellerID,
		Status:     status,
		TotalMinor: totalMinor,
		Timestamp:  time.Now(),
		Metadata:   metadata,
	}
}

// NewStockEvent создает новое событие склада
func NewStockEvent(eventType EventType, orderID string, items []StockEventItem) *StockEvent {
	return &StockEvent{
		EventType: eventType,
		OrderID:   orderID,
		Items:     items,
		Timestamp: time.Now(),
	}
}
