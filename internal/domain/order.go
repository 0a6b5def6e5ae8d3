package domain

import "time"

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	// OrderStatusPending — заказ создан, сток зарезервирован, продажа не закрыта.
	OrderStatusPending OrderStatus = "PENDING"
	// OrderStatusCompleted — продажа закрыта; только такие заказы попадают в рейтинги.
	OrderStatusCompleted OrderStatus = "COMPLETED"
	// OrderStatusCancelled — заказ отменён. Списанный сток при этом не возвращается.
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Valid сообщает, является ли значение одним из известных статусов.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderLineItem представляет одну позицию заказа.
// Отдельно не хранится — всегда внутри Order.
type OrderLineItem struct {
	ProductID string
	// Qty — количество единиц, всегда > 0.
	Qty int32
	// PriceMinor — цена за единицу, зафиксированная на момент оформления.
	PriceMinor int64
}

// Order агрегирует состояние заказа и его позиции.
type Order struct {
	ID         string
	CustomerID string
	// SellerID назначается при создании равным создавшему Identity и не меняется.
	SellerID string
	Items    []OrderLineItem
	// TotalMinor — производная сумма: Σ Qty × PriceMinor по позициям.
	TotalMinor int64
	Status     OrderStatus
	// Customer — денормализованный снимок клиента для чтения.
	Customer  *Customer
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnerSellerID реализует auth.Owned.
func (o Order) OwnerSellerID() string { return o.SellerID }

// ValidateInvariants проверяет базовые инварианты заказа.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.CustomerID == "" {
		errs = append(errs, ErrCustomerRequired)
	}
	if o.SellerID == "" {
		errs = append(errs, ErrSellerRequired)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}
	if !o.Status.Valid() {
		errs = append(errs, ErrStatusInvalid)
	}

	// Сверяем сумму заказа с суммой позиций: qty * price.
	var calc int64
	for _, item := range o.Items {
		if item.Qty <= 0 {
			errs = append(errs, ErrItemQtyInvalid)
		}
		if item.PriceMinor < 0 {
			errs = append(errs, ErrItemPriceInvalid)
		}
		calc += int64(item.Qty) * item.PriceMinor
	}
	if calc != o.TotalMinor {
		errs = append(errs, ErrTotalMismatch)
	}

	return errs
}
