package domain

import "time"

// Product — позиция общего каталога. Остаток AvailableQty меняется только
// через атомарный AdjustStock хранилища и никогда не уходит ниже нуля.
type Product struct {
	ID string
	// Name — отображаемое имя; попадает в текст ошибки OutOfStock.
	Name string
	// PriceMinor — цена за единицу в минимальных денежных единицах.
	PriceMinor int64
	// AvailableQty — доступный к резервированию остаток.
	AvailableQty int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidateInvariants проверяет базовые инварианты позиции каталога.
func (p *Product) ValidateInvariants() []error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, ErrNameRequired)
	}
	if p.PriceMinor < 0 {
		errs = append(errs, ErrPriceNegative)
	}
	if p.AvailableQty < 0 {
		errs = append(errs, ErrQuantityNegative)
	}

	return errs
}

// StockDelta описывает движение остатка по одному товару.
// Delta > 0 — резерв (списание доступного остатка), Delta < 0 — возврат резерва.
type StockDelta struct {
	ProductID string
	Delta     int64
}
