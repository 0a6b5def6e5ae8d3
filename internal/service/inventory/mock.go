package inventory

import (
	"context"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

// MockLedger — конфигурируемая заглушка InventoryLedger для тестов.
type MockLedger struct {
	ReserveErr error
	ReleaseErr error
	AdjustErr  error

	ReserveCalls int
	ReleaseCalls int
	AdjustCalls  int

	LastReserved []domain.StockDelta
	LastReleased []domain.StockDelta
	LastAdjusted []domain.StockDelta
}

// NewMockLedger возвращает mock с успешным сценарием по умолчанию.
func NewMockLedger() *MockLedger {
	return &MockLedger{}
}

// Reserve возвращает заранее настроенную ошибку и считает вызовы.
func (m *MockLedger) Reserve(_ context.Context, deltas []domain.StockDelta) error {
	m.ReserveCalls++
	m.LastReserved = deltas
	return m.ReserveErr
}

// Release возвращает заранее настроенную ошибку и считает вызовы.
func (m *MockLedger) Release(_ context.Context, deltas []domain.StockDelta) error {
	m.ReleaseCalls++
	m.LastReleased = deltas
	return m.ReleaseErr
}

// Adjust возвращает заранее настроенную ошибку и считает вызовы.
func (m *MockLedger) Adjust(_ context.Context, deltas []domain.StockDelta) error {
	m.AdjustCalls++
	m.LastAdjusted = deltas
	return m.AdjustErr
}

var _ domain.InventoryLedger = (*MockLedger)(nil)
