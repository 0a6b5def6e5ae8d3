package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/crm/internal/domain"
	"github.com/vladislavdragonenkov/crm/internal/storage/memory"
)

func seedProduct(t *testing.T, products domain.ProductRepository, id string, qty int64) {
	t.Helper()

	now := time.Now().UTC()
	err := products.Create(context.Background(), domain.Product{
		ID:           id,
		Name:         "product-" + id,
		PriceMinor:   1000,
		AvailableQty: qty,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
}

func availableQty(t *testing.T, products domain.ProductRepository, id string) int64 {
	t.Helper()

	p, err := products.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	return p.AvailableQty
}

func TestLedgerReserve(t *testing.T) {
	products := memory.NewProductRepository()
	seedProduct(t, products, "p1", 10)
	seedProduct(t, products, "p2", 5)

	ledger := NewLedgerWithoutMetrics(products, nil)

	err := ledger.Reserve(context.Background(), []domain.StockDelta{
		{ProductID: "p1", Delta: 4},
		{ProductID: "p2", Delta: 2},
	})
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	if qty := availableQty(t, products, "p1"); qty != 6 {
		t.Errorf("expected p1 quantity 6, got %d", qty)
	}
	if qty := availableQty(t, products, "p2"); qty != 3 {
		t.Errorf("expected p2 quantity 3, got %d", qty)
	}
}

func TestLedgerReserveOutOfStock(t *testing.T) {
	products := memory.NewProductRepository()
	seedProduct(t, products, "p1", 10)
	seedProduct(t, products, "p2", 1)

	ledger := NewLedgerWithoutMetrics(products, nil)

	err := ledger.Reserve(context.Background(), []domain.StockDelta{
		{ProductID: "p1", Delta: 4},
		{ProductID: "p2", Delta: 2},
	})
	if !domain.IsOutOfStock(err) {
		t.Fatalf("expected out-of-stock error, got %v", err)
	}

	// Ни одна позиция не должна быть списана.
	if qty := availableQty(t, products, "p1"); qty != 10 {
		t.Errorf("expected p1 quantity 10, got %d", qty)
	}
	if qty := availableQty(t, products, "p2"); qty != 1 {
		t.Errorf("expected p2 quantity 1, got %d", qty)
	}
}

func TestLedgerRelease(t *testing.T) {
	products := memory.NewProductRepository()
	seedProduct(t, products, "p1", 6)

	ledger := NewLedgerWithoutMetrics(products, nil)

	err := ledger.Release(context.Background(), []domain.StockDelta{
		{ProductID: "p1", Delta: 4},
	})
	if err != nil {
		t.Fatalf("release: %v", err)
	}

	if qty := availableQty(t, products, "p1"); qty != 10 {
		t.Errorf("expected p1 quantity 10 after release, got %d", qty)
	}
}

func TestLedgerAdjustMixedDeltas(t *testing.T) {
	products := memory.NewProductRepository()
	seedProduct(t, products, "p1", 10)
	seedProduct(t, products, "p2", 3)

	ledger := NewLedgerWithoutMetrics(products, nil)

	// Увеличиваем резерв p1, возвращаем часть p2.
	err := ledger.Adjust(context.Background(), []domain.StockDelta{
		{ProductID: "p1", Delta: 2},
		{ProductID: "p2", Delta: -1},
	})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}

	if qty := availableQty(t, products, "p1"); qty != 8 {
		t.Errorf("expected p1 quantity 8, got %d", qty)
	}
	if qty := availableQty(t, products, "p2"); qty != 4 {
		t.Errorf("expected p2 quantity 4, got %d", qty)
	}
}

func TestLedgerAdjustEmpty(t *testing.T) {
	products := memory.NewProductRepository()

	ledger := NewLedgerWithoutMetrics(products, nil)

	if err := ledger.Adjust(context.Background(), nil); err != nil {
		t.Fatalf("adjust with no deltas should succeed, got %v", err)
	}
}

func TestMockLedger(t *testing.T) {
	mock := NewMockLedger()

	deltas := []domain.StockDelta{{ProductID: "p1", Delta: 1}}

	if err := mock.Reserve(context.Background(), deltas); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := mock.Release(context.Background(), deltas); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := mock.Adjust(context.Background(), deltas); err != nil {
		t.Fatalf("adjust: %v", err)
	}

	if mock.ReserveCalls != 1 || mock.ReleaseCalls != 1 || mock.AdjustCalls != 1 {
		t.Errorf("unexpected call counts: %d %d %d", mock.ReserveCalls, mock.ReleaseCalls, mock.AdjustCalls)
	}
}
