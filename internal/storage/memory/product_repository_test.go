package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/crm/internal/domain"
	"github.com/vladislavdragonenkov/crm/internal/storage/memory"
)

func newProduct(id, name string, qty int64) domain.Product {
	now := time.Now().UTC()
	return domain.Product{
		ID:           id,
		Name:         name,
		PriceMinor:   2500,
		AvailableQty: qty,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestProductRepository_CreateGet(t *testing.T) {
	repo := memory.NewProductRepository()
	ctx := context.Background()

	if err := repo.Create(ctx, newProduct("p1", "Laptop", 10)); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stored, err := repo.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Name != "Laptop" || stored.AvailableQty != 10 {
		t.Fatalf("unexpected product: %+v", stored)
	}

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductRepository_Search(t *testing.T) {
	repo := memory.NewProductRepository()
	ctx := context.Background()

	for _, p := range []domain.Product{
		newProduct("p1", "Monitor 24", 5),
		newProduct("p2", "Monitor 27", 5),
		newProduct("p3", "Keyboard", 5),
	} {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	found, err := repo.Search(ctx, "monitor", 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 products, got %d", len(found))
	}

	limited, err := repo.Search(ctx, "monitor", 1)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(limited))
	}
}

func TestProductRepository_AdjustStock_Reserve(t *testing.T) {
	repo := memory.NewProductRepository()
	ctx := context.Background()

	if err := repo.Create(ctx, newProduct("p1", "Laptop", 10)); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := repo.AdjustStock(ctx, []domain.StockDelta{{ProductID: "p1", Delta: 3}}); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}

	stored, _ := repo.Get(ctx, "p1")
	if stored.AvailableQty != 7 {
		t.Fatalf("expected qty 7, got %d", stored.AvailableQty)
	}

	// Возврат резерва.
	if err := repo.AdjustStock(ctx, []domain.StockDelta{{ProductID: "p1", Delta: -3}}); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	stored, _ = repo.Get(ctx, "p1")
	if stored.AvailableQty != 10 {
		t.Fatalf("expected qty 10, got %d", stored.AvailableQty)
	}
}

func TestProductRepository_AdjustStock_AllOrNothing(t *testing.T) {
	repo := memory.NewProductRepository()
	ctx := context.Background()

	if err := repo.Create(ctx, newProduct("p1", "Laptop", 10)); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(ctx, newProduct("p2", "Mouse", 1)); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	err := repo.AdjustStock(ctx, []domain.StockDelta{
		{ProductID: "p1", Delta: 5},
		{ProductID: "p2", Delta: 2},
	})
	if !domain.IsOutOfStock(err) {
		t.Fatalf("expected OutOfStockError, got %v", err)
	}

	var oos *domain.OutOfStockError
	if !errors.As(err, &oos) || oos.ProductName != "Mouse" {
		t.Fatalf("error must name the offending product: %v", err)
	}

	// Ни один остаток не должен измениться.
	p1, _ := repo.Get(ctx, "p1")
	p2, _ := repo.Get(ctx, "p2")
	if p1.AvailableQty != 10 || p2.AvailableQty != 1 {
		t.Fatalf("stock must be unchanged: p1=%d p2=%d", p1.AvailableQty, p2.AvailableQty)
	}
}

func TestProductRepository_AdjustStock_UnknownProduct(t *testing.T) {
	repo := memory.NewProductRepository()
	ctx := context.Background()

	err := repo.AdjustStock(ctx, []domain.StockDelta{{ProductID: "ghost", Delta: 1}})
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

// Два конкурентных резерва по 3 из 5 единиц: ровно один успех, остаток 2.
func TestProductRepository_AdjustStock_ConcurrentReserve(t *testing.T) {
	repo := memory.NewProductRepository()
	ctx := context.Background()

	if err := repo.Create(ctx, newProduct("p1", "Laptop", 5)); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- repo.AdjustStock(ctx, []domain.StockDelta{{ProductID: "p1", Delta: 3}})
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, rejected int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case domain.IsOutOfStock(err):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || rejected != 1 {
		t.Fatalf("expected exactly one success and one rejection, got %d/%d", succeeded, rejected)
	}

	stored, _ := repo.Get(ctx, "p1")
	if stored.AvailableQty != 2 {
		t.Fatalf("expected qty 2, got %d", stored.AvailableQty)
	}
}
