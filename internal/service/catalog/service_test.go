package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/crm/internal/domain"
	"github.com/vladislavdragonenkov/crm/internal/storage/memory"
)

var testIdentity = &domain.Identity{ID: "seller-1", Email: "ana@example.com", Name: "Ana"}

func newServiceForTest() *Service {
	return NewService(memory.NewProductRepository(), nil)
}

func TestCreateProduct(t *testing.T) {
	svc := newServiceForTest()

	product, err := svc.Create(context.Background(), testIdentity, ProductInput{
		Name:         "  Laptop Stand  ",
		PriceMinor:   4990,
		AvailableQty: 12,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if product.ID == "" {
		t.Error("expected generated id")
	}
	if product.Name != "Laptop Stand" {
		t.Errorf("expected trimmed name, got %q", product.Name)
	}
	if product.CreatedAt.IsZero() || product.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestCreateProductValidation(t *testing.T) {
	svc := newServiceForTest()

	_, err := svc.Create(context.Background(), testIdentity, ProductInput{
		Name:         "",
		PriceMinor:   -1,
		AvailableQty: -1,
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateProductAnonymous(t *testing.T) {
	svc := newServiceForTest()

	_, err := svc.Create(context.Background(), nil, ProductInput{Name: "X", PriceMinor: 1})
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestCatalogReadsArePublic(t *testing.T) {
	svc := newServiceForTest()
	ctx := context.Background()

	created, err := svc.Create(ctx, testIdentity, ProductInput{Name: "Mouse", PriceMinor: 1990, AvailableQty: 5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Чтение каталога не требует аутентификации.
	if _, err := svc.Get(ctx, created.ID); err != nil {
		t.Errorf("get: %v", err)
	}
	if _, err := svc.List(ctx); err != nil {
		t.Errorf("list: %v", err)
	}
	if _, err := svc.Search(ctx, "mouse", 0); err != nil {
		t.Errorf("search: %v", err)
	}
}

func TestUpdateProduct(t *testing.T) {
	svc := newServiceForTest()
	ctx := context.Background()

	created, err := svc.Create(ctx, testIdentity, ProductInput{Name: "Mouse", PriceMinor: 1990, AvailableQty: 5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, testIdentity, created.ID, ProductInput{
		Name:         "Wireless Mouse",
		PriceMinor:   2490,
		AvailableQty: 8,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Name != "Wireless Mouse" || updated.PriceMinor != 2490 || updated.AvailableQty != 8 {
		t.Errorf("unexpected product after update: %+v", updated)
	}
}

func TestUpdateMissingProduct(t *testing.T) {
	svc := newServiceForTest()

	_, err := svc.Update(context.Background(), testIdentity, "missing", ProductInput{Name: "X", PriceMinor: 1})
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestSearchProducts(t *testing.T) {
	svc := newServiceForTest()
	ctx := context.Background()

	names := []string{"Wireless Mouse", "Wireless Keyboard", "USB Hub"}
	for _, name := range names {
		if _, err := svc.Create(ctx, testIdentity, ProductInput{Name: name, PriceMinor: 1000, AvailableQty: 1}); err != nil {
			t.Fatalf("create %q: %v", name, err)
		}
	}

	found, err := svc.Search(ctx, "WIRELESS", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 products, got %d", len(found))
	}

	limited, err := svc.Search(ctx, "wireless", 1)
	if err != nil {
		t.Fatalf("search with limit: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected 1 product, got %d", len(limited))
	}
}

func TestDeleteProduct(t *testing.T) {
	svc := newServiceForTest()
	ctx := context.Background()

	created, err := svc.Create(ctx, testIdentity, ProductInput{Name: "Hub", PriceMinor: 2490, AvailableQty: 3})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, testIdentity, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound after delete, got %v", err)
	}
}
