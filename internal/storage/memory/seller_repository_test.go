package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/crm/internal/domain"
	"github.com/vladislavdragonenkov/crm/internal/storage/memory"
)

func newSeller(id, email string) domain.Seller {
	return domain.Seller{
		ID:           id,
		Email:        email,
		Name:         "Luis",
		Surname:      "Perez",
		PasswordHash: "$2a$10$hash",
		CreatedAt:    time.Now().UTC(),
	}
}

func TestSellerRepository_CreateGet(t *testing.T) {
	repo := memory.NewSellerRepository()
	ctx := context.Background()

	if err := repo.Create(ctx, newSeller("s1", "luis@example.com")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	byID, err := repo.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if byID.Email != "luis@example.com" {
		t.Fatalf("unexpected seller: %+v", byID)
	}

	byEmail, err := repo.GetByEmail(ctx, "LUIS@example.com")
	if err != nil {
		t.Fatalf("get by email failed: %v", err)
	}
	if byEmail.ID != "s1" {
		t.Fatalf("unexpected seller: %+v", byEmail)
	}
}

func TestSellerRepository_DuplicateEmail(t *testing.T) {
	repo := memory.NewSellerRepository()
	ctx := context.Background()

	if err := repo.Create(ctx, newSeller("s1", "luis@example.com")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(ctx, newSeller("s2", "luis@example.com")); !errors.Is(err, domain.ErrSellerExists) {
		t.Fatalf("expected ErrSellerExists, got %v", err)
	}
}

func TestSellerRepository_NotFound(t *testing.T) {
	repo := memory.NewSellerRepository()
	ctx := context.Background()

	if _, err := repo.Get(ctx, "ghost"); !errors.Is(err, domain.ErrSellerNotFound) {
		t.Fatalf("expected ErrSellerNotFound, got %v", err)
	}
	if _, err := repo.GetByEmail(ctx, "ghost@example.com"); !errors.Is(err, domain.ErrSellerNotFound) {
		t.Fatalf("expected ErrSellerNotFound, got %v", err)
	}
}
