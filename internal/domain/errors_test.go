package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestOutOfStockError_Message(t *testing.T) {
	err := &OutOfStockError{
		ProductID:   "product-1",
		ProductName: "Monitor 24",
		Requested:   3,
		Available:   1,
	}

	msg := err.Error()
	if !strings.Contains(msg, "Monitor 24") {
		t.Fatalf("message must name the product: %s", msg)
	}
	if !strings.Contains(msg, "requested 3") || !strings.Contains(msg, "available 1") {
		t.Fatalf("message must carry quantities: %s", msg)
	}
}

func TestIsOutOfStock(t *testing.T) {
	err := fmt.Errorf("reserve: %w", &OutOfStockError{ProductName: "x"})
	if !IsOutOfStock(err) {
		t.Fatal("wrapped OutOfStockError must be detected")
	}
	if IsOutOfStock(ErrProductNotFound) {
		t.Fatal("ErrProductNotFound is not out-of-stock")
	}
}

func TestNewValidationError(t *testing.T) {
	if err := NewValidationError(nil); err != nil {
		t.Fatalf("empty issue list must yield nil, got %v", err)
	}

	err := NewValidationError([]error{ErrNameRequired, ErrEmailRequired})
	if !IsValidation(err) {
		t.Fatal("expected a validation error")
	}

	var verr *ValidationError
	if !errors.As(err, &verr) || len(verr.Issues) != 2 {
		t.Fatalf("expected 2 issues, got %v", err)
	}
}
