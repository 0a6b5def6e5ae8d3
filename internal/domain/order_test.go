package domain

import (
	"errors"
	"testing"
	"time"
)

func validOrder() Order {
	now := time.Now().UTC()
	return Order{
		ID:         "order-1",
		CustomerID: "customer-1",
		SellerID:   "seller-1",
		Status:     OrderStatusPending,
		Items: []OrderLineItem{
			{ProductID: "product-1", Qty: 2, PriceMinor: 150},
			{ProductID: "product-2", Qty: 1, PriceMinor: 700},
		},
		TotalMinor: 1000,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestOrderValidateInvariants_Valid(t *testing.T) {
	order := validOrder()
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestOrderValidateInvariants_TotalMismatch(t *testing.T) {
	order := validOrder()
	order.TotalMinor = 999

	errs := order.ValidateInvariants()
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if !errors.Is(errs[0], ErrTotalMismatch) {
		t.Fatalf("expected ErrTotalMismatch, got %v", errs[0])
	}
}

func TestOrderValidateInvariants_MissingFields(t *testing.T) {
	order := Order{Status: OrderStatus("UNKNOWN")}

	errs := order.ValidateInvariants()

	expect := []error{ErrCustomerRequired, ErrSellerRequired, ErrItemsRequired, ErrStatusInvalid}
	for _, want := range expect {
		found := false
		for _, got := range errs {
			if errors.Is(got, want) {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected %v in %v", want, errs)
		}
	}
}

func TestOrderValidateInvariants_BadItem(t *testing.T) {
	order := validOrder()
	order.Items[0].Qty = 0
	order.TotalMinor = 700

	errs := order.ValidateInvariants()
	if len(errs) != 1 || !errors.Is(errs[0], ErrItemQtyInvalid) {
		t.Fatalf("expected ErrItemQtyInvalid, got %v", errs)
	}
}

func TestOrderStatusValid(t *testing.T) {
	for _, status := range []OrderStatus{OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled} {
		if !status.Valid() {
			t.Fatalf("status %s must be valid", status)
		}
	}
	if OrderStatus("COMPLETADO").Valid() {
		t.Fatal("unknown status must not be valid")
	}
}
