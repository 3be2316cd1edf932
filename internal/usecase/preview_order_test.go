package usecase

import (
	"context"
	"errors"
	"testing"
)

func TestPreviewOrder_CartPath(t *testing.T) {
	store := newMemStore()
	store.addSKU("A", 1000, 5)
	store.addSKU("B", 250, 9)
	cart := newMemCart()
	cart.set("u1", "A", 2)
	cart.set("u1", "B", 4)
	uc := NewPreviewOrder(ledgerView{store: store}, cart, 1000)

	out, err := uc.Execute(context.Background(), PreviewOrderInput{
		UserID: "u1",
		SKUIDs: []string{"A", "B"},
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if len(out.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(out.Lines))
	}
	if out.TotalCount != 6 {
		t.Fatalf("total count = %d, want 6", out.TotalCount)
	}
	if out.LinesAmountCents != 2*1000+4*250 {
		t.Fatalf("lines amount = %d, want 3000", out.LinesAmountCents)
	}
	if out.ShippingCents != 1000 || out.AmountCents != 4000 {
		t.Fatalf("shipping=%d total=%d, want 1000/4000", out.ShippingCents, out.AmountCents)
	}
}

func TestPreviewOrder_BuyNowWritesBackToCart(t *testing.T) {
	store := newMemStore()
	store.addSKU("A", 1000, 5)
	cart := newMemCart()
	uc := NewPreviewOrder(ledgerView{store: store}, cart, 1000)

	out, err := uc.Execute(context.Background(), PreviewOrderInput{
		UserID:      "u1",
		SKUIDs:      []string{"A"},
		BuyNowCount: 3,
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if out.TotalCount != 3 || out.AmountCents != 3*1000+1000 {
		t.Fatalf("count=%d amount=%d", out.TotalCount, out.AmountCents)
	}

	// the buy-now quantity must survive in the cart for the commit step
	q, _ := cart.Quantities(context.Background(), "u1")
	if q["A"] != 3 {
		t.Fatalf("cart quantity = %d, want 3", q["A"])
	}
}

func TestPreviewOrder_BuyNowOverStock(t *testing.T) {
	store := newMemStore()
	store.addSKU("A", 1000, 2)
	cart := newMemCart()
	uc := NewPreviewOrder(ledgerView{store: store}, cart, 1000)

	_, err := uc.Execute(context.Background(), PreviewOrderInput{
		UserID:      "u1",
		SKUIDs:      []string{"A"},
		BuyNowCount: 3,
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}
	if q, _ := cart.Quantities(context.Background(), "u1"); len(q) != 0 {
		t.Fatal("rejected buy-now must not be written to the cart")
	}
}

func TestPreviewOrder_UnknownSKU(t *testing.T) {
	store := newMemStore()
	uc := NewPreviewOrder(ledgerView{store: store}, newMemCart(), 1000)

	_, err := uc.Execute(context.Background(), PreviewOrderInput{
		UserID: "u1",
		SKUIDs: []string{"GHOST"},
	})
	if !errors.Is(err, ErrSKUNotFound) {
		t.Fatalf("err = %v, want ErrSKUNotFound", err)
	}
}

func TestPreviewOrder_EmptySelection(t *testing.T) {
	uc := NewPreviewOrder(ledgerView{store: newMemStore()}, newMemCart(), 1000)
	if _, err := uc.Execute(context.Background(), PreviewOrderInput{UserID: "u1"}); !errors.Is(err, ErrSKUNotFound) {
		t.Fatalf("err = %v, want ErrSKUNotFound", err)
	}
}
