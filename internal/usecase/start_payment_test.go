package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	domain "github.com/quangdm/freshcart-api/internal/entity"
)

func TestStartPayment(t *testing.T) {
	store := newMemStore()
	store.addOrder(pendingGatewayOrder("o1", "u1"))
	uc := NewStartPayment(store, &scriptedGateway{})

	locator, err := uc.Execute(context.Background(), "u1", "o1")
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !strings.Contains(locator, "out_trade_no=o1") {
		t.Fatalf("locator %q does not reference the order", locator)
	}
}

func TestStartPayment_NotPending(t *testing.T) {
	store := newMemStore()
	o := pendingGatewayOrder("o1", "u1")
	o.Status = domain.StatusUncommented
	store.addOrder(o)
	uc := NewStartPayment(store, &scriptedGateway{})

	if _, err := uc.Execute(context.Background(), "u1", "o1"); !errors.Is(err, ErrOrderNotPending) {
		t.Fatalf("err = %v, want ErrOrderNotPending", err)
	}
}

func TestStartPayment_CODOrder(t *testing.T) {
	store := newMemStore()
	o := pendingGatewayOrder("o1", "u1")
	o.PayMethod = domain.PayMethodCOD
	store.addOrder(o)
	uc := NewStartPayment(store, &scriptedGateway{})

	if _, err := uc.Execute(context.Background(), "u1", "o1"); !errors.Is(err, ErrOrderNotPending) {
		t.Fatalf("err = %v, want ErrOrderNotPending", err)
	}
}
