package usecase

import (
	"context"
	"fmt"

	domain "github.com/quangdm/freshcart-api/internal/entity"
)

// StartPayment asks the gateway for a payment intent and hands back the
// redirect locator the buyer should be sent to.
type StartPayment struct {
	store OrderStore
	gw    PaymentGateway
}

func NewStartPayment(store OrderStore, gw PaymentGateway) *StartPayment {
	return &StartPayment{store: store, gw: gw}
}

func (uc *StartPayment) Execute(ctx context.Context, userID, orderID string) (string, error) {
	order, err := uc.store.GetForUser(ctx, orderID, userID)
	if err != nil {
		return "", fmt.Errorf("load order: %w", err)
	}
	if order == nil || order.Status != domain.StatusUnpaid || order.PayMethod != domain.PayMethodGateway {
		return "", ErrOrderNotPending
	}

	subject := fmt.Sprintf("freshcart order %s", orderID)
	locator, err := uc.gw.CreatePaymentIntent(ctx, orderID, order.AmountCents, subject)
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	return locator, nil
}
