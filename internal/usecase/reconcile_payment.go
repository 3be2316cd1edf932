package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	domain "github.com/quangdm/freshcart-api/internal/entity"
	"github.com/quangdm/freshcart-api/internal/logging"
)

// Gateway reply vocabulary. Code separates "order recognized" from "order
// not yet known to the provider"; trade status separates settled trades
// from ones still waiting on the buyer.
const (
	gwCodeOK       = "10000"
	gwCodeNotFound = "40004"

	tradeSuccess    = "TRADE_SUCCESS"
	tradeWaitForBuy = "WAIT_BUYER_PAY"
)

// ReconcilePayment polls the gateway for one order until the trade reaches
// a terminal status, then transitions the order. Callers must not run two
// reconciliations for the same order concurrently.
type ReconcilePayment struct {
	store    OrderStore
	gw       PaymentGateway
	events   EventPublisher
	interval time.Duration
}

func NewReconcilePayment(store OrderStore, gw PaymentGateway, events EventPublisher, pollInterval time.Duration) *ReconcilePayment {
	return &ReconcilePayment{store: store, gw: gw, events: events, interval: pollInterval}
}

// PollUntilTerminal blocks between polls and keeps retrying while the
// gateway reports the trade as pending. The caller bounds it through ctx;
// cancellation between polls returns ctx.Err() without touching the order.
func (uc *ReconcilePayment) PollUntilTerminal(ctx context.Context, userID, orderID string) error {
	order, err := uc.pendingOrder(ctx, userID, orderID)
	if err != nil {
		return err
	}

	l := logging.FromCtx(ctx)
	for {
		reply, err := uc.gw.QueryStatus(ctx, orderID)
		if err != nil {
			paymentPolls.WithLabelValues("error").Inc()
			return fmt.Errorf("gateway query: %w", err)
		}

		switch {
		case reply.Code == gwCodeOK && reply.TradeStatus == tradeSuccess:
			paymentPolls.WithLabelValues("success").Inc()
			return uc.settle(ctx, order, reply.TradeID)

		case reply.Code == gwCodeNotFound,
			reply.Code == gwCodeOK && reply.TradeStatus == tradeWaitForBuy:
			// Trade not created on the provider side yet, or the buyer
			// has not paid. Wait and ask again.
			paymentPolls.WithLabelValues("pending").Inc()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(uc.interval):
			}

		default:
			// Terminal non-success. The order deliberately stays UNPAID so
			// the user can retry; FailPayment is a separate, explicit call.
			paymentPolls.WithLabelValues("failed").Inc()
			l.Info("gateway reported terminal failure",
				"order_id", orderID, "code", reply.Code, "trade_status", reply.TradeStatus)
			return ErrPaymentFailed
		}
	}
}

// FailPayment is the explicit UNPAID -> FAILED transition.
func (uc *ReconcilePayment) FailPayment(ctx context.Context, userID, orderID string) error {
	if _, err := uc.pendingOrder(ctx, userID, orderID); err != nil {
		return err
	}
	moved, err := uc.store.UpdateStatusIf(ctx, orderID, domain.StatusUnpaid, domain.StatusFailed)
	if err != nil {
		return fmt.Errorf("mark order failed: %w", err)
	}
	if !moved {
		return ErrOrderNotPending
	}
	uc.publish(ctx, userID, orderID, domain.StatusFailed, "")
	return nil
}

func (uc *ReconcilePayment) settle(ctx context.Context, order *domain.Order, tradeID string) error {
	moved, err := uc.store.MarkPaid(ctx, order.ID, tradeID)
	if err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}
	if !moved {
		// Someone else settled or failed it since our pending check.
		return ErrOrderNotPending
	}
	uc.publish(ctx, order.UserID, order.ID, domain.StatusUncommented, tradeID)
	return nil
}

// pendingOrder enforces the precondition shared by every reconciliation
// entry point: the order exists, belongs to the user, is UNPAID, and pays
// through the gateway. Nothing contacts the gateway when this fails.
func (uc *ReconcilePayment) pendingOrder(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	order, err := uc.store.GetForUser(ctx, orderID, userID)
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	if order == nil || order.Status != domain.StatusUnpaid || order.PayMethod != domain.PayMethodGateway {
		return nil, ErrOrderNotPending
	}
	return order, nil
}

func (uc *ReconcilePayment) publish(ctx context.Context, userID, orderID string, status domain.Status, tradeID string) {
	if uc.events == nil {
		return
	}
	msg := OrderStatusChangedMsg{
		MsgID:   uuid.NewString(),
		OrderID: orderID,
		UserID:  userID,
		Status:  string(status),
		TradeID: tradeID,
	}
	if err := uc.events.PublishStatusChanged(ctx, msg); err != nil {
		logging.FromCtx(ctx).Warn("status event publish failed", "order_id", orderID, "error", err)
	}
}
