package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	domain "github.com/quangdm/freshcart-api/internal/entity"
	"github.com/quangdm/freshcart-api/internal/logging"
)

// stockAttempts is how many times one line may retry the conditional
// decrement before the whole commit aborts with a conflict. No delay
// between attempts; contention is expected to be rare and short.
const stockAttempts = 3

type CommitOrderInput struct {
	UserID    string
	AddressID string
	PayMethod domain.PayMethod
	SKUIDs    []string
	// Quantities is the externally supplied cart mapping: requested count
	// per SKU id. SKUs missing from it cannot be committed.
	Quantities map[string]int
}

type CommitOrderOutput struct {
	OrderID     string
	AmountCents int64
	TotalCount  int
	// CartCleanupFailed reports that the best-effort removal of committed
	// SKUs from the live cart did not go through. The order is durable
	// regardless; this is a warning, never an error.
	CartCleanupFailed bool
}

// CommitOrder converts a pending purchase list into a durable order while
// decrementing finite stock under concurrent checkout load.
type CommitOrder struct {
	store       OrderStore
	addresses   AddressStore
	cart        CartSource
	tasks       TaskQueue
	shippingFee int64
	now         func() time.Time
}

func NewCommitOrder(store OrderStore, addresses AddressStore, cart CartSource, tasks TaskQueue, shippingFeeCents int64) *CommitOrder {
	return &CommitOrder{
		store:       store,
		addresses:   addresses,
		cart:        cart,
		tasks:       tasks,
		shippingFee: shippingFeeCents,
		now:         time.Now,
	}
}

func (uc *CommitOrder) Execute(ctx context.Context, in CommitOrderInput) (CommitOrderOutput, error) {
	l := logging.FromCtx(ctx)

	// Fail fast before anything is written.
	addr, err := uc.addresses.GetForUser(ctx, in.AddressID, in.UserID)
	if err != nil {
		commitResults.WithLabelValues(CodeCommitFailed).Inc()
		return CommitOrderOutput{}, fmt.Errorf("load address: %w", err)
	}
	if addr == nil {
		commitResults.WithLabelValues(CodeAddressInvalid).Inc()
		return CommitOrderOutput{}, ErrAddressInvalid
	}
	if !in.PayMethod.Valid() {
		commitResults.WithLabelValues(CodePaymentMethodUnsupported).Inc()
		return CommitOrderOutput{}, ErrPaymentMethodUnsupported
	}
	if len(in.SKUIDs) == 0 {
		commitResults.WithLabelValues(CodeSKUNotFound).Inc()
		return CommitOrderOutput{}, ErrSKUNotFound
	}

	// Time-derived prefix + user id: unique per user-moment.
	orderID := uc.now().Format("20060102150405") + in.UserID

	var (
		totalAmount int64
		totalCount  int
	)
	err = uc.store.RunInTx(ctx, func(tx CommitTx) error {
		// The header row with zero totals anchors the rollback boundary.
		order := &domain.Order{
			ID:        orderID,
			UserID:    in.UserID,
			AddressID: in.AddressID,
			PayMethod: in.PayMethod,
			Status:    domain.StatusUnpaid,
			CreatedAt: uc.now(),
		}
		if err := tx.InsertOrder(ctx, order); err != nil {
			return fmt.Errorf("insert order header: %w", err)
		}

		for _, skuID := range in.SKUIDs {
			if err := uc.commitLine(ctx, tx, orderID, skuID, in.Quantities, &totalAmount, &totalCount); err != nil {
				return err
			}
		}

		return tx.UpdateTotals(ctx, orderID, totalAmount+uc.shippingFee, totalCount)
	})
	if err != nil {
		code := ReasonCode(err)
		commitResults.WithLabelValues(code).Inc()
		if code == CodeCommitFailed && !errors.Is(err, ErrCommitFailed) {
			// Infrastructure surprise inside the boundary: rolled back,
			// surfaced as the catch-all.
			l.Error("order commit rolled back", "order_id", orderID, "error", err)
			return CommitOrderOutput{}, fmt.Errorf("%w: %v", ErrCommitFailed, err)
		}
		return CommitOrderOutput{}, err
	}
	commitResults.WithLabelValues(CodeOK).Inc()

	out := CommitOrderOutput{
		OrderID:     orderID,
		AmountCents: totalAmount + uc.shippingFee,
		TotalCount:  totalCount,
	}

	// Post-commit, non-transactional. The order is already durable, so a
	// failed cart cleanup is logged and reported as a warning only.
	if err := uc.cart.RemoveCommitted(ctx, in.UserID, in.SKUIDs); err != nil {
		l.Warn("cart cleanup failed after commit", "order_id", orderID, "error", err)
		out.CartCleanupFailed = true
	}

	if uc.tasks != nil {
		msg := OrderCommittedMsg{
			MsgID:       uuid.NewString(),
			OrderID:     orderID,
			UserID:      in.UserID,
			AmountCents: out.AmountCents,
			TotalCount:  totalCount,
		}
		if err := uc.tasks.PublishCommitted(ctx, msg); err != nil {
			l.Warn("order.committed publish failed", "order_id", orderID, "error", err)
		}
	}

	return out, nil
}

// commitLine reserves stock for one SKU and writes its order line. Each
// attempt re-reads the SKU so the decrement always races against fresh
// stock; the price written into the line is the one observed by the
// attempt that won.
func (uc *CommitOrder) commitLine(ctx context.Context, tx CommitTx, orderID, skuID string, quantities map[string]int, totalAmount *int64, totalCount *int) error {
	count, ok := quantities[skuID]
	if !ok || count <= 0 {
		return ErrSKUNotFound
	}

	for attempt := 0; attempt < stockAttempts; attempt++ {
		sku, err := tx.GetSKU(ctx, skuID)
		if err != nil {
			return fmt.Errorf("read sku %s: %w", skuID, err)
		}
		if sku == nil {
			return ErrSKUNotFound
		}
		if count > sku.Stock {
			return ErrInsufficientStock
		}

		updated, err := tx.DecrementStock(ctx, skuID, sku.Stock, count)
		if err != nil {
			return fmt.Errorf("decrement stock %s: %w", skuID, err)
		}
		if !updated {
			// Another commit changed stock between our read and write.
			stockConflicts.Inc()
			continue
		}

		line := &domain.OrderLine{
			OrderID:    orderID,
			SKUID:      skuID,
			Count:      count,
			PriceCents: sku.PriceCents,
		}
		if err := tx.InsertLine(ctx, line); err != nil {
			return fmt.Errorf("insert order line %s: %w", skuID, err)
		}

		*totalAmount += sku.PriceCents * int64(count)
		*totalCount += count
		return nil
	}

	return ErrCommitConflict
}
