package usecase

import (
	"context"
	"fmt"

	domain "github.com/quangdm/freshcart-api/internal/entity"
	"github.com/quangdm/freshcart-api/internal/logging"
)

// FinishOrder stores the buyer's per-line reviews and closes the order with
// the guarded UNCOMMENTED -> FINISHED transition.
type FinishOrder struct {
	store OrderStore
	cache DetailCache
}

func NewFinishOrder(store OrderStore, cache DetailCache) *FinishOrder {
	return &FinishOrder{store: store, cache: cache}
}

type FinishOrderInput struct {
	UserID   string
	OrderID  string
	Comments map[string]string // sku id -> review text
}

func (uc *FinishOrder) Execute(ctx context.Context, in FinishOrderInput) error {
	order, err := uc.store.GetForUser(ctx, in.OrderID, in.UserID)
	if err != nil {
		return fmt.Errorf("load order: %w", err)
	}
	if order == nil || order.Status != domain.StatusUncommented {
		return ErrOrderNotPending
	}

	lines, err := uc.store.GetLines(ctx, in.OrderID)
	if err != nil {
		return fmt.Errorf("load order lines: %w", err)
	}

	l := logging.FromCtx(ctx)
	for _, line := range lines {
		comment, ok := in.Comments[line.SKUID]
		if !ok {
			continue
		}
		if err := uc.store.SaveLineComment(ctx, in.OrderID, line.SKUID, comment); err != nil {
			return fmt.Errorf("save comment for sku %s: %w", line.SKUID, err)
		}
		if uc.cache != nil {
			// Cached product detail now shows a stale review count.
			if err := uc.cache.InvalidateDetail(ctx, line.SKUID); err != nil {
				l.Warn("detail cache invalidation failed", "sku_id", line.SKUID, "error", err)
			}
		}
	}

	moved, err := uc.store.UpdateStatusIf(ctx, in.OrderID, domain.StatusUncommented, domain.StatusFinished)
	if err != nil {
		return fmt.Errorf("finish order: %w", err)
	}
	if !moved {
		return ErrOrderNotPending
	}
	return nil
}
