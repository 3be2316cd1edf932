package usecase

import (
	"context"
	"fmt"
)

type PreviewLine struct {
	SKUID       string
	Name        string
	Count       int
	PriceCents  int64
	AmountCents int64
}

type PreviewOrderOutput struct {
	Lines            []PreviewLine
	TotalCount       int
	LinesAmountCents int64
	ShippingCents    int64
	AmountCents      int64
}

// PreviewOrder prices a pending purchase list before commit. Quantities
// come from the cart, or from an explicit buy-now count for a single SKU.
// The stock check here is advisory; the conditional decrement at commit
// time is the authoritative one.
type PreviewOrder struct {
	skus        InventoryLedger
	cart        CartSource
	shippingFee int64
}

func NewPreviewOrder(skus InventoryLedger, cart CartSource, shippingFeeCents int64) *PreviewOrder {
	return &PreviewOrder{skus: skus, cart: cart, shippingFee: shippingFeeCents}
}

type PreviewOrderInput struct {
	UserID string
	SKUIDs []string
	// BuyNowCount > 0 selects the buy-now path: a single SKU with an
	// explicit count that is also written back into the cart, so the
	// purchase survives a failed checkout attempt.
	BuyNowCount int
}

func (uc *PreviewOrder) Execute(ctx context.Context, in PreviewOrderInput) (PreviewOrderOutput, error) {
	if len(in.SKUIDs) == 0 {
		return PreviewOrderOutput{}, ErrSKUNotFound
	}

	quantities := map[string]int{}
	if in.BuyNowCount > 0 {
		for _, id := range in.SKUIDs {
			quantities[id] = in.BuyNowCount
		}
	} else {
		cart, err := uc.cart.Quantities(ctx, in.UserID)
		if err != nil {
			return PreviewOrderOutput{}, fmt.Errorf("read cart: %w", err)
		}
		quantities = cart
	}

	out := PreviewOrderOutput{ShippingCents: uc.shippingFee}
	for _, skuID := range in.SKUIDs {
		sku, err := uc.skus.GetSKU(ctx, skuID)
		if err != nil {
			return PreviewOrderOutput{}, fmt.Errorf("read sku %s: %w", skuID, err)
		}
		if sku == nil {
			return PreviewOrderOutput{}, ErrSKUNotFound
		}

		count, ok := quantities[skuID]
		if !ok || count <= 0 {
			return PreviewOrderOutput{}, ErrSKUNotFound
		}
		if in.BuyNowCount > 0 {
			if count > sku.Stock {
				return PreviewOrderOutput{}, ErrInsufficientStock
			}
			if err := uc.cart.SetQuantity(ctx, in.UserID, skuID, count); err != nil {
				return PreviewOrderOutput{}, fmt.Errorf("stash buy-now in cart: %w", err)
			}
		}

		amount := sku.PriceCents * int64(count)
		out.Lines = append(out.Lines, PreviewLine{
			SKUID:       skuID,
			Name:        sku.Name,
			Count:       count,
			PriceCents:  sku.PriceCents,
			AmountCents: amount,
		})
		out.TotalCount += count
		out.LinesAmountCents += amount
	}

	out.AmountCents = out.LinesAmountCents + out.ShippingCents
	return out, nil
}
