package domain

// SKU is a purchasable product variant. Stock and Sales are mutated only by
// the ledger's conditional decrement, always as a pair.
type SKU struct {
	ID         string
	Name       string
	PriceCents int64
	Stock      int
	Sales      int
}
