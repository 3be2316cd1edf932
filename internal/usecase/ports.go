package usecase

import (
	"context"

	domain "github.com/quangdm/freshcart-api/internal/entity"
)

// InventoryLedger reads SKU rows and performs the optimistic conditional
// decrement. DecrementStock must be a single atomic conditional write:
// stock becomes observedStock-qty and sales grows by qty only if the
// persisted stock still equals observedStock. false means the precondition
// failed (a concurrent commit won the race), not an error.
type InventoryLedger interface {
	GetSKU(ctx context.Context, skuID string) (*domain.SKU, error)
	DecrementStock(ctx context.Context, skuID string, observedStock, qty int) (bool, error)
}

// CommitTx is the transactional scope of one order commit. Everything
// written through it stays invisible to other readers until RunInTx commits;
// any error unwinds it completely.
type CommitTx interface {
	InventoryLedger
	InsertOrder(ctx context.Context, o *domain.Order) error
	InsertLine(ctx context.Context, l *domain.OrderLine) error
	UpdateTotals(ctx context.Context, orderID string, amountCents int64, totalCount int) error
}

type OrderStore interface {
	// RunInTx opens the commit boundary: fn returning an error rolls back
	// everything written through the CommitTx, nil commits it.
	RunInTx(ctx context.Context, fn func(tx CommitTx) error) error

	GetForUser(ctx context.Context, orderID, userID string) (*domain.Order, error)
	ListForUser(ctx context.Context, userID string, page, perPage int) ([]domain.Order, int, error)
	GetLines(ctx context.Context, orderID string) ([]domain.OrderLine, error)

	// MarkPaid performs the guarded UNPAID -> UNCOMMENTED transition and
	// records the gateway trade id in the same conditional update.
	MarkPaid(ctx context.Context, orderID, tradeID string) (bool, error)
	// UpdateStatusIf is the generic guarded transition.
	UpdateStatusIf(ctx context.Context, orderID string, from, to domain.Status) (bool, error)
	SaveLineComment(ctx context.Context, orderID, skuID, comment string) error
}

type AddressStore interface {
	// GetForUser returns nil, nil when the address does not exist or is
	// owned by a different user.
	GetForUser(ctx context.Context, addressID, userID string) (*domain.Address, error)
}

// CartSource supplies the pending purchase list. Backed by the per-user
// cart hash; the commit path only reads it and best-effort-removes
// committed entries afterwards.
type CartSource interface {
	Quantities(ctx context.Context, userID string) (map[string]int, error)
	SetQuantity(ctx context.Context, userID, skuID string, count int) error
	Remove(ctx context.Context, userID, skuID string) error
	RemoveCommitted(ctx context.Context, userID string, skuIDs []string) error
}

// GatewayReply is the raw provider answer to a trade query. Classification
// into success / pending / failure belongs to the reconciler.
type GatewayReply struct {
	Code        string
	TradeStatus string
	TradeID     string
}

type PaymentGateway interface {
	// CreatePaymentIntent returns the opaque redirect locator the buyer is
	// sent to.
	CreatePaymentIntent(ctx context.Context, orderID string, amountCents int64, subject string) (string, error)
	QueryStatus(ctx context.Context, orderID string) (GatewayReply, error)
}

// TaskQueue carries fire-and-forget side effects (notification mail, page
// regeneration). Publish failures never fail the commit path.
type TaskQueue interface {
	PublishCommitted(ctx context.Context, msg OrderCommittedMsg) error
}

// EventPublisher announces order status transitions to downstream consumers.
type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, msg OrderStatusChangedMsg) error
}

type DetailCache interface {
	// InvalidateDetail drops the cached product detail page for a SKU.
	InvalidateDetail(ctx context.Context, skuID string) error
	SetOrderStatus(ctx context.Context, orderID string, status string) error
}
