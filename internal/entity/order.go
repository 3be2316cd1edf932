package domain

import "time"

type Status string

const (
	// StatusUnpaid is the state every freshly committed order starts in.
	StatusUnpaid Status = "UNPAID"
	// StatusUncommented means payment settled; the order waits for reviews.
	StatusUncommented Status = "UNCOMMENTED"
	// StatusFinished means every line item has been reviewed.
	StatusFinished Status = "FINISHED"
	// StatusFailed is a terminal payment failure, set only by an explicit call.
	StatusFailed Status = "FAILED"
)

// CanTransition reports whether s -> to is a legal move in the order
// lifecycle. Anything not listed here is rejected by the guarded updates.
func (s Status) CanTransition(to Status) bool {
	switch s {
	case StatusUnpaid:
		return to == StatusUncommented || to == StatusFailed
	case StatusUncommented:
		return to == StatusFinished
	default:
		return false
	}
}

type PayMethod string

const (
	// PayMethodCOD settles on delivery and never touches the gateway.
	PayMethodCOD PayMethod = "COD"
	// PayMethodGateway pays through the external payment provider.
	PayMethodGateway PayMethod = "GATEWAY"
)

func (m PayMethod) Valid() bool {
	return m == PayMethodCOD || m == PayMethodGateway
}

type Order struct {
	ID          string // time-derived prefix + user id, unique per user-moment
	UserID      string
	AddressID   string
	PayMethod   PayMethod
	Status      Status
	TotalCount  int
	AmountCents int64 // line total + shipping surcharge
	TradeID     string
	CreatedAt   time.Time
}

// OrderLine captures quantity and the unit price observed at commit time.
// PriceCents is a snapshot: later SKU price changes never re-price a line.
type OrderLine struct {
	OrderID    string
	SKUID      string
	Count      int
	PriceCents int64
	Comment    string
}

type Address struct {
	ID       string
	UserID   string
	Receiver string
	Detail   string
	Phone    string
}
