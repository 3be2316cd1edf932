package usecase

// Published to RabbitMQ right after the commit transaction lands.
type OrderCommittedMsg struct {
	MsgID       string `json:"msgId"`
	OrderID     string `json:"orderId"`
	UserID      string `json:"userId"`
	AmountCents int64  `json:"amountCents"`
	TotalCount  int    `json:"totalCount"`
}

// Published to Kafka when the reconciler moves an order to a terminal state.
type OrderStatusChangedMsg struct {
	MsgID   string `json:"msgId"`
	OrderID string `json:"orderId"`
	UserID  string `json:"userId"`
	Status  string `json:"status"`
	TradeID string `json:"tradeId,omitempty"`
}
