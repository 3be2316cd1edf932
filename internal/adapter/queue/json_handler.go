package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// JSONHandler adapts a typed message handler to raw deliveries: d.Body is
// decoded into T before HandleFunc runs. A body that does not decode is a
// permanently bad message; the returned error carries the message id and
// routing key so the resulting nack can be traced on the broker side.
type JSONHandler[T any] struct {
	HandleFunc func(ctx context.Context, msg T) error
}

func (h JSONHandler[T]) Handle(ctx context.Context, d amqp.Delivery) error {
	var msg T
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		return fmt.Errorf("decode delivery %s (%s): %w", d.MessageId, d.RoutingKey, err)
	}
	return h.HandleFunc(ctx, msg)
}
