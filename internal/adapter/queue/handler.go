package queue

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler consumes a single delivery from one of the service's queues.
// Implementations must tolerate redelivery: a consumer restart can hand
// the same order.committed message over again, so handlers key their work
// on the message id, not on delivery count. nil acks the delivery; an
// error nacks it, with requeue behavior set on the Router.
type Handler interface {
	Handle(ctx context.Context, d amqp.Delivery) error
}
