package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/quangdm/freshcart-api/internal/usecase"
)

// StatusPublisher emits order status transitions for downstream consumers
// (analytics, fulfillment). Keyed by order id so one order's events stay in
// partition order.
type StatusPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewStatusPublisher(producer sarama.SyncProducer, topic string) *StatusPublisher {
	return &StatusPublisher{producer: producer, topic: topic}
}

func (p *StatusPublisher) PublishStatusChanged(_ context.Context, msg usecase.OrderStatusChangedMsg) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal status event: %w", err)
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(msg.OrderID),
		Value: sarama.ByteEncoder(body),
	})
	if err != nil {
		return fmt.Errorf("send status event: %w", err)
	}
	return nil
}

var _ usecase.EventPublisher = (*StatusPublisher)(nil)
