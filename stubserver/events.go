package stubserver

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/jovincart/storefront/models"
)

// OrderEvent is published when an order is placed, for downstream consumers
// (fulfilment, notifications).
type OrderEvent struct {
	Event       string    `json:"event"`
	UserID      string    `json:"userId"`
	OrderID     string    `json:"orderId"`
	AmountCents int64     `json:"amountCents"`
	Timestamp   time.Time `json:"timestamp"`
}

// EventPublisher writes order events to Kafka. Publishing is best-effort:
// a broker outage must not fail the order.
type EventPublisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

func NewEventPublisher(brokers []string, topic string, log *zap.Logger) *EventPublisher {
	return &EventPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
		log: log,
	}
}

func (p *EventPublisher) PublishOrderPlaced(ctx context.Context, order models.Order) {
	var amount int64
	for _, line := range order.Items {
		amount += line.Subtotal()
	}
	event := OrderEvent{
		Event:       "order.placed",
		UserID:      order.UserID,
		OrderID:     order.OrderID,
		AmountCents: amount,
		Timestamp:   time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.log.Error("marshal order event", zap.Error(err))
		return
	}
	msg := kafka.Message{Key: []byte(order.UserID), Value: data}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Warn("failed to publish order event", zap.String("orderId", order.OrderID), zap.Error(err))
	}
}

func (p *EventPublisher) Close() {
	_ = p.writer.Close()
}
