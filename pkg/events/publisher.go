// Package events ships drained domain events to Kafka for the other
// bounded contexts to consume.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Herzon-Palma/Coders/pkg/domain"
)

// Publisher hands a drained domain event to the outside world. The key is
// the owning aggregate's id so one aggregate's events stay ordered within a
// partition.
type Publisher interface {
	Publish(ctx context.Context, key string, event domain.Event) error
}

// Envelope is the wire format: the event name for routing plus the event's
// own JSON payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// KafkaPublisher writes envelopes to a single topic.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	logger.Info("kafka publisher initialized", zap.String("topic", topic), zap.Strings("brokers", brokers))
	return &KafkaPublisher{writer: w, logger: logger}
}

func (p *KafkaPublisher) Publish(ctx context.Context, key string, event domain.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.EventName(), err)
	}
	envelope, err := json.Marshal(Envelope{Event: event.EventName(), Data: data})
	if err != nil {
		return fmt.Errorf("marshal envelope for %s: %w", event.EventName(), err)
	}

	msg := kafka.Message{Key: []byte(key), Value: envelope}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("failed to publish event",
			zap.String("event", event.EventName()), zap.String("key", key), zap.Error(err))
		return fmt.Errorf("publish %s: %w", event.EventName(), err)
	}
	p.logger.Debug("event published", zap.String("event", event.EventName()), zap.String("key", key))
	return nil
}

func (p *KafkaPublisher) Close() error { return p.writer.Close() }

// PublishAll ships a batch of drained events in order, stopping at the
// first failure.
func PublishAll(ctx context.Context, p Publisher, key string, events []domain.Event) error {
	for _, event := range events {
		if err := p.Publish(ctx, key, event); err != nil {
			return err
		}
	}
	return nil
}
