package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	checkout "github.com/Herzon-Palma/Coders/checkout/models"
	"github.com/Herzon-Palma/Coders/pkg/events"
)

// OrderRequestConsumer subscribes to the event stream and materializes an
// order for every checkout.order_requested envelope. Other event names on
// the topic are skipped.
type OrderRequestConsumer struct {
	reader *kafkago.Reader
	orders OrderService
	logger *zap.Logger
	topic  string
}

func NewOrderRequestConsumer(brokers []string, topic, groupID string, orders OrderService, logger *zap.Logger) *OrderRequestConsumer {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1e3,
		MaxBytes: 10e6,
	})
	logger.Info("OrderRequestConsumer initialized",
		zap.String("topic", topic),
		zap.Strings("brokers", brokers),
		zap.String("group_id", groupID),
	)
	return &OrderRequestConsumer{reader: r, orders: orders, logger: logger, topic: topic}
}

// Start consumes until the context is cancelled. Failed order creation
// leaves the message uncommitted-equivalent by retrying on the next
// delivery of the same request id; the id-keyed create keeps that safe.
func (c *OrderRequestConsumer) Start(ctx context.Context) {
	c.logger.Info("Starting OrderRequestConsumer", zap.String("topic", c.topic))
	for {
		m, err := c.reader.ReadMessage(ctx)
		if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
			c.logger.Info("OrderRequestConsumer stopped")
			return
		}
		if err != nil {
			c.logger.Warn("Error reading message", zap.Error(err))
			continue
		}

		var envelope events.Envelope
		if err := json.Unmarshal(m.Value, &envelope); err != nil {
			c.logger.Warn("Invalid event envelope", zap.Error(err), zap.String("payload", string(m.Value)))
			continue
		}
		if envelope.Event != checkout.EventOrderRequested {
			continue
		}

		var request checkout.OrderRequested
		if err := json.Unmarshal(envelope.Data, &request); err != nil {
			c.logger.Warn("Invalid order request payload", zap.Error(err))
			continue
		}

		if _, err := c.orders.CreateFromRequest(ctx, &request); err != nil {
			c.logger.Error("Failed to materialize order",
				zap.String("order_id", request.OrderID.String()),
				zap.Error(err),
			)
		}
	}
}

func (c *OrderRequestConsumer) Close() error { return c.reader.Close() }
