package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafka.Writer used here.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderSubmittedEvent is the Kafka payload for a submitted order.
type OrderSubmittedEvent struct {
	OrderID     int64     `json:"orderId"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// KafkaNotifier publishes an OrderSubmittedEvent keyed by order id.
type KafkaNotifier struct {
	writer messageWriter
	logger zerolog.Logger
	now    func() time.Time
}

// NewKafkaNotifier creates a notifier writing to topic on brokers.
func NewKafkaNotifier(brokers []string, topic string, logger zerolog.Logger) *KafkaNotifier {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	return newKafkaNotifier(w, logger)
}

func newKafkaNotifier(w messageWriter, logger zerolog.Logger) *KafkaNotifier {
	return &KafkaNotifier{
		writer: w,
		logger: logger.With().Str("component", "kafka-notifier").Logger(),
		now:    time.Now,
	}
}

func (n *KafkaNotifier) Notify(ctx context.Context, orderID int64) error {
	payload, err := json.Marshal(OrderSubmittedEvent{OrderID: orderID, SubmittedAt: n.now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(orderID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order.submitted")},
		},
	}
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		n.logger.Error().Err(err).Int64("order_id", orderID).Msg("failed to publish order event")
		return fmt.Errorf("failed to publish order %d: %w", orderID, err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
