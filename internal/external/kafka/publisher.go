// Package kafka publishes payment outcome events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"MerchantWarriorGateway/internal/domain/outcome"
	"MerchantWarriorGateway/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

var _ outcome.Sink = (*Publisher)(nil)

// Publisher implements outcome.Sink using Kafka.
type Publisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// NewPublisher creates a new Kafka publisher.
func NewPublisher(l *slog.Logger, brokers []string, topic string) *Publisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	return &Publisher{
		writer: writer,
		logger: l,
	}
}

// Publish writes e keyed by its authorization, so events of one transaction
// land on the same partition in order.
func (p *Publisher) Publish(ctx context.Context, e outcome.Event) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal outcome: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(messageKey(e)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "operation", Value: []byte(e.Operation)},
		},
	}

	if err = p.writer.WriteMessages(ctx, msg); err != nil {
		metrics.OutcomeEventsTotal.WithLabelValues(metrics.PublishFailed).Inc()
		return fmt.Errorf("write to %s: %w", p.writer.Topic, err)
	}

	metrics.OutcomeEventsTotal.WithLabelValues(metrics.PublishSucceeded).Inc()
	p.logger.DebugContext(ctx, "Outcome published",
		slog.String("topic", p.writer.Topic),
		slog.String("event_id", e.EventID),
	)
	return nil
}

func messageKey(e outcome.Event) string {
	if e.Authorization != "" {
		return e.Authorization
	}
	return e.EventID
}

// Close flushes and closes the Kafka writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
