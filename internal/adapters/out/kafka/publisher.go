package kafka

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"

	"orderflow/internal/core/domain/model/outbox"
	"orderflow/internal/pkg/errs"
)

// messageWriter is the slice of *kafka.Writer the publisher needs.
// Narrowed to an interface so tests can substitute an in-memory writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Publisher delivers outbox events to Kafka. The underlying writer is not
// bound to a topic; each event carries its own destination, so one publisher
// serves the task and alert topics alike.
type Publisher struct {
	writer messageWriter
}

// NewPublisher creates a Publisher on top of a topic-less kafka writer.
func NewPublisher(writer *kafka.Writer) (*Publisher, error) {
	if writer == nil {
		return nil, errs.NewValueIsRequiredError("writer")
	}
	return &Publisher{writer: writer}, nil
}

// Publish writes a single event to its topic. The event key keeps all
// messages for one entity on the same partition, preserving their order.
func (p *Publisher) Publish(ctx context.Context, event *outbox.Event) error {
	if event == nil {
		return errs.NewValueIsRequiredError("event")
	}

	msg := kafka.Message{
		Topic: event.Topic(),
		Key:   []byte(event.Key()),
		Value: event.Payload(),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish event %s to topic %s: %w",
			event.ID(), event.Topic(), err)
	}
	return nil
}

// NewWriter builds the shared kafka writer used by the publisher.
func NewWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}

// NewReader builds a consumer-group reader for a single topic.
func NewReader(brokers []string, groupID string, topic string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   topic,
	})
}
