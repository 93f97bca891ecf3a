package outbox

import (
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// Status is the delivery state of an outbox event.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusSent    Status = "SENT"
)

// Event is a durable record of a domain occurrence written in the same
// transaction as the state change that produced it. The relay reads pending
// events, publishes them to the broker, and marks them sent, so a broker
// outage can delay publication but never lose it.
type Event struct {
	id        kernel.UUID
	topic     string
	key       string
	payload   []byte
	status    Status
	createdAt time.Time
	sentAt    *time.Time

	isConstructed bool
}

// NewEvent creates a PENDING event. key selects the broker partition; use the
// entity id so events for one entity stay ordered.
func NewEvent(topic string, key string, payload []byte) (*Event, error) {
	if topic == "" {
		return nil, errs.NewValueIsRequiredError("topic")
	}
	if key == "" {
		return nil, errs.NewValueIsRequiredError("key")
	}
	if len(payload) == 0 {
		return nil, errs.NewValueIsRequiredError("payload")
	}

	return &Event{
		id:            kernel.NewUUID(),
		topic:         topic,
		key:           key,
		payload:       payload,
		status:        StatusPending,
		createdAt:     time.Now().UTC(),
		isConstructed: true,
	}, nil
}

// RestoreEvent reconstructs an event from persistence.
func RestoreEvent(
	id kernel.UUID,
	topic string,
	key string,
	payload []byte,
	status Status,
	createdAt time.Time,
	sentAt *time.Time,
) (*Event, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	return &Event{
		id:            id,
		topic:         topic,
		key:           key,
		payload:       payload,
		status:        status,
		createdAt:     createdAt,
		sentAt:        sentAt,
		isConstructed: true,
	}, nil
}

// ID returns the event identifier.
func (e *Event) ID() kernel.UUID { return e.id }

// Topic returns the broker topic the event targets.
func (e *Event) Topic() string { return e.topic }

// Key returns the partition key.
func (e *Event) Key() string { return e.key }

// Payload returns the serialized event body.
func (e *Event) Payload() []byte { return e.payload }

// Status returns the delivery state.
func (e *Event) Status() Status { return e.status }

// CreatedAt returns when the event was enqueued.
func (e *Event) CreatedAt() time.Time { return e.createdAt }

// SentAt returns when the event was published, or nil while pending.
func (e *Event) SentAt() *time.Time { return e.sentAt }

// MarkSent records successful publication.
func (e *Event) MarkSent() error {
	if e.status != StatusPending {
		return errs.NewValueIsInvalidErrorWithCause("outbox event status",
			fmt.Errorf("cannot mark a %s event as sent", e.status))
	}

	now := time.Now().UTC()
	e.status = StatusSent
	e.sentAt = &now
	return nil
}
