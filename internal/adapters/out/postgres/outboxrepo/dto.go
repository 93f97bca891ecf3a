// Package outboxrepo provides persistence for the transactional outbox.
package outboxrepo

import (
	"time"

	"github.com/google/uuid"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/outbox"
)

// EventDTO represents the database structure for outbox events.
// partition_key avoids the reserved column name "key".
type EventDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Topic        string
	PartitionKey string
	Payload      []byte
	Status       string    `gorm:"index"`
	CreatedAt    time.Time `gorm:"index"`
	SentAt       *time.Time
}

// TableName specifies the database table name for outbox events.
func (EventDTO) TableName() string {
	return "outbox_events"
}

func fromDomain(event *outbox.Event) EventDTO {
	return EventDTO{
		ID:           event.ID().Bytes(),
		Topic:        event.Topic(),
		PartitionKey: event.Key(),
		Payload:      event.Payload(),
		Status:       string(event.Status()),
		CreatedAt:    event.CreatedAt(),
		SentAt:       event.SentAt(),
	}
}

func toDomain(dto EventDTO) (*outbox.Event, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return outbox.RestoreEvent(
		id,
		dto.Topic,
		dto.PartitionKey,
		dto.Payload,
		outbox.Status(dto.Status),
		dto.CreatedAt,
		dto.SentAt,
	)
}
