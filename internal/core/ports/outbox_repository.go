package ports

import (
	"context"

	"orderflow/internal/core/domain/model/outbox"
)

// OutboxRepository defines the persistence contract for outbox events.
type OutboxRepository interface {
	// Add persists a new pending event.
	Add(ctx context.Context, event *outbox.Event) error

	// GetPending retrieves up to limit unsent events, oldest first.
	GetPending(ctx context.Context, limit int) ([]*outbox.Event, error)

	// Update persists the delivery state of an event after publication.
	Update(ctx context.Context, event *outbox.Event) error
}
