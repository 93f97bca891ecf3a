package outboxrepo

import (
	"context"

	"gorm.io/gorm"

	"orderflow/internal/core/domain/model/outbox"
	"orderflow/internal/pkg/errs"
)

// GormOutboxRepository implements ports.OutboxRepository using GORM.
type GormOutboxRepository struct {
	db *gorm.DB
}

// NewGormOutboxRepository creates a new GORM outbox repository.
func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

// Add persists a new pending event.
func (r *GormOutboxRepository) Add(ctx context.Context, event *outbox.Event) error {
	dto := fromDomain(event)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetPending retrieves up to limit unsent events, oldest first, so the relay
// publishes in enqueue order.
func (r *GormOutboxRepository) GetPending(ctx context.Context, limit int) ([]*outbox.Event, error) {
	var dtos []EventDTO
	err := r.db.WithContext(ctx).
		Where("status = ?", string(outbox.StatusPending)).
		Order("created_at ASC").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	events := make([]*outbox.Event, 0, len(dtos))
	for _, dto := range dtos {
		event, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		events = append(events, event)
	}

	return events, nil
}

// Update persists the delivery state of an event.
func (r *GormOutboxRepository) Update(ctx context.Context, event *outbox.Event) error {
	result := r.db.WithContext(ctx).Model(&EventDTO{}).
		Where("id = ?", event.ID().Bytes()).
		Updates(map[string]any{
			"status":  string(event.Status()),
			"sent_at": event.SentAt(),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("outbox event", event.ID().String())
	}

	return nil
}
