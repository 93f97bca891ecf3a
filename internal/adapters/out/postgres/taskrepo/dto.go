// Package taskrepo provides persistence for task instances and their
// idempotency markers.
package taskrepo

import (
	"time"

	"github.com/google/uuid"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/task"
)

// InstanceDTO represents the database structure for task instances. The
// unique index on (task_type, entity_id) keeps one instance per side effect
// per entity.
type InstanceDTO struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	TaskType            string    `gorm:"uniqueIndex:idx_task_entity"`
	EntityID            uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_task_entity"`
	CausingTransitionID uuid.UUID `gorm:"type:uuid"`
	Attempts            int
	NextRunAt           time.Time `gorm:"index"`
	Status              string    `gorm:"index"`
	LastError           string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TableName specifies the database table name for task instances.
func (InstanceDTO) TableName() string {
	return "task_instances"
}

// MarkerDTO represents the database structure for idempotency markers. The
// composite primary key is the whole identity: one marker per
// (task type, entity).
type MarkerDTO struct {
	TaskType  string    `gorm:"primaryKey"`
	EntityID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Reference string
	CreatedAt time.Time
}

// TableName specifies the database table name for idempotency markers.
func (MarkerDTO) TableName() string {
	return "idempotency_markers"
}

func instanceFromDomain(instance *task.Instance) InstanceDTO {
	return InstanceDTO{
		ID:                  instance.ID().Bytes(),
		TaskType:            instance.Type().String(),
		EntityID:            instance.EntityID().Bytes(),
		CausingTransitionID: instance.CausingTransitionID().Bytes(),
		Attempts:            instance.Attempts(),
		NextRunAt:           instance.NextRunAt(),
		Status:              string(instance.Status()),
		LastError:           instance.LastError(),
		CreatedAt:           instance.CreatedAt(),
		UpdatedAt:           instance.UpdatedAt(),
	}
}

func instanceToDomain(dto InstanceDTO) (*task.Instance, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	entityID, err := kernel.UUIDFromBytes(dto.EntityID[:])
	if err != nil {
		return nil, err
	}

	transitionID, err := kernel.UUIDFromBytes(dto.CausingTransitionID[:])
	if err != nil {
		return nil, err
	}

	return task.RestoreInstance(
		id,
		task.Type(dto.TaskType),
		entityID,
		transitionID,
		dto.Attempts,
		dto.NextRunAt,
		task.Status(dto.Status),
		dto.LastError,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}

func markerFromDomain(marker *task.Marker) MarkerDTO {
	return MarkerDTO{
		TaskType:  marker.TaskType().String(),
		EntityID:  marker.EntityID().Bytes(),
		Reference: marker.Reference(),
		CreatedAt: marker.CreatedAt(),
	}
}

func markerToDomain(dto MarkerDTO) (*task.Marker, error) {
	entityID, err := kernel.UUIDFromBytes(dto.EntityID[:])
	if err != nil {
		return nil, err
	}

	return task.RestoreMarker(task.Type(dto.TaskType), entityID, dto.Reference, dto.CreatedAt)
}
