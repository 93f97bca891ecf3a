package task

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// Marker records that a side effect for (task type, entity) was already
// performed. The pair is unique in storage, so a redelivered or concurrently
// retried handler that finds a marker skips the effect instead of repeating it.
type Marker struct {
	taskType  Type
	entityID  kernel.UUID
	reference string
	createdAt time.Time

	isConstructed bool
}

// NewMarker creates a marker. reference carries the external proof of the
// effect, such as an invoice number or a gateway transaction id.
func NewMarker(taskType Type, entityID kernel.UUID, reference string) (*Marker, error) {
	if err := taskType.Validate(); err != nil {
		return nil, err
	}
	if err := entityID.Validate(); err != nil {
		return nil, err
	}
	if reference == "" {
		return nil, errs.NewValueIsRequiredError("reference")
	}

	return &Marker{
		taskType:      taskType,
		entityID:      entityID,
		reference:     reference,
		createdAt:     time.Now().UTC(),
		isConstructed: true,
	}, nil
}

// RestoreMarker reconstructs a marker from persistence.
func RestoreMarker(taskType Type, entityID kernel.UUID, reference string, createdAt time.Time) (*Marker, error) {
	if err := taskType.Validate(); err != nil {
		return nil, err
	}
	if err := entityID.Validate(); err != nil {
		return nil, err
	}

	return &Marker{
		taskType:      taskType,
		entityID:      entityID,
		reference:     reference,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

// TaskType returns the task type the marker guards.
func (m *Marker) TaskType() Type { return m.taskType }

// EntityID returns the entity the effect was applied to.
func (m *Marker) EntityID() kernel.UUID { return m.entityID }

// Reference returns the external reference produced by the effect.
func (m *Marker) Reference() string { return m.reference }

// CreatedAt returns when the effect completed.
func (m *Marker) CreatedAt() time.Time { return m.createdAt }
