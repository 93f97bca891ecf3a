// Package auditrepo provides persistence for the append-only audit ledger.
package auditrepo

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"orderflow/internal/core/domain/model/audit"
	"orderflow/internal/core/domain/model/kernel"
)

// RecordDTO represents the database structure for audit records. The table
// is append-only: the repository exposes no update or delete, and rows carry
// no version column because they never change.
type RecordDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EntityKind    string     `gorm:"index:idx_audit_entity"`
	EntityID      uuid.UUID  `gorm:"type:uuid;index:idx_audit_entity"`
	PreviousState *string
	NewState      string
	Actor         string `gorm:"index"`
	ActorType     string
	TriggerSource string
	Metadata      []byte `gorm:"type:jsonb"`
	OriginAddress string
	CreatedAt     time.Time `gorm:"index"`
}

// TableName specifies the database table name for audit records.
func (RecordDTO) TableName() string {
	return "audit_records"
}

func fromDomain(record *audit.Record) (RecordDTO, error) {
	var metadata []byte
	if len(record.Metadata()) > 0 {
		encoded, err := json.Marshal(record.Metadata())
		if err != nil {
			return RecordDTO{}, err
		}
		metadata = encoded
	}

	return RecordDTO{
		ID:            record.ID().Bytes(),
		EntityKind:    record.EntityKind().String(),
		EntityID:      record.EntityID().Bytes(),
		PreviousState: record.PreviousState(),
		NewState:      record.NewState(),
		Actor:         record.Actor(),
		ActorType:     record.ActorType().String(),
		TriggerSource: record.Trigger().String(),
		Metadata:      metadata,
		OriginAddress: record.OriginAddress(),
		CreatedAt:     record.CreatedAt(),
	}, nil
}

func toDomain(dto RecordDTO) (*audit.Record, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	entityID, err := kernel.UUIDFromBytes(dto.EntityID[:])
	if err != nil {
		return nil, err
	}

	var metadata map[string]string
	if len(dto.Metadata) > 0 {
		if err = json.Unmarshal(dto.Metadata, &metadata); err != nil {
			return nil, err
		}
	}

	return audit.RestoreRecord(
		id,
		kernel.EntityKind(dto.EntityKind),
		entityID,
		dto.PreviousState,
		dto.NewState,
		dto.Actor,
		kernel.ActorType(dto.ActorType),
		kernel.TriggerSource(dto.TriggerSource),
		metadata,
		dto.OriginAddress,
		dto.CreatedAt,
	)
}
