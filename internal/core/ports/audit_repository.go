package ports

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/audit"
	"orderflow/internal/core/domain/model/kernel"
)

// AuditFilter narrows an audit trail query. Zero values mean "no filter".
type AuditFilter struct {
	Actor string
	From  time.Time
	To    time.Time
}

// AuditRepository defines the persistence contract for the audit ledger.
// The ledger is append-only: records are never updated or deleted, so the
// interface deliberately offers no mutation beyond Append.
type AuditRepository interface {
	// Append persists a new audit record.
	Append(ctx context.Context, record *audit.Record) error

	// GetTrail retrieves the records for one entity ordered by creation
	// time ascending, so the trail reads as the entity's history.
	GetTrail(ctx context.Context, kind kernel.EntityKind, entityID kernel.UUID, filter AuditFilter) ([]*audit.Record, error)
}
