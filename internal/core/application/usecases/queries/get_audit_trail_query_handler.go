package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"orderflow/internal/core/domain/model/kernel"
)

// GetAuditTrailQueryHandler reads an entity's audit records in creation
// order, so the result reads as the entity's history.
type GetAuditTrailQueryHandler struct {
	db *gorm.DB
}

// NewGetAuditTrailQueryHandler creates a handler for audit trail reads.
func NewGetAuditTrailQueryHandler(db *gorm.DB) GetAuditTrailQueryHandler {
	return GetAuditTrailQueryHandler{db: db}
}

// Handle executes the trail query. An entity with no records yields an empty
// slice, not an error.
func (h GetAuditTrailQueryHandler) Handle(ctx context.Context, query GetAuditTrailQuery) ([]AuditEntry, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sqlText := `
		SELECT id, previous_state, new_state, actor, actor_type, trigger_source, metadata, origin_address, created_at
		FROM audit_records
		WHERE entity_kind = ? AND entity_id = ?
	`
	args := []any{query.Kind().String(), query.EntityID().Bytes()}

	if query.Actor() != "" {
		sqlText += ` AND actor = ?`
		args = append(args, query.Actor())
	}
	if !query.From().IsZero() {
		sqlText += ` AND created_at >= ?`
		args = append(args, query.From())
	}
	if !query.To().IsZero() {
		sqlText += ` AND created_at <= ?`
		args = append(args, query.To())
	}
	sqlText += ` ORDER BY created_at ASC, id ASC`

	rows, err := h.db.WithContext(ctx).Raw(sqlText, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]AuditEntry, 0)
	for rows.Next() {
		var (
			id            uuid.UUID
			previousState sql.NullString
			newState      string
			actor         string
			actorType     string
			trigger       string
			metadataRaw   []byte
			originAddress string
			createdAt     time.Time
		)

		if err = rows.Scan(&id, &previousState, &newState, &actor, &actorType,
			&trigger, &metadataRaw, &originAddress, &createdAt); err != nil {
			return nil, err
		}

		recordID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		var metadata map[string]string
		if len(metadataRaw) > 0 {
			if err = json.Unmarshal(metadataRaw, &metadata); err != nil {
				return nil, err
			}
		}

		entry := AuditEntry{
			ID:            recordID,
			NewState:      newState,
			Actor:         actor,
			ActorType:     actorType,
			Trigger:       trigger,
			Metadata:      metadata,
			OriginAddress: originAddress,
			CreatedAt:     createdAt,
		}
		if previousState.Valid {
			prev := previousState.String
			entry.PreviousState = &prev
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
