package auditrepo

import (
	"context"

	"gorm.io/gorm"

	"orderflow/internal/core/domain/model/audit"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/ports"
)

// GormAuditRepository implements ports.AuditRepository using GORM.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GORM audit repository.
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Append persists a new audit record.
func (r *GormAuditRepository) Append(ctx context.Context, record *audit.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(record)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetTrail retrieves the records for one entity ordered by creation time
// ascending. An entity with no records yields an empty slice.
func (r *GormAuditRepository) GetTrail(
	ctx context.Context,
	kind kernel.EntityKind,
	entityID kernel.UUID,
	filter ports.AuditFilter,
) ([]*audit.Record, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	if err := entityID.Validate(); err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Where("entity_kind = ? AND entity_id = ?", kind.String(), entityID.Bytes()).
		Order("created_at ASC, id ASC")

	if filter.Actor != "" {
		query = query.Where("actor = ?", filter.Actor)
	}
	if !filter.From.IsZero() {
		query = query.Where("created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("created_at <= ?", filter.To)
	}

	var dtos []RecordDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	records := make([]*audit.Record, 0, len(dtos))
	for _, dto := range dtos {
		record, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}
