package taskrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"orderflow/internal/adapters/out/postgres/pgerr"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/task"
	"orderflow/internal/pkg/errs"
)

// GormTaskRepository implements ports.TaskRepository using GORM.
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GORM task repository.
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// Add saves a new task instance. A redelivered trigger for the same
// (task type, entity) hits the unique index and surfaces as
// errs.ErrAlreadyExists, which the consumer treats as already scheduled.
func (r *GormTaskRepository) Add(ctx context.Context, instance *task.Instance) error {
	if err := instance.Validate(); err != nil {
		return err
	}

	dto := instanceFromDomain(instance)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsDuplicateKey(err) {
			return errs.NewAlreadyExistsErrorWithCause("task", instance.Type().String()+"/"+instance.EntityID().String(), err)
		}
		return err
	}

	return nil
}

// Update persists lifecycle changes to an existing instance.
func (r *GormTaskRepository) Update(ctx context.Context, instance *task.Instance) error {
	if err := instance.Validate(); err != nil {
		return err
	}

	dto := instanceFromDomain(instance)
	result := r.db.WithContext(ctx).Model(&InstanceDTO{}).
		Where("id = ?", dto.ID).
		Select("*").Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("task instance", instance.ID().String())
	}

	return nil
}

// Get retrieves a task instance by ID.
func (r *GormTaskRepository) Get(ctx context.Context, id kernel.UUID) (*task.Instance, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto InstanceDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("task instance", id.String())
		}
		return nil, err
	}

	return instanceToDomain(dto)
}

// ClaimDue selects up to limit runnable instances whose next run time has
// passed, locking the rows with SKIP LOCKED so concurrent workers never
// claim the same instance. The lock lives for the surrounding transaction,
// which is why ClaimDue is only meaningful inside a unit of work.
func (r *GormTaskRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*task.Instance, error) {
	var dtos []InstanceDTO
	err := r.db.WithContext(ctx).Raw(`
		SELECT *
		FROM task_instances
		WHERE status IN (?, ?) AND next_run_at <= ?
		ORDER BY next_run_at
		LIMIT ?
		FOR UPDATE SKIP LOCKED
	`, string(task.StatusPending), string(task.StatusRetryScheduled), now, limit).Scan(&dtos).Error
	if err != nil {
		return nil, err
	}

	instances := make([]*task.Instance, 0, len(dtos))
	for _, dto := range dtos {
		instance, convErr := instanceToDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		instances = append(instances, instance)
	}

	return instances, nil
}

// GormMarkerRepository implements ports.MarkerRepository using GORM.
type GormMarkerRepository struct {
	db *gorm.DB
}

// NewGormMarkerRepository creates a new GORM marker repository.
func NewGormMarkerRepository(db *gorm.DB) *GormMarkerRepository {
	return &GormMarkerRepository{db: db}
}

// Add persists a marker. A concurrent attempt that already recorded the
// side effect hits the composite primary key and surfaces as
// errs.ErrAlreadyExists.
func (r *GormMarkerRepository) Add(ctx context.Context, marker *task.Marker) error {
	dto := markerFromDomain(marker)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsDuplicateKey(err) {
			return errs.NewAlreadyExistsErrorWithCause("idempotency marker", dto.TaskType+"/"+marker.EntityID().String(), err)
		}
		return err
	}

	return nil
}

// Get retrieves the marker for (task type, entity).
func (r *GormMarkerRepository) Get(ctx context.Context, taskType task.Type, entityID kernel.UUID) (*task.Marker, error) {
	if err := taskType.Validate(); err != nil {
		return nil, err
	}
	if err := entityID.Validate(); err != nil {
		return nil, err
	}

	var dto MarkerDTO
	err := r.db.WithContext(ctx).
		First(&dto, "task_type = ? AND entity_id = ?", taskType.String(), entityID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("idempotency marker", taskType.String()+"/"+entityID.String())
		}
		return nil, err
	}

	return markerToDomain(dto)
}
