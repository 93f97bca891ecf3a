package ports

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/task"
)

// TaskRepository defines the persistence contract for task instances.
type TaskRepository interface {
	// Add persists a new task instance. At most one instance exists per
	// (task type, entity); adding a duplicate returns errs.ErrAlreadyExists,
	// which callers treat as "already scheduled" rather than a failure.
	Add(ctx context.Context, instance *task.Instance) error

	// Update persists lifecycle changes to an existing instance.
	Update(ctx context.Context, instance *task.Instance) error

	// Get retrieves a task instance by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*task.Instance, error)

	// ClaimDue atomically claims up to limit instances whose next run time
	// has passed and that are in a runnable state. Claimed rows are locked
	// against other workers until the surrounding transaction ends, so two
	// workers never pick up the same instance.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]*task.Instance, error)
}

// MarkerRepository defines the persistence contract for idempotency markers.
type MarkerRepository interface {
	// Add persists a marker. The (task type, entity) pair is unique;
	// adding a duplicate returns errs.ErrAlreadyExists.
	Add(ctx context.Context, marker *task.Marker) error

	// Get retrieves the marker for (task type, entity), or
	// errs.ErrObjectNotFound when the side effect has not run yet.
	Get(ctx context.Context, taskType task.Type, entityID kernel.UUID) (*task.Marker, error)
}
