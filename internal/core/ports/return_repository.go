package ports

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/returns"
)

// ReturnRepository defines the persistence contract for return aggregates.
type ReturnRepository interface {
	// Add persists a new return aggregate to storage. At most one return
	// exists per order; adding a second returns errs.ErrAlreadyExists.
	Add(ctx context.Context, aggregate *returns.Return) error

	// Update persists changes to an existing return aggregate using an
	// optimistic version check. Returns errs.ErrConcurrencyConflict when
	// a concurrent writer updated the row first.
	Update(ctx context.Context, aggregate *returns.Return) error

	// Get retrieves a return aggregate by its unique identifier.
	// Returns errs.ErrObjectNotFound when no return exists for the id.
	Get(ctx context.Context, id kernel.UUID) (*returns.Return, error)

	// GetByOrderID retrieves the return raised against an order.
	GetByOrderID(ctx context.Context, orderID kernel.UUID) (*returns.Return, error)
}
