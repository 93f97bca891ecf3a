package queries

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// ListOrdersQuery retrieves a page of orders, optionally filtered by status.
type ListOrdersQuery struct {
	status order.Status
	limit  int
	offset int

	guard guard.ConstructorGuard
}

// NewListOrdersQuery creates a paginated order listing query. status may be
// empty to list orders in every state. A non-positive limit falls back to
// the default page size.
func NewListOrdersQuery(status order.Status, limit int, offset int) (ListOrdersQuery, error) {
	if status != "" {
		if err := status.Validate(); err != nil {
			return ListOrdersQuery{}, err
		}
	}
	if offset < 0 {
		return ListOrdersQuery{}, errs.NewValueIsInvalidError("offset")
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	return ListOrdersQuery{
		status: status,
		limit:  limit,
		offset: offset,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

// Status returns the status filter, empty for all states.
func (q ListOrdersQuery) Status() order.Status { return q.status }

// Limit returns the page size.
func (q ListOrdersQuery) Limit() int { return q.limit }

// Offset returns the page offset.
func (q ListOrdersQuery) Offset() int { return q.offset }

// OrderSummary is one row of the order listing.
type OrderSummary struct {
	ID         kernel.UUID
	CustomerID string
	Status     string
	TotalCents int64
}
