package queries

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/returns"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrListReturnsQueryIsNotConstructed = errors.New(
	"ListReturnsQuery must be created via NewListReturnsQuery constructor",
)

// ListReturnsQuery retrieves a page of returns, optionally filtered by status.
type ListReturnsQuery struct {
	status returns.Status
	limit  int
	offset int

	guard guard.ConstructorGuard
}

// NewListReturnsQuery creates a paginated return listing query. status may be
// empty to list returns in every state. A non-positive limit falls back to
// the default page size.
func NewListReturnsQuery(status returns.Status, limit int, offset int) (ListReturnsQuery, error) {
	if status != "" {
		if err := status.Validate(); err != nil {
			return ListReturnsQuery{}, err
		}
	}
	if offset < 0 {
		return ListReturnsQuery{}, errs.NewValueIsInvalidError("offset")
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	return ListReturnsQuery{
		status: status,
		limit:  limit,
		offset: offset,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListReturnsQuery) Validate() error {
	return q.guard.Validate(ErrListReturnsQueryIsNotConstructed)
}

// Status returns the status filter, empty for all states.
func (q ListReturnsQuery) Status() returns.Status { return q.status }

// Limit returns the page size.
func (q ListReturnsQuery) Limit() int { return q.limit }

// Offset returns the page offset.
func (q ListReturnsQuery) Offset() int { return q.offset }

// ReturnSummary is one row of the return listing.
type ReturnSummary struct {
	ID                kernel.UUID
	OrderID           kernel.UUID
	Status            string
	RefundAmountCents int64
}
