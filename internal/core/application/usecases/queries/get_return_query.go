package queries

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrGetReturnQueryIsNotConstructed = errors.New(
	"GetReturnQuery must be created via NewGetReturnQuery constructor",
)

// GetReturnQuery retrieves a single return with its allowed next states.
type GetReturnQuery struct {
	returnID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetReturnQuery creates a query for one return.
func NewGetReturnQuery(returnID kernel.UUID) (GetReturnQuery, error) {
	if err := returnID.Validate(); err != nil {
		return GetReturnQuery{}, err
	}

	return GetReturnQuery{
		returnID: returnID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetReturnQuery) Validate() error {
	return q.guard.Validate(ErrGetReturnQueryIsNotConstructed)
}

// ReturnID returns the return to fetch.
func (q GetReturnQuery) ReturnID() kernel.UUID {
	return q.returnID
}

// GetReturnQueryResponse is the read model for one return.
type GetReturnQueryResponse struct {
	ID                  kernel.UUID
	OrderID             kernel.UUID
	Status              string
	Version             int64
	Reason              string
	RequestedBy         string
	ReviewedBy          string
	RejectionReason     string
	RefundAmountCents   int64
	RefundTransactionID string
	TrackingNumber      string
	Carrier             string
	AllowedNextStates   []string
}
