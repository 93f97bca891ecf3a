// Package queries contains read operations in the CQRS architecture.
// Query handlers read the database directly and return flat response
// structs; they never load aggregates or modify state.
package queries

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves a single order with its allowed next states.
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for one order.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the order to fetch.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderQueryResponse is the read model for one order. Amounts are integer
// cents; AllowedNextStates lists the states reachable from the current one.
type GetOrderQueryResponse struct {
	ID                kernel.UUID
	CustomerID        string
	Status            string
	Version           int64
	ShippingAddress   string
	BillingAddress    string
	PaymentMethod     string
	SubtotalCents     int64
	TaxCents          int64
	ShippingCostCents int64
	TotalCents        int64
	TrackingNumber    string
	Carrier           string
	AllowedNextStates []string
}
