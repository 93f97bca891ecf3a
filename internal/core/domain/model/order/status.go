package order

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	PENDING_PAYMENT ──┬──> PAID ──┬──> PROCESSING_IN_WAREHOUSE ──> SHIPPED ──> DELIVERED
//	                  │           │
//	                  └───────────┴──> CANCELLED
//
// DELIVERED and CANCELLED are terminal. The graph is forward-only by
// construction: no table entry ever points at an earlier state, so reverse
// moves are rejected without any dedicated runtime check.
type Status string

const (
	// PendingPayment is the initial state of every order.
	PendingPayment Status = "PENDING_PAYMENT"

	// Paid indicates payment has been captured.
	Paid Status = "PAID"

	// ProcessingInWarehouse indicates the order is being picked and packed.
	ProcessingInWarehouse Status = "PROCESSING_IN_WAREHOUSE"

	// Shipped indicates the order left the warehouse. Reaching this state
	// triggers invoice generation.
	Shipped Status = "SHIPPED"

	// Delivered is a terminal state.
	Delivered Status = "DELIVERED"

	// Cancelled is a terminal state, reachable before warehouse processing starts.
	Cancelled Status = "CANCELLED"
)

// transitions is the immutable order transition table. It is built once at
// package load and only ever read, so unsynchronized concurrent lookups are safe.
var transitions = map[Status][]Status{
	PendingPayment:        {Paid, Cancelled},
	Paid:                  {ProcessingInWarehouse, Cancelled},
	ProcessingInWarehouse: {Shipped},
	Shipped:               {Delivered},
	Delivered:             {},
	Cancelled:             {},
}

// StatusFromString parses a status name, rejecting values outside the enum.
func StatusFromString(s string) (Status, error) {
	status := Status(s)
	if err := status.Validate(); err != nil {
		return "", err
	}
	return status, nil
}

// Validate checks that the status is a member of the order state enum.
func (s Status) Validate() error {
	if _, ok := transitions[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("order status",
			fmt.Errorf("%q is not a valid order status", string(s)))
	}
	return nil
}

// String returns the status name used in audit records and API payloads.
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo reports whether target is directly reachable from s.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// AllowedNext returns a copy of the states directly reachable from s.
// Terminal states return an empty slice.
func (s Status) AllowedNext() []Status {
	next := transitions[s]
	cp := make([]Status, len(next))
	copy(cp, next)
	return cp
}

// IsTerminal reports whether s has no outgoing transitions.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// AllStatuses returns every member of the order state enum.
// Used by the transition validator and by exhaustive tests.
func AllStatuses() []Status {
	return []Status{PendingPayment, Paid, ProcessingInWarehouse, Shipped, Delivered, Cancelled}
}
