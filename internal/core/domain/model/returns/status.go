package returns

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// Status represents the lifecycle state of a return request.
//
// State transitions:
//
//	REQUESTED ──┬──> APPROVED ──> IN_TRANSIT ──> RECEIVED ──> COMPLETED
//	            │
//	            └──> REJECTED
//
// REJECTED and COMPLETED are terminal. As with orders, the table contains no
// backward edges, so reverse moves are structurally impossible.
type Status string

const (
	// Requested is the initial state of every return request.
	Requested Status = "REQUESTED"

	// Approved indicates an operator accepted the return.
	Approved Status = "APPROVED"

	// Rejected is a terminal state for declined returns.
	Rejected Status = "REJECTED"

	// InTransit indicates the customer has shipped the items back.
	InTransit Status = "IN_TRANSIT"

	// Received indicates the warehouse accepted the returned items.
	Received Status = "RECEIVED"

	// Completed is a terminal state. Reaching it triggers refund processing.
	Completed Status = "COMPLETED"
)

// transitions is the immutable return transition table, built once at package
// load and only ever read.
var transitions = map[Status][]Status{
	Requested: {Approved, Rejected},
	Approved:  {InTransit},
	Rejected:  {},
	InTransit: {Received},
	Received:  {Completed},
	Completed: {},
}

// StatusFromString parses a status name, rejecting values outside the enum.
func StatusFromString(s string) (Status, error) {
	status := Status(s)
	if err := status.Validate(); err != nil {
		return "", err
	}
	return status, nil
}

// Validate checks that the status is a member of the return state enum.
func (s Status) Validate() error {
	if _, ok := transitions[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("return status",
			fmt.Errorf("%q is not a valid return status", string(s)))
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

// AllStatuses returns every member of the return state enum.
func AllStatuses() []Status {
	return []Status{Requested, Approved, Rejected, InTransit, Received, Completed}
}
