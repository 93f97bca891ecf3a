package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand represents a request to move an order to a target
// state. metadata travels onto the audit record untouched.
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	target    order.Status
	actorInfo ActorInfo
	metadata  map[string]string

	guard guard.ConstructorGuard
}

// NewTransitionOrderCommand creates a command to transition an order.
// The target must be a member of the order status enum; whether the
// transition is allowed from the current state is decided against the loaded
// order inside the handler's transaction.
func NewTransitionOrderCommand(
	orderID kernel.UUID,
	target order.Status,
	actorInfo ActorInfo,
	metadata map[string]string,
) (TransitionOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return TransitionOrderCommand{}, err
	}
	if err := target.Validate(); err != nil {
		return TransitionOrderCommand{}, err
	}

	return TransitionOrderCommand{
		orderID:   orderID,
		target:    target,
		actorInfo: actorInfo,
		metadata:  metadata,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

// OrderID returns the order to transition.
func (c TransitionOrderCommand) OrderID() kernel.UUID { return c.orderID }

// Target returns the requested state.
func (c TransitionOrderCommand) Target() order.Status { return c.target }

// ActorInfo returns who requested the transition.
func (c TransitionOrderCommand) ActorInfo() ActorInfo { return c.actorInfo }

// Metadata returns free-form context recorded on the audit record.
func (c TransitionOrderCommand) Metadata() map[string]string { return c.metadata }
