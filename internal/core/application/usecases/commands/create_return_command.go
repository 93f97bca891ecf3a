package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrCreateReturnCommandIsNotConstructed = errors.New(
	"CreateReturnCommand must be created via NewCreateReturnCommand constructor",
)

// CreateReturnCommand represents a request to open a return against a
// delivered order.
type CreateReturnCommand struct { //nolint:recvcheck //using for validation
	returnID     kernel.UUID
	orderID      kernel.UUID
	reason       string
	refundAmount kernel.Money
	actorInfo    ActorInfo

	guard guard.ConstructorGuard
}

// NewCreateReturnCommand creates a command to open a return.
func NewCreateReturnCommand(
	returnID kernel.UUID,
	orderID kernel.UUID,
	reason string,
	refundAmount kernel.Money,
	actorInfo ActorInfo,
) (CreateReturnCommand, error) {
	if err := returnID.Validate(); err != nil {
		return CreateReturnCommand{}, err
	}
	if err := orderID.Validate(); err != nil {
		return CreateReturnCommand{}, err
	}
	if reason == "" {
		return CreateReturnCommand{}, errs.NewValueIsRequiredError("return reason")
	}

	return CreateReturnCommand{
		returnID:     returnID,
		orderID:      orderID,
		reason:       reason,
		refundAmount: refundAmount,
		actorInfo:    actorInfo,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateReturnCommand) Validate() error {
	return c.guard.Validate(ErrCreateReturnCommandIsNotConstructed)
}

// ReturnID returns the identifier assigned to the new return.
func (c CreateReturnCommand) ReturnID() kernel.UUID { return c.returnID }

// OrderID returns the order the return is raised against.
func (c CreateReturnCommand) OrderID() kernel.UUID { return c.orderID }

// Reason returns the customer's stated reason.
func (c CreateReturnCommand) Reason() string { return c.reason }

// RefundAmount returns the amount to refund if the return completes.
func (c CreateReturnCommand) RefundAmount() kernel.Money { return c.refundAmount }

// ActorInfo returns who requested the return.
func (c CreateReturnCommand) ActorInfo() ActorInfo { return c.actorInfo }
