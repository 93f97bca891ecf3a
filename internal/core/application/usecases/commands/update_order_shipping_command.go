package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrUpdateOrderShippingCommandIsNotConstructed = errors.New(
	"UpdateOrderShippingCommand must be created via NewUpdateOrderShippingCommand constructor",
)

// UpdateOrderShippingCommand represents a request to attach carrier tracking
// details to an order in the warehouse.
type UpdateOrderShippingCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	trackingNumber string
	carrier        string
	actorInfo      ActorInfo

	guard guard.ConstructorGuard
}

// NewUpdateOrderShippingCommand creates a command to set tracking details.
func NewUpdateOrderShippingCommand(
	orderID kernel.UUID,
	trackingNumber string,
	carrier string,
	actorInfo ActorInfo,
) (UpdateOrderShippingCommand, error) {
	if err := orderID.Validate(); err != nil {
		return UpdateOrderShippingCommand{}, err
	}
	if trackingNumber == "" {
		return UpdateOrderShippingCommand{}, errs.NewValueIsRequiredError("tracking number")
	}
	if carrier == "" {
		return UpdateOrderShippingCommand{}, errs.NewValueIsRequiredError("carrier")
	}

	return UpdateOrderShippingCommand{
		orderID:        orderID,
		trackingNumber: trackingNumber,
		carrier:        carrier,
		actorInfo:      actorInfo,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateOrderShippingCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderShippingCommandIsNotConstructed)
}

// OrderID returns the order to update.
func (c UpdateOrderShippingCommand) OrderID() kernel.UUID { return c.orderID }

// TrackingNumber returns the carrier tracking number.
func (c UpdateOrderShippingCommand) TrackingNumber() string { return c.trackingNumber }

// Carrier returns the carrier name.
func (c UpdateOrderShippingCommand) Carrier() string { return c.carrier }

// ActorInfo returns who requested the update.
func (c UpdateOrderShippingCommand) ActorInfo() ActorInfo { return c.actorInfo }
