package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrUpdateReturnShippingCommandIsNotConstructed = errors.New(
	"UpdateReturnShippingCommand must be created via NewUpdateReturnShippingCommand constructor",
)

// UpdateReturnShippingCommand represents a request to attach tracking details
// to the shipment the customer sends back.
type UpdateReturnShippingCommand struct { //nolint:recvcheck //using for validation
	returnID       kernel.UUID
	trackingNumber string
	carrier        string
	actorInfo      ActorInfo

	guard guard.ConstructorGuard
}

// NewUpdateReturnShippingCommand creates a command to set return tracking details.
func NewUpdateReturnShippingCommand(
	returnID kernel.UUID,
	trackingNumber string,
	carrier string,
	actorInfo ActorInfo,
) (UpdateReturnShippingCommand, error) {
	if err := returnID.Validate(); err != nil {
		return UpdateReturnShippingCommand{}, err
	}
	if trackingNumber == "" {
		return UpdateReturnShippingCommand{}, errs.NewValueIsRequiredError("tracking number")
	}
	if carrier == "" {
		return UpdateReturnShippingCommand{}, errs.NewValueIsRequiredError("carrier")
	}

	return UpdateReturnShippingCommand{
		returnID:       returnID,
		trackingNumber: trackingNumber,
		carrier:        carrier,
		actorInfo:      actorInfo,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateReturnShippingCommand) Validate() error {
	return c.guard.Validate(ErrUpdateReturnShippingCommandIsNotConstructed)
}

// ReturnID returns the return to update.
func (c UpdateReturnShippingCommand) ReturnID() kernel.UUID { return c.returnID }

// TrackingNumber returns the return shipment tracking number.
func (c UpdateReturnShippingCommand) TrackingNumber() string { return c.trackingNumber }

// Carrier returns the carrier name.
func (c UpdateReturnShippingCommand) Carrier() string { return c.carrier }

// ActorInfo returns who requested the update.
func (c UpdateReturnShippingCommand) ActorInfo() ActorInfo { return c.actorInfo }
