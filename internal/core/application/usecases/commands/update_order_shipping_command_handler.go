package commands

import (
	"context"
)

// UpdateOrderShippingCommandHandler attaches tracking details to an order.
// Not a state transition, so nothing is appended to the audit ledger; the
// version still moves so a concurrent transition is detected.
type UpdateOrderShippingCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewUpdateOrderShippingCommandHandler creates a handler for shipping updates.
func NewUpdateOrderShippingCommandHandler(uowFactory OrderUoWFactory) UpdateOrderShippingCommandHandler {
	return UpdateOrderShippingCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the shipping update command.
func (h *UpdateOrderShippingCommandHandler) Handle(ctx context.Context, cmd UpdateOrderShippingCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = aggregate.SetShipping(cmd.TrackingNumber(), cmd.Carrier()); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
