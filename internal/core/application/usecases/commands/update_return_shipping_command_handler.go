package commands

import (
	"context"
)

// UpdateReturnShippingCommandHandler attaches tracking details to the return
// shipment. Not a state transition, so nothing is appended to the audit
// ledger; the version still moves so a concurrent transition is detected.
type UpdateReturnShippingCommandHandler struct {
	uowFactory ReturnUoWFactory
}

// NewUpdateReturnShippingCommandHandler creates a handler for return shipping updates.
func NewUpdateReturnShippingCommandHandler(uowFactory ReturnUoWFactory) UpdateReturnShippingCommandHandler {
	return UpdateReturnShippingCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the shipping update command.
func (h *UpdateReturnShippingCommandHandler) Handle(ctx context.Context, cmd UpdateReturnShippingCommand) error {
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

	aggregate, err := uow.ReturnRepository().Get(ctx, cmd.ReturnID())
	if err != nil {
		return err
	}

	if err = aggregate.SetShipping(cmd.TrackingNumber(), cmd.Carrier()); err != nil {
		return err
	}

	if err = uow.ReturnRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
