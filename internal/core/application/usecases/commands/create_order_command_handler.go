package commands

import (
	"context"

	"orderflow/internal/core/domain/model/audit"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// CreateOrderCommandHandler handles the business logic for order creation.
// The new order and its creation audit record (previous state empty) are
// written in one transaction.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the order creation command.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	newOrder, err := order.NewOrder(
		cmd.OrderID(),
		cmd.CustomerID(),
		cmd.ShippingAddress(),
		cmd.BillingAddress(),
		cmd.PaymentMethod(),
		cmd.Subtotal(),
		cmd.Tax(),
		cmd.ShippingCost(),
	)
	if err != nil {
		return err
	}

	actor := cmd.ActorInfo()
	record, err := audit.NewRecord(
		kernel.KindOrder,
		newOrder.ID(),
		nil,
		newOrder.Status().String(),
		actor.Actor(),
		actor.ActorType(),
		actor.Trigger(),
		map[string]string{"payment_method": cmd.PaymentMethod()},
		actor.OriginAddress(),
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	if err = uow.AuditRepository().Append(ctx, record); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
