package commands

import (
	"context"
	"fmt"

	"orderflow/internal/core/domain/model/audit"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/returns"
	"orderflow/internal/pkg/errs"
)

// CreateReturnCommandHandler handles the business logic for opening a return.
// A return can only be raised against a delivered order, and each order
// accepts at most one return.
type CreateReturnCommandHandler struct {
	uowFactory ReturnUoWFactory
}

// NewCreateReturnCommandHandler creates a handler for return creation operations.
func NewCreateReturnCommandHandler(uowFactory ReturnUoWFactory) CreateReturnCommandHandler {
	return CreateReturnCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the return creation command. Returns
// errs.ErrValueIsInvalid when the order is not delivered and
// errs.ErrAlreadyExists when the order already has a return.
func (h *CreateReturnCommandHandler) Handle(ctx context.Context, cmd CreateReturnCommand) error {
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

	orderAggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if orderAggregate.Status() != order.Delivered {
		return errs.NewValueIsInvalidErrorWithCause("order status",
			fmt.Errorf("returns are accepted for delivered orders only, order is %s", orderAggregate.Status()))
	}

	actor := cmd.ActorInfo()
	newReturn, err := returns.NewReturn(
		cmd.ReturnID(),
		cmd.OrderID(),
		cmd.Reason(),
		actor.Actor(),
		cmd.RefundAmount(),
	)
	if err != nil {
		return err
	}

	if err = uow.ReturnRepository().Add(ctx, newReturn); err != nil {
		return err
	}

	record, err := audit.NewRecord(
		kernel.KindReturn,
		newReturn.ID(),
		nil,
		newReturn.Status().String(),
		actor.Actor(),
		actor.ActorType(),
		actor.Trigger(),
		map[string]string{"order_id": cmd.OrderID().String(), "reason": cmd.Reason()},
		actor.OriginAddress(),
	)
	if err != nil {
		return err
	}

	if err = uow.AuditRepository().Append(ctx, record); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
