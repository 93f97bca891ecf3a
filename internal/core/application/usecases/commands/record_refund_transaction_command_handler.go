package commands

import (
	"context"
)

// RecordRefundTransactionCommandHandler stores the gateway transaction id on
// a completed return. The aggregate rejects a second recording, which keeps
// a retried refund task from overwriting the original transaction id.
type RecordRefundTransactionCommandHandler struct {
	uowFactory ReturnUoWFactory
}

// NewRecordRefundTransactionCommandHandler creates a handler for refund recording.
func NewRecordRefundTransactionCommandHandler(uowFactory ReturnUoWFactory) RecordRefundTransactionCommandHandler {
	return RecordRefundTransactionCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the refund recording command.
func (h *RecordRefundTransactionCommandHandler) Handle(ctx context.Context, cmd RecordRefundTransactionCommand) error {
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

	if err = aggregate.RecordRefundTransaction(cmd.TransactionID()); err != nil {
		return err
	}

	if err = uow.ReturnRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
