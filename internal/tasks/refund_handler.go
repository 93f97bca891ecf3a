package tasks

import (
	"context"
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/returns"
	"orderflow/internal/core/domain/model/task"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// RefundHandler executes the refund with the payment provider and records
// the transaction id on the return. The marker reference is the provider's
// transaction id.
type RefundHandler struct {
	gateway ports.PaymentGateway
}

// NewRefundHandler creates the refund processing handler.
func NewRefundHandler(gateway ports.PaymentGateway) (*RefundHandler, error) {
	if gateway == nil {
		return nil, errs.NewValueIsRequiredError("gateway")
	}
	return &RefundHandler{gateway: gateway}, nil
}

func (h *RefundHandler) TaskType() task.Type {
	return task.TypeRefundProcessing
}

// StillRequired checks that the return exists and is COMPLETED. COMPLETED is
// terminal, so a return that is not in it either never reached the refund
// point or the task was scheduled in error.
func (h *RefundHandler) StillRequired(ctx context.Context, uow ports.UnitOfWork, instance *task.Instance) (bool, error) {
	aggregate, err := uow.ReturnRepository().Get(ctx, instance.EntityID())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return false, nil
		}
		return false, err
	}
	return aggregate.Status() == returns.Completed, nil
}

func (h *RefundHandler) Execute(ctx context.Context, uow ports.UnitOfWork, instance *task.Instance) (string, error) {
	aggregate, err := uow.ReturnRepository().Get(ctx, instance.EntityID())
	if err != nil {
		return "", err
	}

	// Covers the crack between a committed transaction id and a marker
	// write that never landed.
	if existing := aggregate.RefundTransactionID(); existing != "" {
		return existing, nil
	}

	transactionID, err := h.gateway.Refund(ctx, ports.RefundRequest{
		IdempotencyKey: fmt.Sprintf("%s:%s", task.TypeRefundProcessing, aggregate.ID()),
		ReturnID:       aggregate.ID().String(),
		OrderID:        aggregate.OrderID().String(),
		AmountCents:    aggregate.RefundAmount().Cents(),
	})
	if err != nil {
		return "", err
	}

	if err := aggregate.RecordRefundTransaction(transactionID); err != nil {
		return "", err
	}
	if err := uow.ReturnRepository().Update(ctx, aggregate); err != nil {
		return "", err
	}
	return transactionID, nil
}
