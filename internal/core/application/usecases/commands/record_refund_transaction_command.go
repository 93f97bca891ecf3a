package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrRecordRefundTransactionCommandIsNotConstructed = errors.New(
	"RecordRefundTransactionCommand must be created via NewRecordRefundTransactionCommand constructor",
)

// RecordRefundTransactionCommand represents the refund task reporting the
// gateway transaction id back onto a completed return.
type RecordRefundTransactionCommand struct { //nolint:recvcheck //using for validation
	returnID      kernel.UUID
	transactionID string
	actorInfo     ActorInfo

	guard guard.ConstructorGuard
}

// NewRecordRefundTransactionCommand creates a command to record a refund
// transaction id.
func NewRecordRefundTransactionCommand(
	returnID kernel.UUID,
	transactionID string,
	actorInfo ActorInfo,
) (RecordRefundTransactionCommand, error) {
	if err := returnID.Validate(); err != nil {
		return RecordRefundTransactionCommand{}, err
	}
	if transactionID == "" {
		return RecordRefundTransactionCommand{}, errs.NewValueIsRequiredError("refund transaction id")
	}

	return RecordRefundTransactionCommand{
		returnID:      returnID,
		transactionID: transactionID,
		actorInfo:     actorInfo,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordRefundTransactionCommand) Validate() error {
	return c.guard.Validate(ErrRecordRefundTransactionCommandIsNotConstructed)
}

// ReturnID returns the completed return to record against.
func (c RecordRefundTransactionCommand) ReturnID() kernel.UUID { return c.returnID }

// TransactionID returns the payment gateway's refund transaction id.
func (c RecordRefundTransactionCommand) TransactionID() string { return c.transactionID }

// ActorInfo returns who performed the refund.
func (c RecordRefundTransactionCommand) ActorInfo() ActorInfo { return c.actorInfo }
