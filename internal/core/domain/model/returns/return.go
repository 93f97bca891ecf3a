package returns

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// ErrReturnIsNotConstructed is returned when a Return instance was not created
// through NewReturn or RestoreReturn.
var ErrReturnIsNotConstructed = errors.New("Return must be created via NewReturn or RestoreReturn")

// Return is the aggregate root of the return workflow. Each return belongs to
// exactly one order, and an order has at most one return; the persistence
// layer enforces the uniqueness with a unique index on the order id.
type Return struct {
	id                  kernel.UUID
	orderID             kernel.UUID
	status              Status
	version             int64
	reason              string
	requestedBy         string
	reviewedBy          string
	rejectionReason     string
	refundAmount        kernel.Money
	refundTransactionID string
	trackingNumber      string
	carrier             string

	isConstructed bool
}

// NewReturn creates a return request in REQUESTED with version 1.
func NewReturn(
	id kernel.UUID,
	orderID kernel.UUID,
	reason string,
	requestedBy string,
	refundAmount kernel.Money,
) (*Return, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if reason == "" {
		return nil, errs.NewValueIsRequiredError("return reason")
	}
	if requestedBy == "" {
		return nil, errs.NewValueIsRequiredError("requested by")
	}

	return &Return{
		id:            id,
		orderID:       orderID,
		status:        Requested,
		version:       1,
		reason:        reason,
		requestedBy:   requestedBy,
		refundAmount:  refundAmount,
		isConstructed: true,
	}, nil
}

// RestoreReturn reconstructs a return from persistence.
func RestoreReturn(
	id kernel.UUID,
	orderID kernel.UUID,
	status Status,
	version int64,
	reason string,
	requestedBy string,
	reviewedBy string,
	rejectionReason string,
	refundAmount kernel.Money,
	refundTransactionID string,
	trackingNumber string,
	carrier string,
) (*Return, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}

	return &Return{
		id:                  id,
		orderID:             orderID,
		status:              status,
		version:             version,
		reason:              reason,
		requestedBy:         requestedBy,
		reviewedBy:          reviewedBy,
		rejectionReason:     rejectionReason,
		refundAmount:        refundAmount,
		refundTransactionID: refundTransactionID,
		trackingNumber:      trackingNumber,
		carrier:             carrier,
		isConstructed:       true,
	}, nil
}

// Validate ensures the return was built through a constructor.
func (r *Return) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrReturnIsNotConstructed
	}
	return nil
}

// ID returns the return's unique identifier.
func (r *Return) ID() kernel.UUID {
	return r.id
}

// OrderID returns the identifier of the order being returned.
func (r *Return) OrderID() kernel.UUID {
	return r.orderID
}

// Status returns the current lifecycle state.
func (r *Return) Status() Status {
	return r.status
}

// Version returns the optimistic lock token.
func (r *Return) Version() int64 {
	return r.version
}

// Reason returns the customer's stated return reason.
func (r *Return) Reason() string {
	return r.reason
}

// RequestedBy returns the identity that opened the return.
func (r *Return) RequestedBy() string {
	return r.requestedBy
}

// ReviewedBy returns the operator who approved or rejected the return,
// empty until a review happens.
func (r *Return) ReviewedBy() string {
	return r.reviewedBy
}

// RejectionReason returns the operator's reason, set only on rejection.
func (r *Return) RejectionReason() string {
	return r.rejectionReason
}

// RefundAmount returns the amount to refund on completion.
func (r *Return) RefundAmount() kernel.Money {
	return r.refundAmount
}

// RefundTransactionID returns the payment gateway transaction id, empty until
// the refund task records it.
func (r *Return) RefundTransactionID() string {
	return r.refundTransactionID
}

// TrackingNumber returns the tracking number of the return shipment, empty
// until the customer ships the items back.
func (r *Return) TrackingNumber() string {
	return r.trackingNumber
}

// Carrier returns the return shipment carrier, empty until shipping
// information is recorded.
func (r *Return) Carrier() string {
	return r.carrier
}

// TransitionTo moves the return to target if the transition table allows it,
// bumping the version. A rejected transition returns an InvalidTransitionError
// with the allowed next states and leaves the return untouched.
func (r *Return) TransitionTo(target Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	if !r.status.CanTransitionTo(target) {
		allowed := r.status.AllowedNext()
		names := make([]string, len(allowed))
		for i, s := range allowed {
			names[i] = s.String()
		}
		return kernel.NewInvalidTransitionError(kernel.KindReturn, r.status.String(), target.String(), names)
	}

	r.status = target
	r.version++
	return nil
}

// Approve records the reviewer and moves the return to APPROVED.
func (r *Return) Approve(reviewedBy string) error {
	if reviewedBy == "" {
		return errs.NewValueIsRequiredError("reviewed by")
	}
	if err := r.TransitionTo(Approved); err != nil {
		return err
	}

	r.reviewedBy = reviewedBy
	return nil
}

// Reject records the reviewer and reason and moves the return to REJECTED.
func (r *Return) Reject(reviewedBy, rejectionReason string) error {
	if reviewedBy == "" {
		return errs.NewValueIsRequiredError("reviewed by")
	}
	if rejectionReason == "" {
		return errs.NewValueIsRequiredError("rejection reason")
	}
	if err := r.TransitionTo(Rejected); err != nil {
		return err
	}

	r.reviewedBy = reviewedBy
	r.rejectionReason = rejectionReason
	return nil
}

// SetShipping records the return shipment's tracking details. This is not a
// state transition but still bumps the version so concurrent writers are
// detected.
func (r *Return) SetShipping(trackingNumber, carrier string) error {
	if trackingNumber == "" {
		return errs.NewValueIsRequiredError("tracking number")
	}
	if carrier == "" {
		return errs.NewValueIsRequiredError("carrier")
	}

	r.trackingNumber = trackingNumber
	r.carrier = carrier
	r.version++
	return nil
}

// RecordRefundTransaction stores the gateway transaction id once the refund
// side effect has been performed. It is not a state transition; the return
// must already be COMPLETED. Recording twice is rejected so the refund task
// cannot silently overwrite an existing transaction id.
func (r *Return) RecordRefundTransaction(transactionID string) error {
	if transactionID == "" {
		return errs.NewValueIsRequiredError("refund transaction id")
	}
	if r.status != Completed {
		return errs.NewValueIsInvalidError("refund requires a completed return")
	}
	if r.refundTransactionID != "" {
		return errs.NewAlreadyExistsError("refund transaction", r.refundTransactionID)
	}

	r.refundTransactionID = transactionID
	r.version++
	return nil
}
