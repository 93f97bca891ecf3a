package order

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through NewOrder or RestoreOrder, e.g. a zero-value struct.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

// Order is the aggregate root of the order workflow. It owns the order's
// lifecycle state and the optimistic lock version that serializes concurrent
// transitions.
//
// Invariants:
//   - status is always a member of the order state enum
//   - version increases by one on every mutation
//   - state changes only happen through TransitionTo, which consults the
//     transition table
type Order struct {
	id              kernel.UUID
	customerID      string
	status          Status
	version         int64
	shippingAddress string
	billingAddress  string
	paymentMethod   string
	subtotal        kernel.Money
	tax             kernel.Money
	shippingCost    kernel.Money
	total           kernel.Money
	trackingNumber  string
	carrier         string

	isConstructed bool
}

// NewOrder creates an order in PENDING_PAYMENT with version 1.
// The total is derived from the three amount components.
func NewOrder(
	id kernel.UUID,
	customerID string,
	shippingAddress string,
	billingAddress string,
	paymentMethod string,
	subtotal kernel.Money,
	tax kernel.Money,
	shippingCost kernel.Money,
) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if customerID == "" {
		return nil, errs.NewValueIsRequiredError("customer id")
	}
	if shippingAddress == "" {
		return nil, errs.NewValueIsRequiredError("shipping address")
	}
	if billingAddress == "" {
		return nil, errs.NewValueIsRequiredError("billing address")
	}
	if paymentMethod == "" {
		return nil, errs.NewValueIsRequiredError("payment method")
	}

	return &Order{
		id:              id,
		customerID:      customerID,
		status:          PendingPayment,
		version:         1,
		shippingAddress: shippingAddress,
		billingAddress:  billingAddress,
		paymentMethod:   paymentMethod,
		subtotal:        subtotal,
		tax:             tax,
		shippingCost:    shippingCost,
		total:           subtotal.Add(tax).Add(shippingCost),
		isConstructed:   true,
	}, nil
}

// RestoreOrder reconstructs an order from persistence without re-running
// creation rules. The stored status and version are trusted as-is, except
// that the status must still be a member of the enum.
func RestoreOrder(
	id kernel.UUID,
	customerID string,
	status Status,
	version int64,
	shippingAddress string,
	billingAddress string,
	paymentMethod string,
	subtotal kernel.Money,
	tax kernel.Money,
	shippingCost kernel.Money,
	total kernel.Money,
	trackingNumber string,
	carrier string,
) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}

	return &Order{
		id:              id,
		customerID:      customerID,
		status:          status,
		version:         version,
		shippingAddress: shippingAddress,
		billingAddress:  billingAddress,
		paymentMethod:   paymentMethod,
		subtotal:        subtotal,
		tax:             tax,
		shippingCost:    shippingCost,
		total:           total,
		trackingNumber:  trackingNumber,
		carrier:         carrier,
		isConstructed:   true,
	}, nil
}

// Validate ensures the order was built through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerID returns the owning customer's identifier.
func (o *Order) CustomerID() string {
	return o.customerID
}

// Status returns the current lifecycle state.
func (o *Order) Status() Status {
	return o.status
}

// Version returns the optimistic lock token. The persistence layer compares
// it against the stored row on update; a mismatch means another transition
// won the race.
func (o *Order) Version() int64 {
	return o.version
}

// ShippingAddress returns the delivery address.
func (o *Order) ShippingAddress() string {
	return o.shippingAddress
}

// BillingAddress returns the billing address.
func (o *Order) BillingAddress() string {
	return o.billingAddress
}

// PaymentMethod returns the payment method chosen at creation.
func (o *Order) PaymentMethod() string {
	return o.paymentMethod
}

// Subtotal returns the sum of line amounts before tax and shipping.
func (o *Order) Subtotal() kernel.Money {
	return o.subtotal
}

// Tax returns the tax amount.
func (o *Order) Tax() kernel.Money {
	return o.tax
}

// ShippingCost returns the shipping amount.
func (o *Order) ShippingCost() kernel.Money {
	return o.shippingCost
}

// Total returns subtotal + tax + shipping.
func (o *Order) Total() kernel.Money {
	return o.total
}

// TrackingNumber returns the carrier tracking number, empty until shipping
// information is recorded.
func (o *Order) TrackingNumber() string {
	return o.trackingNumber
}

// Carrier returns the shipping carrier, empty until shipping information is recorded.
func (o *Order) Carrier() string {
	return o.carrier
}

// TransitionTo moves the order to target if the transition table allows it,
// bumping the version. On a rejected transition it returns an
// InvalidTransitionError carrying the allowed next states and leaves the
// order untouched.
func (o *Order) TransitionTo(target Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	if !o.status.CanTransitionTo(target) {
		allowed := o.status.AllowedNext()
		names := make([]string, len(allowed))
		for i, s := range allowed {
			names[i] = s.String()
		}
		return kernel.NewInvalidTransitionError(kernel.KindOrder, o.status.String(), target.String(), names)
	}

	o.status = target
	o.version++
	return nil
}

// SetShipping records carrier tracking details. This is not a state
// transition but still bumps the version so concurrent writers are detected.
func (o *Order) SetShipping(trackingNumber, carrier string) error {
	if trackingNumber == "" {
		return errs.NewValueIsRequiredError("tracking number")
	}
	if carrier == "" {
		return errs.NewValueIsRequiredError("carrier")
	}

	o.trackingNumber = trackingNumber
	o.carrier = carrier
	o.version++
	return nil
}
