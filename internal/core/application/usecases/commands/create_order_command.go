package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a request to register a new order in
// PENDING_PAYMENT. Amounts are carried as integer cents; the order total is
// derived inside the aggregate.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	customerID      string
	shippingAddress string
	billingAddress  string
	paymentMethod   string
	subtotal        kernel.Money
	tax             kernel.Money
	shippingCost    kernel.Money
	actorInfo       ActorInfo

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order.
// Validates the order id, customer, addresses and payment method; monetary
// fields were already validated by kernel.NewMoney at the edge.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	customerID string,
	shippingAddress string,
	billingAddress string,
	paymentMethod string,
	subtotal kernel.Money,
	tax kernel.Money,
	shippingCost kernel.Money,
	actorInfo ActorInfo,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCustomerID(customerID),
		cmd.setAddresses(shippingAddress, billingAddress),
		cmd.setPaymentMethod(paymentMethod),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	cmd.subtotal = subtotal
	cmd.tax = tax
	cmd.shippingCost = shippingCost
	cmd.actorInfo = actorInfo
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the identifier assigned to the new order.
func (c CreateOrderCommand) OrderID() kernel.UUID { return c.orderID }

// CustomerID returns the owning customer.
func (c CreateOrderCommand) CustomerID() string { return c.customerID }

// ShippingAddress returns the delivery address.
func (c CreateOrderCommand) ShippingAddress() string { return c.shippingAddress }

// BillingAddress returns the billing address.
func (c CreateOrderCommand) BillingAddress() string { return c.billingAddress }

// PaymentMethod returns the payment method chosen at checkout.
func (c CreateOrderCommand) PaymentMethod() string { return c.paymentMethod }

// Subtotal returns the order subtotal.
func (c CreateOrderCommand) Subtotal() kernel.Money { return c.subtotal }

// Tax returns the tax amount.
func (c CreateOrderCommand) Tax() kernel.Money { return c.tax }

// ShippingCost returns the shipping cost.
func (c CreateOrderCommand) ShippingCost() kernel.Money { return c.shippingCost }

// ActorInfo returns who requested the creation.
func (c CreateOrderCommand) ActorInfo() ActorInfo { return c.actorInfo }

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setCustomerID(customerID string) error {
	if customerID == "" {
		return errs.NewValueIsRequiredError("customer id")
	}

	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setAddresses(shipping, billing string) error {
	if shipping == "" {
		return errs.NewValueIsRequiredError("shipping address")
	}
	if billing == "" {
		return errs.NewValueIsRequiredError("billing address")
	}

	c.shippingAddress = shipping
	c.billingAddress = billing
	return nil
}

func (c *CreateOrderCommand) setPaymentMethod(paymentMethod string) error {
	if paymentMethod == "" {
		return errs.NewValueIsRequiredError("payment method")
	}

	c.paymentMethod = paymentMethod
	return nil
}
