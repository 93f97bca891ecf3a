package ports

import "context"

// RefundRequest describes a refund to execute against the payment provider.
// The idempotency key makes a repeated call for the same return a no-op on
// the provider side.
type RefundRequest struct {
	IdempotencyKey string
	ReturnID       string
	OrderID        string
	AmountCents    int64
}

// PaymentGateway executes refunds with the external payment provider.
type PaymentGateway interface {
	// Refund executes the refund and returns the provider's transaction id.
	Refund(ctx context.Context, request RefundRequest) (string, error)
}
