package ports

import "context"

// Notifier delivers customer-facing notifications.
type Notifier interface {
	// SendInvoice emails the customer a link to their stored invoice.
	SendInvoice(ctx context.Context, recipient string, orderID string, artifactRef string) error
}
