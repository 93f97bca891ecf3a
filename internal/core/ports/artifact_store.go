package ports

import "context"

// ArtifactStore persists generated documents (invoices) in object storage.
type ArtifactStore interface {
	// Store uploads content under the given key and returns the stored
	// object's reference. Overwriting an existing key is allowed; the
	// idempotency marker, not the store, decides whether work is repeated.
	Store(ctx context.Context, key string, content []byte, contentType string) (string, error)

	// Exists reports whether an object is already stored under the key.
	Exists(ctx context.Context, key string) (bool, error)
}

// DocumentRenderer produces the invoice document for an order.
type DocumentRenderer interface {
	// RenderInvoice returns the rendered document and its content type.
	RenderInvoice(ctx context.Context, data InvoiceData) ([]byte, string, error)
}

// InvoiceData carries everything the invoice template needs.
type InvoiceData struct {
	OrderID           string
	CustomerID        string
	ShippingAddress   string
	BillingAddress    string
	SubtotalCents     int64
	TaxCents          int64
	ShippingCostCents int64
	TotalCents        int64
	TrackingNumber    string
	Carrier           string
}
