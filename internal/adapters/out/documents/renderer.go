// Package documents renders invoice documents from templates.
package documents

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"orderflow/internal/core/ports"
)

const invoiceContentType = "text/html; charset=utf-8"

var invoiceTemplate = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"cents": func(c int64) float64 { return float64(c) / 100 },
}).Parse(`<!DOCTYPE html>
<html>
<head><title>Invoice {{.OrderID}}</title></head>
<body>
<h1>Invoice</h1>
<p>Order: {{.OrderID}}</p>
<p>Customer: {{.CustomerID}}</p>
<p>Shipping address: {{.ShippingAddress}}</p>
<p>Billing address: {{.BillingAddress}}</p>
<table>
<tr><td>Subtotal</td><td>{{printf "%.2f" (cents .SubtotalCents)}}</td></tr>
<tr><td>Tax</td><td>{{printf "%.2f" (cents .TaxCents)}}</td></tr>
<tr><td>Shipping</td><td>{{printf "%.2f" (cents .ShippingCostCents)}}</td></tr>
<tr><td><strong>Total</strong></td><td><strong>{{printf "%.2f" (cents .TotalCents)}}</strong></td></tr>
</table>
{{if .TrackingNumber}}<p>Shipped via {{.Carrier}}, tracking {{.TrackingNumber}}</p>{{end}}
</body>
</html>
`))

// TemplateRenderer implements ports.DocumentRenderer with the built-in
// invoice template.
type TemplateRenderer struct{}

// NewTemplateRenderer creates the renderer.
func NewTemplateRenderer() *TemplateRenderer {
	return &TemplateRenderer{}
}

// RenderInvoice renders the invoice HTML for the given order data.
func (r *TemplateRenderer) RenderInvoice(_ context.Context, data ports.InvoiceData) ([]byte, string, error) {
	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, data); err != nil {
		return nil, "", fmt.Errorf("failed to render invoice for order %s: %w", data.OrderID, err)
	}
	return buf.Bytes(), invoiceContentType, nil
}
