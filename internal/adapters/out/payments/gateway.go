// Package payments is the HTTP client for the external payment provider.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

const defaultRequestTimeout = 30 * time.Second

// HTTPGateway implements ports.PaymentGateway against a JSON refund API.
// The provider deduplicates on the Idempotency-Key header, so a retried
// request for the same return returns the original transaction.
type HTTPGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPGateway creates a gateway client. httpClient may be nil, in which
// case a client with a bounded timeout is used.
func NewHTTPGateway(baseURL, apiKey string, httpClient *http.Client) (*HTTPGateway, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}
	return &HTTPGateway{baseURL: baseURL, apiKey: apiKey, client: httpClient}, nil
}

type refundRequestBody struct {
	ReturnID    string `json:"return_id"`
	OrderID     string `json:"order_id"`
	AmountCents int64  `json:"amount_cents"`
}

type refundResponseBody struct {
	TransactionID string `json:"transaction_id"`
}

// Refund posts the refund and returns the provider transaction id.
func (g *HTTPGateway) Refund(ctx context.Context, request ports.RefundRequest) (string, error) {
	body, err := json.Marshal(refundRequestBody{
		ReturnID:    request.ReturnID,
		OrderID:     request.OrderID,
		AmountCents: request.AmountCents,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode refund request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/refunds", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build refund request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", request.IdempotencyKey)
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("refund request for return %s failed: %w", request.ReturnID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("refund for return %s rejected with status %d: %s",
			request.ReturnID, resp.StatusCode, detail)
	}

	var parsed refundResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode refund response for return %s: %w", request.ReturnID, err)
	}
	if parsed.TransactionID == "" {
		return "", fmt.Errorf("refund response for return %s carries no transaction id", request.ReturnID)
	}
	return parsed.TransactionID, nil
}
