package http

import (
	"time"

	"orderflow/internal/core/application/usecases/queries"
)

// errorResponse is the error payload for every non-2xx answer.
type errorResponse struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Details *transitionDetails `json:"details,omitempty"`
}

// transitionDetails carries the remediation data of a rejected transition.
type transitionDetails struct {
	CurrentState       string   `json:"current_state"`
	RequestedState     string   `json:"requested_state"`
	AllowedTransitions []string `json:"allowed_transitions"`
}

type createOrderRequest struct {
	CustomerID        string `json:"customer_id"`
	ShippingAddress   string `json:"shipping_address"`
	BillingAddress    string `json:"billing_address"`
	PaymentMethod     string `json:"payment_method"`
	SubtotalCents     int64  `json:"subtotal_cents"`
	TaxCents          int64  `json:"tax_cents"`
	ShippingCostCents int64  `json:"shipping_cost_cents"`
}

type transitionRequest struct {
	TargetState     string            `json:"target_state"`
	RejectionReason string            `json:"rejection_reason,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

type shippingRequest struct {
	TrackingNumber string `json:"tracking_number"`
	Carrier        string `json:"carrier"`
}

// returnShippingRequest carries the tracking details of the shipment the
// customer sends back; the field names keep the return_ prefix so the payload
// cannot be confused with the outbound order shipment.
type returnShippingRequest struct {
	ReturnTrackingNumber string `json:"return_tracking_number"`
	ReturnCarrier        string `json:"return_carrier"`
}

type createReturnRequest struct {
	OrderID           string `json:"order_id"`
	Reason            string `json:"reason"`
	RefundAmountCents int64  `json:"refund_amount_cents"`
}

type refundTransactionRequest struct {
	TransactionID string `json:"transaction_id"`
}

type orderResponse struct {
	ID                string   `json:"id"`
	CustomerID        string   `json:"customer_id"`
	Status            string   `json:"status"`
	Version           int64    `json:"version"`
	ShippingAddress   string   `json:"shipping_address"`
	BillingAddress    string   `json:"billing_address"`
	PaymentMethod     string   `json:"payment_method"`
	SubtotalCents     int64    `json:"subtotal_cents"`
	TaxCents          int64    `json:"tax_cents"`
	ShippingCostCents int64    `json:"shipping_cost_cents"`
	TotalCents        int64    `json:"total_cents"`
	TrackingNumber    string   `json:"tracking_number,omitempty"`
	Carrier           string   `json:"carrier,omitempty"`
	AllowedNextStates []string `json:"allowed_next_states"`
}

func toOrderResponse(r queries.GetOrderQueryResponse) orderResponse {
	return orderResponse{
		ID:                r.ID.String(),
		CustomerID:        r.CustomerID,
		Status:            r.Status,
		Version:           r.Version,
		ShippingAddress:   r.ShippingAddress,
		BillingAddress:    r.BillingAddress,
		PaymentMethod:     r.PaymentMethod,
		SubtotalCents:     r.SubtotalCents,
		TaxCents:          r.TaxCents,
		ShippingCostCents: r.ShippingCostCents,
		TotalCents:        r.TotalCents,
		TrackingNumber:    r.TrackingNumber,
		Carrier:           r.Carrier,
		AllowedNextStates: r.AllowedNextStates,
	}
}

type returnResponse struct {
	ID                  string   `json:"id"`
	OrderID             string   `json:"order_id"`
	Status              string   `json:"status"`
	Version             int64    `json:"version"`
	Reason              string   `json:"reason"`
	RequestedBy         string   `json:"requested_by"`
	ReviewedBy          string   `json:"reviewed_by,omitempty"`
	RejectionReason     string   `json:"rejection_reason,omitempty"`
	RefundAmountCents   int64    `json:"refund_amount_cents"`
	RefundTransactionID string   `json:"refund_transaction_id,omitempty"`
	ReturnTracking      string   `json:"return_tracking_number,omitempty"`
	ReturnCarrier       string   `json:"return_carrier,omitempty"`
	AllowedNextStates   []string `json:"allowed_next_states"`
}

func toReturnResponse(r queries.GetReturnQueryResponse) returnResponse {
	return returnResponse{
		ID:                  r.ID.String(),
		OrderID:             r.OrderID.String(),
		Status:              r.Status,
		Version:             r.Version,
		Reason:              r.Reason,
		RequestedBy:         r.RequestedBy,
		ReviewedBy:          r.ReviewedBy,
		RejectionReason:     r.RejectionReason,
		RefundAmountCents:   r.RefundAmountCents,
		RefundTransactionID: r.RefundTransactionID,
		ReturnTracking:      r.TrackingNumber,
		ReturnCarrier:       r.Carrier,
		AllowedNextStates:   r.AllowedNextStates,
	}
}

type orderSummaryResponse struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	Status     string `json:"status"`
	TotalCents int64  `json:"total_cents"`
}

type returnSummaryResponse struct {
	ID                string `json:"id"`
	OrderID           string `json:"order_id"`
	Status            string `json:"status"`
	RefundAmountCents int64  `json:"refund_amount_cents"`
}

type auditEntryResponse struct {
	ID            string            `json:"id"`
	PreviousState *string           `json:"previous_state"`
	NewState      string            `json:"new_state"`
	Actor         string            `json:"actor"`
	ActorType     string            `json:"actor_type"`
	Trigger       string            `json:"trigger"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	OriginAddress string            `json:"origin_address,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

func toAuditEntryResponse(e queries.AuditEntry) auditEntryResponse {
	return auditEntryResponse{
		ID:            e.ID.String(),
		PreviousState: e.PreviousState,
		NewState:      e.NewState,
		Actor:         e.Actor,
		ActorType:     e.ActorType,
		Trigger:       e.Trigger,
		Metadata:      e.Metadata,
		OriginAddress: e.OriginAddress,
		CreatedAt:     e.CreatedAt,
	}
}

type allowedTransitionsResponse struct {
	Kind               string   `json:"kind"`
	CurrentState       string   `json:"current_state"`
	AllowedTransitions []string `json:"allowed_transitions"`
	Terminal           bool     `json:"terminal"`
}
