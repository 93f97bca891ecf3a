package queries

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

// GetOrderQueryHandler reads one order row and decorates it with the states
// the workflow allows next.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single-order reads.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query. Returns errs.ErrObjectNotFound when the order
// does not exist.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	var row struct {
		ID              uuid.UUID
		CustomerID      string
		Status          string
		Version         int64
		ShippingAddress string
		BillingAddress  string
		PaymentMethod   string
		Subtotal        int64
		Tax             int64
		ShippingCost    int64
		Total           int64
		TrackingNumber  string
		Carrier         string
	}

	err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			customer_id,
			status,
			version,
			shipping_address,
			billing_address,
			payment_method,
			subtotal,
			tax,
			shipping_cost,
			total,
			tracking_number,
			carrier
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
		}
		return GetOrderQueryResponse{}, err
	}

	status, err := order.StatusFromString(row.Status)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	allowed := make([]string, 0)
	for _, s := range status.AllowedNext() {
		allowed = append(allowed, s.String())
	}

	return GetOrderQueryResponse{
		ID:                query.OrderID(),
		CustomerID:        row.CustomerID,
		Status:            row.Status,
		Version:           row.Version,
		ShippingAddress:   row.ShippingAddress,
		BillingAddress:    row.BillingAddress,
		PaymentMethod:     row.PaymentMethod,
		SubtotalCents:     row.Subtotal,
		TaxCents:          row.Tax,
		ShippingCostCents: row.ShippingCost,
		TotalCents:        row.Total,
		TrackingNumber:    row.TrackingNumber,
		Carrier:           row.Carrier,
		AllowedNextStates: allowed,
	}, nil
}
