package queries

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/returns"
	"orderflow/internal/pkg/errs"
)

// GetReturnQueryHandler reads one return row and decorates it with the
// states the workflow allows next.
type GetReturnQueryHandler struct {
	db *gorm.DB
}

// NewGetReturnQueryHandler creates a handler for single-return reads.
func NewGetReturnQueryHandler(db *gorm.DB) GetReturnQueryHandler {
	return GetReturnQueryHandler{db: db}
}

// Handle executes the query. Returns errs.ErrObjectNotFound when the return
// does not exist.
func (h GetReturnQueryHandler) Handle(ctx context.Context, query GetReturnQuery) (GetReturnQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetReturnQueryResponse{}, err
	}

	var row struct {
		OrderID             uuid.UUID
		Status              string
		Version             int64
		Reason              string
		RequestedBy         string
		ReviewedBy          string
		RejectionReason     string
		RefundAmount        int64
		RefundTransactionID string
		TrackingNumber      string
		Carrier             string
	}

	err := h.db.WithContext(ctx).Raw(`
		SELECT
			order_id,
			status,
			version,
			reason,
			requested_by,
			reviewed_by,
			rejection_reason,
			refund_amount,
			refund_transaction_id,
			tracking_number,
			carrier
		FROM returns
		WHERE id = ?
	`, query.ReturnID().Bytes()).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GetReturnQueryResponse{}, errs.NewObjectNotFoundError("return", query.ReturnID().String())
		}
		return GetReturnQueryResponse{}, err
	}

	orderID, err := kernel.UUIDFromBytes(row.OrderID[:])
	if err != nil {
		return GetReturnQueryResponse{}, err
	}

	status, err := returns.StatusFromString(row.Status)
	if err != nil {
		return GetReturnQueryResponse{}, err
	}

	allowed := make([]string, 0)
	for _, s := range status.AllowedNext() {
		allowed = append(allowed, s.String())
	}

	return GetReturnQueryResponse{
		ID:                  query.ReturnID(),
		OrderID:             orderID,
		Status:              row.Status,
		Version:             row.Version,
		Reason:              row.Reason,
		RequestedBy:         row.RequestedBy,
		ReviewedBy:          row.ReviewedBy,
		RejectionReason:     row.RejectionReason,
		RefundAmountCents:   row.RefundAmount,
		RefundTransactionID: row.RefundTransactionID,
		TrackingNumber:      row.TrackingNumber,
		Carrier:             row.Carrier,
		AllowedNextStates:   allowed,
	}, nil
}
