package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"orderflow/internal/core/domain/model/kernel"
)

// ListReturnsQueryHandler reads pages of return rows, newest first.
type ListReturnsQueryHandler struct {
	db *gorm.DB
}

// NewListReturnsQueryHandler creates a handler for return listings.
func NewListReturnsQueryHandler(db *gorm.DB) ListReturnsQueryHandler {
	return ListReturnsQueryHandler{db: db}
}

// Handle executes the listing query.
func (h ListReturnsQueryHandler) Handle(ctx context.Context, query ListReturnsQuery) ([]ReturnSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sql := `
		SELECT id, order_id, status, refund_amount
		FROM returns
	`
	args := make([]any, 0, 3)
	if query.Status() != "" {
		sql += ` WHERE status = ?`
		args = append(args, query.Status().String())
	}
	sql += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, query.Limit(), query.Offset())

	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]ReturnSummary, 0)
	for rows.Next() {
		var id uuid.UUID
		var orderID uuid.UUID
		var summary ReturnSummary

		if err = rows.Scan(&id, &orderID, &summary.Status, &summary.RefundAmountCents); err != nil {
			return nil, err
		}

		returnID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		owningOrderID, idErr := kernel.UUIDFromBytes(orderID[:])
		if idErr != nil {
			return nil, idErr
		}
		summary.ID = returnID
		summary.OrderID = owningOrderID
		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}
