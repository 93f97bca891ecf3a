// Package returnrepo provides persistence for the return aggregate.
package returnrepo

import (
	"time"

	"github.com/google/uuid"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/returns"
)

// ReturnDTO represents the database structure for persisting return
// aggregates. The unique index on order_id enforces at most one return per
// order at the storage level.
type ReturnDTO struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID             uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Status              string    `gorm:"index"`
	Version             int64
	Reason              string
	RequestedBy         string
	ReviewedBy          string
	RejectionReason     string
	RefundAmount        int64
	RefundTransactionID string
	TrackingNumber      string
	Carrier             string
	CreatedAt           time.Time `gorm:"autoCreateTime"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the database table name for return entities.
func (ReturnDTO) TableName() string {
	return "returns"
}

func fromDomain(aggregate *returns.Return) ReturnDTO {
	return ReturnDTO{
		ID:                  aggregate.ID().Bytes(),
		OrderID:             aggregate.OrderID().Bytes(),
		Status:              aggregate.Status().String(),
		Version:             aggregate.Version(),
		Reason:              aggregate.Reason(),
		RequestedBy:         aggregate.RequestedBy(),
		ReviewedBy:          aggregate.ReviewedBy(),
		RejectionReason:     aggregate.RejectionReason(),
		RefundAmount:        aggregate.RefundAmount().Cents(),
		RefundTransactionID: aggregate.RefundTransactionID(),
		TrackingNumber:      aggregate.TrackingNumber(),
		Carrier:             aggregate.Carrier(),
	}
}

func toDomain(dto ReturnDTO) (*returns.Return, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	status, err := returns.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return returns.RestoreReturn(
		id,
		orderID,
		status,
		dto.Version,
		dto.Reason,
		dto.RequestedBy,
		dto.ReviewedBy,
		dto.RejectionReason,
		kernel.Money(dto.RefundAmount),
		dto.RefundTransactionID,
		dto.TrackingNumber,
		dto.Carrier,
	)
}
