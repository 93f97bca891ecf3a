// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, handling conversion between domain entities and database rows.
package orderrepo

import (
	"time"

	"github.com/google/uuid"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
// version backs the optimistic concurrency check in Update.
type OrderDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID      string    `gorm:"index"`
	Status          string    `gorm:"index"`
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
	CreatedAt       time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	return OrderDTO{
		ID:              aggregate.ID().Bytes(),
		CustomerID:      aggregate.CustomerID(),
		Status:          aggregate.Status().String(),
		Version:         aggregate.Version(),
		ShippingAddress: aggregate.ShippingAddress(),
		BillingAddress:  aggregate.BillingAddress(),
		PaymentMethod:   aggregate.PaymentMethod(),
		Subtotal:        aggregate.Subtotal().Cents(),
		Tax:             aggregate.Tax().Cents(),
		ShippingCost:    aggregate.ShippingCost().Cents(),
		Total:           aggregate.Total().Cents(),
		TrackingNumber:  aggregate.TrackingNumber(),
		Carrier:         aggregate.Carrier(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id,
		dto.CustomerID,
		status,
		dto.Version,
		dto.ShippingAddress,
		dto.BillingAddress,
		dto.PaymentMethod,
		kernel.Money(dto.Subtotal),
		kernel.Money(dto.Tax),
		kernel.Money(dto.ShippingCost),
		kernel.Money(dto.Total),
		dto.TrackingNumber,
		dto.Carrier,
	)
}
