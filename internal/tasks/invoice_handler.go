package tasks

import (
	"context"
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/task"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// InvoiceHandler renders the invoice document, archives it and emails the
// customer. The marker reference is the archived object's key.
type InvoiceHandler struct {
	renderer ports.DocumentRenderer
	store    ports.ArtifactStore
	notifier ports.Notifier
}

// NewInvoiceHandler creates the invoice generation handler.
func NewInvoiceHandler(renderer ports.DocumentRenderer, store ports.ArtifactStore, notifier ports.Notifier) (*InvoiceHandler, error) {
	if renderer == nil {
		return nil, errs.NewValueIsRequiredError("renderer")
	}
	if store == nil {
		return nil, errs.NewValueIsRequiredError("store")
	}
	if notifier == nil {
		return nil, errs.NewValueIsRequiredError("notifier")
	}
	return &InvoiceHandler{renderer: renderer, store: store, notifier: notifier}, nil
}

func (h *InvoiceHandler) TaskType() task.Type {
	return task.TypeInvoiceGeneration
}

// StillRequired checks that the order exists and is still SHIPPED. An order
// that moved on (delivered) keeps its invoice task skippable only when the
// invoice was generated before the move, which the marker already covers;
// DELIVERED still wants the invoice, so it counts as required.
func (h *InvoiceHandler) StillRequired(ctx context.Context, uow ports.UnitOfWork, instance *task.Instance) (bool, error) {
	aggregate, err := uow.OrderRepository().Get(ctx, instance.EntityID())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return false, nil
		}
		return false, err
	}

	switch aggregate.Status() {
	case order.Shipped, order.Delivered:
		return true, nil
	default:
		return false, nil
	}
}

func (h *InvoiceHandler) Execute(ctx context.Context, uow ports.UnitOfWork, instance *task.Instance) (string, error) {
	aggregate, err := uow.OrderRepository().Get(ctx, instance.EntityID())
	if err != nil {
		return "", err
	}

	// A crash between the archive upload and the marker commit leaves the
	// document in the store with no marker. Skip the render and upload then,
	// but still notify: the crash may equally have happened before the email.
	key := fmt.Sprintf("invoices/%s.html", aggregate.ID())
	exists, err := h.store.Exists(ctx, key)
	if err != nil {
		return "", err
	}
	if exists {
		if err := h.notifier.SendInvoice(ctx, aggregate.CustomerID(), aggregate.ID().String(), key); err != nil {
			return "", err
		}
		return key, nil
	}

	content, contentType, err := h.renderer.RenderInvoice(ctx, ports.InvoiceData{
		OrderID:           aggregate.ID().String(),
		CustomerID:        aggregate.CustomerID(),
		ShippingAddress:   aggregate.ShippingAddress(),
		BillingAddress:    aggregate.BillingAddress(),
		SubtotalCents:     aggregate.Subtotal().Cents(),
		TaxCents:          aggregate.Tax().Cents(),
		ShippingCostCents: aggregate.ShippingCost().Cents(),
		TotalCents:        aggregate.Total().Cents(),
		TrackingNumber:    aggregate.TrackingNumber(),
		Carrier:           aggregate.Carrier(),
	})
	if err != nil {
		return "", err
	}

	reference, err := h.store.Store(ctx, key, content, contentType)
	if err != nil {
		return "", err
	}

	if err := h.notifier.SendInvoice(ctx, aggregate.CustomerID(), aggregate.ID().String(), reference); err != nil {
		return "", err
	}
	return reference, nil
}
