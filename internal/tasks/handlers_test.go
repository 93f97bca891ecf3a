package tasks

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/returns"
	"orderflow/internal/core/domain/model/task"
	"orderflow/internal/pkg/errs"
)

func TestInvoiceHandler_Execute_StoresAndNotifies(t *testing.T) {
	aggregate := shippedOrder(t)
	instance := pendingInstance(t, task.TypeInvoiceGeneration, aggregate.ID(), 0)

	renderer := &fakeRenderer{content: []byte("<html>invoice</html>")}
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	orderRepo := new(MockOrderRepository)
	uow := new(MockUnitOfWork)

	uow.On("OrderRepository").Return(orderRepo)
	orderRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil)

	handler, err := NewInvoiceHandler(renderer, store, notifier)
	require.NoError(t, err)

	reference, err := handler.Execute(t.Context(), uow, instance)

	require.NoError(t, err)
	expectedKey := fmt.Sprintf("invoices/%s.html", aggregate.ID())
	assert.Equal(t, expectedKey, reference)
	assert.Equal(t, expectedKey, store.storedKey)
	assert.Equal(t, []byte("<html>invoice</html>"), store.storedContent)
	assert.Equal(t, aggregate.CustomerID(), notifier.recipient)
	assert.Equal(t, expectedKey, notifier.ref)
}

func TestInvoiceHandler_Execute_AlreadyArchivedSkipsUpload(t *testing.T) {
	aggregate := shippedOrder(t)
	instance := pendingInstance(t, task.TypeInvoiceGeneration, aggregate.ID(), 1)
	expectedKey := fmt.Sprintf("invoices/%s.html", aggregate.ID())

	renderer := &fakeRenderer{content: []byte("<html>invoice</html>")}
	store := &fakeStore{storedKey: expectedKey}
	notifier := &fakeNotifier{}
	orderRepo := new(MockOrderRepository)
	uow := new(MockUnitOfWork)

	uow.On("OrderRepository").Return(orderRepo)
	orderRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil)

	handler, err := NewInvoiceHandler(renderer, store, notifier)
	require.NoError(t, err)

	reference, err := handler.Execute(t.Context(), uow, instance)

	require.NoError(t, err)
	assert.Equal(t, expectedKey, reference)
	assert.Zero(t, renderer.calls)
	assert.Nil(t, store.storedContent)
	assert.Equal(t, aggregate.CustomerID(), notifier.recipient)
	assert.Equal(t, expectedKey, notifier.ref)
}

func TestInvoiceHandler_Execute_StoreFailurePropagates(t *testing.T) {
	aggregate := shippedOrder(t)
	instance := pendingInstance(t, task.TypeInvoiceGeneration, aggregate.ID(), 0)

	store := &fakeStore{err: errors.New("bucket unavailable")}
	notifier := &fakeNotifier{}
	orderRepo := new(MockOrderRepository)
	uow := new(MockUnitOfWork)

	uow.On("OrderRepository").Return(orderRepo)
	orderRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil)

	handler, err := NewInvoiceHandler(&fakeRenderer{content: []byte("x")}, store, notifier)
	require.NoError(t, err)

	_, err = handler.Execute(t.Context(), uow, instance)

	require.Error(t, err)
	assert.Empty(t, notifier.recipient)
}

func TestInvoiceHandler_StillRequired(t *testing.T) {
	tests := []struct {
		name     string
		status   order.Status
		required bool
	}{
		{"shipped order still wants its invoice", order.Shipped, true},
		{"delivered order still wants its invoice", order.Delivered, true},
		{"cancelled order does not", order.Cancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aggregate := orderInStatus(t, tt.status)
			instance := pendingInstance(t, task.TypeInvoiceGeneration, aggregate.ID(), 0)

			orderRepo := new(MockOrderRepository)
			uow := new(MockUnitOfWork)
			uow.On("OrderRepository").Return(orderRepo)
			orderRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil)

			handler, err := NewInvoiceHandler(&fakeRenderer{}, &fakeStore{}, &fakeNotifier{})
			require.NoError(t, err)

			required, err := handler.StillRequired(t.Context(), uow, instance)

			require.NoError(t, err)
			assert.Equal(t, tt.required, required)
		})
	}
}

func TestInvoiceHandler_StillRequired_MissingOrder(t *testing.T) {
	instance := pendingInstance(t, task.TypeInvoiceGeneration, shippedOrder(t).ID(), 0)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUnitOfWork)
	uow.On("OrderRepository").Return(orderRepo)
	orderRepo.On("Get", mock.Anything, mock.Anything).
		Return(nil, errs.NewObjectNotFoundError("order", "x"))

	handler, err := NewInvoiceHandler(&fakeRenderer{}, &fakeStore{}, &fakeNotifier{})
	require.NoError(t, err)

	required, err := handler.StillRequired(t.Context(), uow, instance)

	require.NoError(t, err)
	assert.False(t, required)
}

func TestRefundHandler_Execute_RecordsTransaction(t *testing.T) {
	aggregate := completedReturn(t)
	instance := pendingInstance(t, task.TypeRefundProcessing, aggregate.ID(), 0)

	gateway := &fakeGateway{transactionID: "txn-845"}
	returnRepo := new(MockReturnRepository)
	uow := new(MockUnitOfWork)

	uow.On("ReturnRepository").Return(returnRepo)
	returnRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil)
	returnRepo.On("Update", mock.Anything, mock.MatchedBy(func(r *returns.Return) bool {
		return r.RefundTransactionID() == "txn-845"
	})).Return(nil).Once()

	handler, err := NewRefundHandler(gateway)
	require.NoError(t, err)

	reference, err := handler.Execute(t.Context(), uow, instance)

	require.NoError(t, err)
	assert.Equal(t, "txn-845", reference)
	assert.Equal(t, aggregate.ID().String(), gateway.gotRequest.ReturnID)
	assert.Equal(t, aggregate.OrderID().String(), gateway.gotRequest.OrderID)
	assert.Equal(t, int64(1200), gateway.gotRequest.AmountCents)
	assert.Equal(t, fmt.Sprintf("REFUND_PROCESSING:%s", aggregate.ID()), gateway.gotRequest.IdempotencyKey)
	returnRepo.AssertExpectations(t)
}

func TestRefundHandler_Execute_AlreadyRecordedSkipsGateway(t *testing.T) {
	aggregate := returnInStatus(t, returns.Completed, "txn-120")
	instance := pendingInstance(t, task.TypeRefundProcessing, aggregate.ID(), 0)

	gateway := &fakeGateway{transactionID: "txn-unwanted"}
	returnRepo := new(MockReturnRepository)
	uow := new(MockUnitOfWork)

	uow.On("ReturnRepository").Return(returnRepo)
	returnRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil)

	handler, err := NewRefundHandler(gateway)
	require.NoError(t, err)

	reference, err := handler.Execute(t.Context(), uow, instance)

	require.NoError(t, err)
	assert.Equal(t, "txn-120", reference)
	assert.Zero(t, gateway.calls)
	returnRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRefundHandler_Execute_GatewayFailurePropagates(t *testing.T) {
	aggregate := completedReturn(t)
	instance := pendingInstance(t, task.TypeRefundProcessing, aggregate.ID(), 0)

	gateway := &fakeGateway{err: errors.New("gateway timeout")}
	returnRepo := new(MockReturnRepository)
	uow := new(MockUnitOfWork)

	uow.On("ReturnRepository").Return(returnRepo)
	returnRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil)

	handler, err := NewRefundHandler(gateway)
	require.NoError(t, err)

	_, err = handler.Execute(t.Context(), uow, instance)

	require.Error(t, err)
	returnRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRefundHandler_StillRequired(t *testing.T) {
	tests := []struct {
		name     string
		status   returns.Status
		required bool
	}{
		{"completed return wants its refund", returns.Completed, true},
		{"received return does not yet", returns.Received, false},
		{"rejected return never does", returns.Rejected, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aggregate := returnInStatus(t, tt.status, "")
			instance := pendingInstance(t, task.TypeRefundProcessing, aggregate.ID(), 0)

			returnRepo := new(MockReturnRepository)
			uow := new(MockUnitOfWork)
			uow.On("ReturnRepository").Return(returnRepo)
			returnRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil)

			handler, err := NewRefundHandler(&fakeGateway{})
			require.NoError(t, err)

			required, err := handler.StillRequired(t.Context(), uow, instance)

			require.NoError(t, err)
			assert.Equal(t, tt.required, required)
		})
	}
}
