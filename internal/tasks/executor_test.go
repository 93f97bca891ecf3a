package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/outbox"
	"orderflow/internal/core/domain/model/task"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

type stubHandler struct {
	taskType    task.Type
	required    bool
	requiredErr error
	reference   string
	execErr     error
	execCalls   int
}

func (h *stubHandler) TaskType() task.Type {
	return h.taskType
}

func (h *stubHandler) StillRequired(context.Context, ports.UnitOfWork, *task.Instance) (bool, error) {
	return h.required, h.requiredErr
}

func (h *stubHandler) Execute(context.Context, ports.UnitOfWork, *task.Instance) (string, error) {
	h.execCalls++
	if h.execErr != nil {
		return "", h.execErr
	}
	return h.reference, nil
}

func newTestExecutor(t *testing.T, handlers ...Handler) *Executor {
	t.Helper()

	registry := NewRegistry()
	for _, h := range handlers {
		require.NoError(t, registry.Register(h))
	}

	executor, err := NewExecutor(registry, testLogger())
	require.NoError(t, err)
	return executor
}

func TestExecutor_ExecuteAttempt_Success(t *testing.T) {
	entityID := kernel.NewUUID()
	instance := pendingInstance(t, task.TypeInvoiceGeneration, entityID, 0)
	handler := &stubHandler{taskType: task.TypeInvoiceGeneration, required: true, reference: "invoices/x.html"}

	taskRepo := new(MockTaskRepository)
	markerRepo := new(MockMarkerRepository)
	uow := new(MockUnitOfWork)

	uow.On("MarkerRepository").Return(markerRepo)
	uow.On("TaskRepository").Return(taskRepo)
	markerRepo.On("Get", mock.Anything, task.TypeInvoiceGeneration, entityID).
		Return(nil, errs.NewObjectNotFoundError("marker", entityID)).Once()
	markerRepo.On("Add", mock.Anything, mock.MatchedBy(func(marker *task.Marker) bool {
		return marker.Reference() == "invoices/x.html" && marker.EntityID().IsEqual(entityID)
	})).Return(nil).Once()
	taskRepo.On("Update", mock.Anything, instance).Return(nil).Once()

	executor := newTestExecutor(t, handler)
	err := executor.ExecuteAttempt(t.Context(), uow, instance)

	require.NoError(t, err)
	assert.Equal(t, task.StatusSuccess, instance.Status())
	assert.Equal(t, 1, instance.Attempts())
	assert.Equal(t, 1, handler.execCalls)
	markerRepo.AssertExpectations(t)
	taskRepo.AssertExpectations(t)
}

func TestExecutor_ExecuteAttempt_MarkerShortCircuits(t *testing.T) {
	entityID := kernel.NewUUID()
	instance := pendingInstance(t, task.TypeInvoiceGeneration, entityID, 0)
	handler := &stubHandler{taskType: task.TypeInvoiceGeneration, required: true, reference: "unused"}

	existing, err := task.NewMarker(task.TypeInvoiceGeneration, entityID, "invoices/x.html")
	require.NoError(t, err)

	taskRepo := new(MockTaskRepository)
	markerRepo := new(MockMarkerRepository)
	uow := new(MockUnitOfWork)

	uow.On("MarkerRepository").Return(markerRepo)
	uow.On("TaskRepository").Return(taskRepo)
	markerRepo.On("Get", mock.Anything, task.TypeInvoiceGeneration, entityID).Return(existing, nil).Once()
	taskRepo.On("Update", mock.Anything, instance).Return(nil).Once()

	executor := newTestExecutor(t, handler)
	err = executor.ExecuteAttempt(t.Context(), uow, instance)

	require.NoError(t, err)
	assert.Equal(t, task.StatusSuccess, instance.Status())
	assert.Zero(t, handler.execCalls)
	markerRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestExecutor_ExecuteAttempt_StaleEntitySkipsSideEffect(t *testing.T) {
	entityID := kernel.NewUUID()
	instance := pendingInstance(t, task.TypeInvoiceGeneration, entityID, 0)
	handler := &stubHandler{taskType: task.TypeInvoiceGeneration, required: false}

	taskRepo := new(MockTaskRepository)
	markerRepo := new(MockMarkerRepository)
	uow := new(MockUnitOfWork)

	uow.On("MarkerRepository").Return(markerRepo)
	uow.On("TaskRepository").Return(taskRepo)
	markerRepo.On("Get", mock.Anything, task.TypeInvoiceGeneration, entityID).
		Return(nil, errs.NewObjectNotFoundError("marker", entityID)).Once()
	taskRepo.On("Update", mock.Anything, instance).Return(nil).Once()

	executor := newTestExecutor(t, handler)
	err := executor.ExecuteAttempt(t.Context(), uow, instance)

	require.NoError(t, err)
	assert.Equal(t, task.StatusSuccess, instance.Status())
	assert.Zero(t, handler.execCalls)
	markerRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestExecutor_ExecuteAttempt_RecoverableFailureSchedulesRetry(t *testing.T) {
	entityID := kernel.NewUUID()
	instance := pendingInstance(t, task.TypeInvoiceGeneration, entityID, 0)
	handler := &stubHandler{
		taskType: task.TypeInvoiceGeneration,
		required: true,
		execErr:  errors.New("object store unavailable"),
	}

	taskRepo := new(MockTaskRepository)
	markerRepo := new(MockMarkerRepository)
	uow := new(MockUnitOfWork)

	uow.On("MarkerRepository").Return(markerRepo)
	uow.On("TaskRepository").Return(taskRepo)
	markerRepo.On("Get", mock.Anything, task.TypeInvoiceGeneration, entityID).
		Return(nil, errs.NewObjectNotFoundError("marker", entityID)).Once()
	taskRepo.On("Update", mock.Anything, instance).Return(nil).Once()

	before := time.Now().UTC()
	executor := newTestExecutor(t, handler)
	err := executor.ExecuteAttempt(t.Context(), uow, instance)

	require.NoError(t, err)
	assert.Equal(t, task.StatusRetryScheduled, instance.Status())
	assert.Equal(t, 1, instance.Attempts())
	assert.Contains(t, instance.LastError(), "object store unavailable")

	policy := task.TypeInvoiceGeneration.Policy()
	assert.True(t, instance.NextRunAt().After(before.Add(policy.BaseDelay/2-time.Second)))
	assert.True(t, instance.NextRunAt().Before(before.Add(policy.CapDelay+time.Second)))
}

func TestExecutor_ExecuteAttempt_ExhaustedRefundAlertsOperator(t *testing.T) {
	entityID := kernel.NewUUID()
	policy := task.TypeRefundProcessing.Policy()
	instance := pendingInstance(t, task.TypeRefundProcessing, entityID, policy.MaxAttempts-1)
	handler := &stubHandler{
		taskType: task.TypeRefundProcessing,
		required: true,
		execErr:  errors.New("gateway timeout"),
	}

	taskRepo := new(MockTaskRepository)
	markerRepo := new(MockMarkerRepository)
	outboxRepo := new(MockOutboxRepository)
	uow := new(MockUnitOfWork)

	uow.On("MarkerRepository").Return(markerRepo)
	uow.On("TaskRepository").Return(taskRepo)
	uow.On("OutboxRepository").Return(outboxRepo)
	markerRepo.On("Get", mock.Anything, task.TypeRefundProcessing, entityID).
		Return(nil, errs.NewObjectNotFoundError("marker", entityID)).Once()
	taskRepo.On("Update", mock.Anything, instance).Return(nil).Once()

	var published *outbox.Event
	outboxRepo.On("Add", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		published = args.Get(1).(*outbox.Event)
	}).Return(nil).Once()

	executor := newTestExecutor(t, handler)
	err := executor.ExecuteAttempt(t.Context(), uow, instance)

	require.NoError(t, err)
	assert.Equal(t, task.StatusFailedTerminal, instance.Status())
	assert.Equal(t, policy.MaxAttempts, instance.Attempts())

	require.NotNil(t, published)
	assert.Equal(t, outbox.TopicAlerts, published.Topic())

	var alert terminalAlert
	require.NoError(t, json.Unmarshal(published.Payload(), &alert))
	assert.Equal(t, task.TypeRefundProcessing.String(), alert.TaskType)
	assert.Equal(t, entityID.String(), alert.EntityID)
	assert.Equal(t, policy.MaxAttempts, alert.Attempts)
	assert.Contains(t, alert.LastError, "gateway timeout")

	// The return itself must be untouched: the terminal failure is recorded
	// on the task instance, never on the aggregate.
	uow.AssertNotCalled(t, "ReturnRepository")
}

func TestExecutor_ExecuteAttempt_ExhaustedInvoiceDoesNotAlert(t *testing.T) {
	entityID := kernel.NewUUID()
	policy := task.TypeInvoiceGeneration.Policy()
	instance := pendingInstance(t, task.TypeInvoiceGeneration, entityID, policy.MaxAttempts-1)
	handler := &stubHandler{
		taskType: task.TypeInvoiceGeneration,
		required: true,
		execErr:  errors.New("smtp relay down"),
	}

	taskRepo := new(MockTaskRepository)
	markerRepo := new(MockMarkerRepository)
	uow := new(MockUnitOfWork)

	uow.On("MarkerRepository").Return(markerRepo)
	uow.On("TaskRepository").Return(taskRepo)
	markerRepo.On("Get", mock.Anything, task.TypeInvoiceGeneration, entityID).
		Return(nil, errs.NewObjectNotFoundError("marker", entityID)).Once()
	taskRepo.On("Update", mock.Anything, instance).Return(nil).Once()

	executor := newTestExecutor(t, handler)
	err := executor.ExecuteAttempt(t.Context(), uow, instance)

	require.NoError(t, err)
	assert.Equal(t, task.StatusFailedTerminal, instance.Status())
	uow.AssertNotCalled(t, "OutboxRepository")
}

func TestExecutor_ExecuteAttempt_NoHandlerRegistered(t *testing.T) {
	entityID := kernel.NewUUID()
	instance := pendingInstance(t, task.TypeRefundProcessing, entityID, 0)

	markerRepo := new(MockMarkerRepository)
	uow := new(MockUnitOfWork)
	uow.On("MarkerRepository").Return(markerRepo)
	markerRepo.On("Get", mock.Anything, task.TypeRefundProcessing, entityID).
		Return(nil, errs.NewObjectNotFoundError("marker", entityID)).Once()

	executor := newTestExecutor(t)
	err := executor.ExecuteAttempt(t.Context(), uow, instance)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no handler registered")
}

func TestRegistry_Register_RejectsDuplicate(t *testing.T) {
	registry := NewRegistry()
	handler := &stubHandler{taskType: task.TypeInvoiceGeneration}

	require.NoError(t, registry.Register(handler))
	err := registry.Register(handler)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistry_Register_RejectsUnknownType(t *testing.T) {
	registry := NewRegistry()

	err := registry.Register(&stubHandler{taskType: "MYSTERY_TASK"})

	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
