package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/audit"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/outbox"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	return m.Called(ctx, aggregate).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	return m.Called(ctx, aggregate).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAll(ctx context.Context, status order.Status, limit, offset int) ([]*order.Order, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Append(ctx context.Context, record *audit.Record) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockAuditRepository) GetTrail(ctx context.Context, kind kernel.EntityKind, entityID kernel.UUID, filter ports.AuditFilter) ([]*audit.Record, error) {
	args := m.Called(ctx, kind, entityID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*audit.Record), args.Error(1)
}

type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) Add(ctx context.Context, event *outbox.Event) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockOutboxRepository) GetPending(ctx context.Context, limit int) ([]*outbox.Event, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Event), args.Error(1)
}

func (m *MockOutboxRepository) Update(ctx context.Context, event *outbox.Event) error {
	return m.Called(ctx, event).Error(0)
}

type MockOrderUoW struct {
	mock.Mock
}

func (m *MockOrderUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockOrderUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockOrderUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	return m.Called().Get(0).(ports.OrderRepository)
}

func (m *MockOrderUoW) AuditRepository() ports.AuditRepository {
	return m.Called().Get(0).(ports.AuditRepository)
}

func (m *MockOrderUoW) OutboxRepository() ports.OutboxRepository {
	return m.Called().Get(0).(ports.OutboxRepository)
}

type MockOrderUoWFactory struct {
	mock.Mock
}

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	return m.Called().Get(0).(commands.OrderUoW)
}

func pendingPaymentOrder(t *testing.T, id kernel.UUID) *order.Order {
	t.Helper()

	money := func(cents int64) kernel.Money {
		m, err := kernel.NewMoney(cents)
		require.NoError(t, err)
		return m
	}

	aggregate, err := order.RestoreOrder(
		id,
		"customer-1",
		order.PendingPayment,
		1,
		"1 Main St",
		"1 Main St",
		"CARD",
		money(1000),
		money(80),
		money(120),
		money(1200),
		"",
		"",
	)
	require.NoError(t, err)
	return aggregate
}

// TransitionOrder is exercised end to end through echo with a real command
// handler over mocked persistence; the interesting part is the error payload.
func TestServer_TransitionOrder_RejectedTransitionPayload(t *testing.T) {
	orderID := kernel.NewUUID()
	aggregate := pendingPaymentOrder(t, orderID)

	orderRepo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	factory := new(MockOrderUoWFactory)

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", mock.Anything).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	orderRepo.On("Get", mock.Anything, orderID).Return(aggregate, nil).Once()
	uow.On("Rollback", mock.Anything).Return(nil).Once()

	server := &Server{
		transitionOrderHandler: commands.NewTransitionOrderCommandHandler(factory),
	}
	e := echo.New()

	body := `{"target_state":"SHIPPED"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/transitions", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(actorHeader, "ops@example.com")
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetPath("/api/v1/orders/:id/transitions")
	ctx.SetParamNames("id")
	ctx.SetParamValues(orderID.String())

	require.NoError(t, server.TransitionOrder(ctx))

	assert.Equal(t, http.StatusConflict, rec.Code)

	var payload errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "INVALID_STATE_TRANSITION", payload.Code)
	assert.Equal(t, "Cannot transition from PENDING_PAYMENT to SHIPPED", payload.Message)
	require.NotNil(t, payload.Details)
	assert.Equal(t, "PENDING_PAYMENT", payload.Details.CurrentState)
	assert.Equal(t, "SHIPPED", payload.Details.RequestedState)
	assert.ElementsMatch(t, []string{"PAID", "CANCELLED"}, payload.Details.AllowedTransitions)
}

func TestServer_TransitionOrder_MissingActorHeader(t *testing.T) {
	server := &Server{}
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/transitions",
		strings.NewReader(`{"target_state":"PAID"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("id")
	ctx.SetParamValues(kernel.NewUUID().String())

	require.NoError(t, server.TransitionOrder(ctx))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWriteError_Mappings(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"not found", errs.NewObjectNotFoundError("order", "x"), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", errs.NewConcurrencyConflictError("order", "x"), http.StatusConflict, "CONCURRENCY_CONFLICT"},
		{"already exists", errs.NewAlreadyExistsError("return for order", "x"), http.StatusConflict, "ALREADY_EXISTS"},
		{"invalid value", errs.NewValueIsInvalidError("reason"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unclassified", assert.AnError, http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			ctx := e.NewContext(req, rec)

			require.NoError(t, writeError(ctx, tt.err))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestParseKind(t *testing.T) {
	kind, err := parseKind("orders")
	require.NoError(t, err)
	assert.Equal(t, kernel.KindOrder, kind)

	kind, err = parseKind("returns")
	require.NoError(t, err)
	assert.Equal(t, kernel.KindReturn, kind)

	kind, err = parseKind("ORDER")
	require.NoError(t, err)
	assert.Equal(t, kernel.KindOrder, kind)

	_, err = parseKind("shipments")
	assert.Error(t, err)
}
