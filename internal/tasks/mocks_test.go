package tasks

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"orderflow/internal/core/domain/model/audit"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/outbox"
	"orderflow/internal/core/domain/model/returns"
	"orderflow/internal/core/domain/model/task"
	"orderflow/internal/core/ports"
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

type MockReturnRepository struct {
	mock.Mock
}

func (m *MockReturnRepository) Add(ctx context.Context, aggregate *returns.Return) error {
	return m.Called(ctx, aggregate).Error(0)
}

func (m *MockReturnRepository) Update(ctx context.Context, aggregate *returns.Return) error {
	return m.Called(ctx, aggregate).Error(0)
}

func (m *MockReturnRepository) Get(ctx context.Context, id kernel.UUID) (*returns.Return, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*returns.Return), args.Error(1)
}

func (m *MockReturnRepository) GetByOrderID(ctx context.Context, orderID kernel.UUID) (*returns.Return, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*returns.Return), args.Error(1)
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

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Add(ctx context.Context, instance *task.Instance) error {
	return m.Called(ctx, instance).Error(0)
}

func (m *MockTaskRepository) Update(ctx context.Context, instance *task.Instance) error {
	return m.Called(ctx, instance).Error(0)
}

func (m *MockTaskRepository) Get(ctx context.Context, id kernel.UUID) (*task.Instance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Instance), args.Error(1)
}

func (m *MockTaskRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*task.Instance, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Instance), args.Error(1)
}

type MockMarkerRepository struct {
	mock.Mock
}

func (m *MockMarkerRepository) Add(ctx context.Context, marker *task.Marker) error {
	return m.Called(ctx, marker).Error(0)
}

func (m *MockMarkerRepository) Get(ctx context.Context, taskType task.Type, entityID kernel.UUID) (*task.Marker, error) {
	args := m.Called(ctx, taskType, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Marker), args.Error(1)
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

type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUnitOfWork) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUnitOfWork) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUnitOfWork) OrderRepository() ports.OrderRepository {
	return m.Called().Get(0).(ports.OrderRepository)
}

func (m *MockUnitOfWork) ReturnRepository() ports.ReturnRepository {
	return m.Called().Get(0).(ports.ReturnRepository)
}

func (m *MockUnitOfWork) AuditRepository() ports.AuditRepository {
	return m.Called().Get(0).(ports.AuditRepository)
}

func (m *MockUnitOfWork) TaskRepository() ports.TaskRepository {
	return m.Called().Get(0).(ports.TaskRepository)
}

func (m *MockUnitOfWork) MarkerRepository() ports.MarkerRepository {
	return m.Called().Get(0).(ports.MarkerRepository)
}

func (m *MockUnitOfWork) OutboxRepository() ports.OutboxRepository {
	return m.Called().Get(0).(ports.OutboxRepository)
}

type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() ports.UnitOfWork {
	return m.Called().Get(0).(ports.UnitOfWork)
}

// fakeRenderer, fakeStore, fakeNotifier and fakeGateway are hand-rolled
// fakes; the handlers only need canned values and call recording.

type fakeRenderer struct {
	content []byte
	calls   int
	err     error
}

func (r *fakeRenderer) RenderInvoice(context.Context, ports.InvoiceData) ([]byte, string, error) {
	r.calls++
	return r.content, "text/html; charset=utf-8", r.err
}

type fakeStore struct {
	storedKey     string
	storedContent []byte
	err           error
}

func (s *fakeStore) Store(_ context.Context, key string, content []byte, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.storedKey = key
	s.storedContent = content
	return key, nil
}

func (s *fakeStore) Exists(_ context.Context, key string) (bool, error) {
	return s.storedKey != "" && s.storedKey == key, nil
}

type fakeNotifier struct {
	recipient string
	ref       string
	err       error
}

func (n *fakeNotifier) SendInvoice(_ context.Context, recipient, _, artifactRef string) error {
	if n.err != nil {
		return n.err
	}
	n.recipient = recipient
	n.ref = artifactRef
	return nil
}

type fakeGateway struct {
	transactionID string
	gotRequest    ports.RefundRequest
	calls         int
	err           error
}

func (g *fakeGateway) Refund(_ context.Context, request ports.RefundRequest) (string, error) {
	g.calls++
	g.gotRequest = request
	if g.err != nil {
		return "", g.err
	}
	return g.transactionID, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func shippedOrder(t *testing.T) *order.Order {
	t.Helper()
	return orderInStatus(t, order.Shipped)
}

func orderInStatus(t *testing.T, status order.Status) *order.Order {
	t.Helper()

	money := func(cents int64) kernel.Money {
		m, err := kernel.NewMoney(cents)
		require.NoError(t, err)
		return m
	}

	aggregate, err := order.RestoreOrder(
		kernel.NewUUID(),
		"customer@example.com",
		status,
		4,
		"1 Main St",
		"1 Main St",
		"CARD",
		money(1000),
		money(80),
		money(120),
		money(1200),
		"TRK-901",
		"DHL",
	)
	require.NoError(t, err)
	return aggregate
}

func completedReturn(t *testing.T) *returns.Return {
	t.Helper()
	return returnInStatus(t, returns.Completed, "")
}

func returnInStatus(t *testing.T, status returns.Status, refundTransactionID string) *returns.Return {
	t.Helper()

	amount, err := kernel.NewMoney(1200)
	require.NoError(t, err)

	aggregate, err := returns.RestoreReturn(
		kernel.NewUUID(),
		kernel.NewUUID(),
		status,
		5,
		"damaged on arrival",
		"customer@example.com",
		"ops@example.com",
		"",
		amount,
		refundTransactionID,
		"RTN-445",
		"UPS",
	)
	require.NoError(t, err)
	return aggregate
}

func pendingInstance(t *testing.T, taskType task.Type, entityID kernel.UUID, attempts int) *task.Instance {
	t.Helper()

	status := task.StatusPending
	if attempts > 0 {
		status = task.StatusRetryScheduled
	}

	instance, err := task.RestoreInstance(
		kernel.NewUUID(),
		taskType,
		entityID,
		kernel.NewUUID(),
		attempts,
		time.Now().UTC().Add(-time.Minute),
		status,
		"",
		time.Now().UTC().Add(-time.Hour),
		time.Now().UTC().Add(-time.Minute),
	)
	require.NoError(t, err)
	return instance
}
