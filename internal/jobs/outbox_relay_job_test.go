package jobs

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"orderflow/internal/core/domain/model/outbox"
	"orderflow/internal/core/ports"
)

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

func (m *MockUnitOfWork) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockUnitOfWork) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockUnitOfWork) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

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

type fakePublisher struct {
	published []*outbox.Event
	failAfter int // fail on publish number failAfter+1; -1 never fails
}

func (p *fakePublisher) Publish(_ context.Context, event *outbox.Event) error {
	if p.failAfter >= 0 && len(p.published) >= p.failAfter {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, event)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func pendingEvent(t *testing.T, key string) *outbox.Event {
	t.Helper()
	event, err := outbox.NewEvent(outbox.TopicTasks, key, []byte(`{"task_type":"INVOICE_GENERATION"}`))
	require.NoError(t, err)
	return event
}

func relayFixture(t *testing.T, events []*outbox.Event, publisher *fakePublisher) (*OutboxRelayJob, *MockOutboxRepository, *MockUnitOfWork) {
	t.Helper()

	outboxRepo := new(MockOutboxRepository)
	uow := new(MockUnitOfWork)
	factory := new(MockUnitOfWorkFactory)

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", mock.Anything).Return(nil).Once()
	uow.On("OutboxRepository").Return(outboxRepo)
	uow.On("Rollback", mock.Anything).Return(nil).Once()
	outboxRepo.On("GetPending", mock.Anything, relayBatchSize).Return(events, nil).Once()

	job, err := NewOutboxRelayJob(factory, publisher, testLogger())
	require.NoError(t, err)
	return job, outboxRepo, uow
}

func TestOutboxRelayJob_RelayOnce_PublishesAndMarksSent(t *testing.T) {
	events := []*outbox.Event{pendingEvent(t, "order-1"), pendingEvent(t, "order-2")}
	publisher := &fakePublisher{failAfter: -1}

	job, outboxRepo, uow := relayFixture(t, events, publisher)
	outboxRepo.On("Update", mock.Anything, mock.MatchedBy(func(e *outbox.Event) bool {
		return e.Status() == outbox.StatusSent && e.SentAt() != nil
	})).Return(nil).Twice()
	uow.On("Commit", mock.Anything).Return(nil).Once()

	published, err := job.RelayOnce(t.Context())

	require.NoError(t, err)
	assert.Equal(t, 2, published)
	assert.Len(t, publisher.published, 2)
	outboxRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestOutboxRelayJob_RelayOnce_NothingPending(t *testing.T) {
	publisher := &fakePublisher{failAfter: -1}
	job, _, uow := relayFixture(t, []*outbox.Event{}, publisher)

	published, err := job.RelayOnce(t.Context())

	require.NoError(t, err)
	assert.Zero(t, published)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestOutboxRelayJob_RelayOnce_BrokerFailureStopsPass(t *testing.T) {
	events := []*outbox.Event{pendingEvent(t, "order-1"), pendingEvent(t, "order-2"), pendingEvent(t, "order-3")}
	publisher := &fakePublisher{failAfter: 1}

	job, outboxRepo, uow := relayFixture(t, events, publisher)
	outboxRepo.On("Update", mock.Anything, mock.Anything).Return(nil).Once()
	uow.On("Commit", mock.Anything).Return(nil).Once()

	published, err := job.RelayOnce(t.Context())

	require.NoError(t, err)
	assert.Equal(t, 1, published)
	assert.Equal(t, outbox.StatusPending, events[1].Status())
	assert.Equal(t, outbox.StatusPending, events[2].Status())
	outboxRepo.AssertExpectations(t)
}
