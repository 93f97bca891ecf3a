package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"orderflow/internal/core/domain/model/outbox"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/metrics"
)

const relayBatchSize = 100

// EventPublisher delivers one outbox event to the broker.
type EventPublisher interface {
	Publish(ctx context.Context, event *outbox.Event) error
}

// OutboxRelayJob drains pending outbox events to Kafka every second.
// Publish happens before the SENT mark commits, so a crash between the two
// re-publishes the event; consumers absorb the duplicate.
type OutboxRelayJob struct {
	uowFactory ports.UnitOfWorkFactory
	publisher  EventPublisher
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewOutboxRelayJob creates the relay job.
func NewOutboxRelayJob(uowFactory ports.UnitOfWorkFactory, publisher EventPublisher, logger *slog.Logger) (*OutboxRelayJob, error) {
	if uowFactory == nil {
		return nil, errs.NewValueIsRequiredError("uowFactory")
	}
	if publisher == nil {
		return nil, errs.NewValueIsRequiredError("publisher")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	return &OutboxRelayJob{
		uowFactory: uowFactory,
		publisher:  publisher,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "outbox_relay_job"),
	}, nil
}

// Start begins the relay to run every second.
func (j *OutboxRelayJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx := context.Background()

		if _, err := j.RelayOnce(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Outbox relay pass failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox relay job started (running every second)")
	return nil
}

// Stop stops the relay job.
func (j *OutboxRelayJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Outbox relay job stopped")
}

// RelayOnce publishes one batch of pending events and marks them SENT.
// Returns how many events were published. A broker failure stops the pass
// mid-batch; already marked events commit, the rest stay pending.
func (j *OutboxRelayJob) RelayOnce(ctx context.Context) (int, error) {
	uow := j.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer uow.Rollback(ctx)

	events, err := uow.OutboxRepository().GetPending(ctx, relayBatchSize)
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	published := 0
	for _, event := range events {
		if err := j.publisher.Publish(ctx, event); err != nil {
			// Stop the pass: later events for the same key must not
			// overtake this one.
			j.logger.WarnContext(ctx, "Broker rejected event, stopping pass",
				"event_id", event.ID().String(), "topic", event.Topic(), "error", err)
			break
		}

		if err := event.MarkSent(); err != nil {
			return published, err
		}
		if err := uow.OutboxRepository().Update(ctx, event); err != nil {
			return published, err
		}

		metrics.OutboxPublished.Inc()
		published++
	}

	if err := uow.Commit(ctx); err != nil {
		return published, err
	}
	return published, nil
}
