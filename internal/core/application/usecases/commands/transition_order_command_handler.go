package commands

import (
	"context"
	"errors"
	"time"

	"orderflow/internal/core/domain/model/audit"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/outbox"
	"orderflow/internal/core/domain/model/task"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/backoff"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/metrics"
)

// conflictRetryLimit bounds how often a transition command retries after an
// optimistic-lock conflict before surfacing the conflict to the caller.
const conflictRetryLimit = 3

var conflictBackoff = backoff.Exponential{Base: 10 * time.Millisecond, Cap: 50 * time.Millisecond}

// TransitionOrderCommandHandler coordinates order state transitions.
//
// Each attempt runs in one transaction: load the order, apply the transition
// through the aggregate, persist with the version check, append the audit
// record, and enqueue the invoice trigger when the order reached SHIPPED.
// A version conflict means another writer transitioned the order first; the
// handler re-reads and retries a bounded number of times, so a retried
// request is validated against the fresh state rather than the one the
// caller saw.
type TransitionOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewTransitionOrderCommandHandler creates a handler for order transitions.
func NewTransitionOrderCommandHandler(uowFactory OrderUoWFactory) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the transition command. Returns
// kernel.InvalidTransitionError when the target is not reachable from the
// order's current state, and errs.ErrConcurrencyConflict when retries were
// exhausted without winning the version race.
func (h *TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	var err error
	for attempt := 1; attempt <= conflictRetryLimit; attempt++ {
		err = h.transitionOnce(ctx, cmd)
		if !errors.Is(err, errs.ErrConcurrencyConflict) {
			return err
		}

		metrics.ConflictRetries.Inc()
		if attempt < conflictRetryLimit {
			select {
			case <-time.After(conflictBackoff.Delay(attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return err
}

func (h *TransitionOrderCommandHandler) transitionOnce(ctx context.Context, cmd TransitionOrderCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	previous := aggregate.Status().String()
	if err = aggregate.TransitionTo(cmd.Target()); err != nil {
		metrics.TransitionsRejected.WithLabelValues(kernel.KindOrder.String()).Inc()
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	actor := cmd.ActorInfo()
	record, err := audit.NewRecord(
		kernel.KindOrder,
		aggregate.ID(),
		&previous,
		aggregate.Status().String(),
		actor.Actor(),
		actor.ActorType(),
		actor.Trigger(),
		cmd.Metadata(),
		actor.OriginAddress(),
	)
	if err != nil {
		return err
	}

	if err = uow.AuditRepository().Append(ctx, record); err != nil {
		return err
	}

	if cmd.Target() == order.Shipped {
		if err = enqueueTrigger(ctx, uow.OutboxRepository(), task.TypeInvoiceGeneration, aggregate.ID(), record.ID()); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	metrics.TransitionsApplied.WithLabelValues(kernel.KindOrder.String(), aggregate.Status().String()).Inc()
	return nil
}

// enqueueTrigger writes the task trigger to the outbox inside the
// transition's transaction. The relay publishes it to the trigger topic
// after commit, so a task is scheduled iff the transition committed.
func enqueueTrigger(
	ctx context.Context,
	outboxRepo ports.OutboxRepository,
	taskType task.Type,
	entityID kernel.UUID,
	transitionID kernel.UUID,
) error {
	payload, err := task.NewTriggerMessage(taskType, entityID.String(), transitionID.String()).Encode()
	if err != nil {
		return err
	}

	event, err := outbox.NewEvent(outbox.TopicTasks, entityID.String(), payload)
	if err != nil {
		return err
	}

	return outboxRepo.Add(ctx, event)
}
