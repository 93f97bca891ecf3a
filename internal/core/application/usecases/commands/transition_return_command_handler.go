package commands

import (
	"context"
	"errors"
	"time"

	"orderflow/internal/core/domain/model/audit"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/returns"
	"orderflow/internal/core/domain/model/task"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/metrics"
)

// TransitionReturnCommandHandler coordinates return state transitions with
// the same transaction shape as order transitions: entity update with a
// version check, audit record, and the refund trigger when the return
// reached COMPLETED, committed together, with a bounded retry on version
// conflict.
type TransitionReturnCommandHandler struct {
	uowFactory ReturnUoWFactory
}

// NewTransitionReturnCommandHandler creates a handler for return transitions.
func NewTransitionReturnCommandHandler(uowFactory ReturnUoWFactory) TransitionReturnCommandHandler {
	return TransitionReturnCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the transition command. Returns
// kernel.InvalidTransitionError when the target is not reachable and
// errs.ErrConcurrencyConflict when conflict retries were exhausted.
func (h *TransitionReturnCommandHandler) Handle(ctx context.Context, cmd TransitionReturnCommand) error {
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

func (h *TransitionReturnCommandHandler) transitionOnce(ctx context.Context, cmd TransitionReturnCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.ReturnRepository().Get(ctx, cmd.ReturnID())
	if err != nil {
		return err
	}

	previous := aggregate.Status().String()
	if err = h.applyTransition(aggregate, cmd); err != nil {
		metrics.TransitionsRejected.WithLabelValues(kernel.KindReturn.String()).Inc()
		return err
	}

	if err = uow.ReturnRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	actor := cmd.ActorInfo()
	record, err := audit.NewRecord(
		kernel.KindReturn,
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

	if cmd.Target() == returns.Completed {
		if err = enqueueTrigger(ctx, uow.OutboxRepository(), task.TypeRefundProcessing, aggregate.ID(), record.ID()); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	metrics.TransitionsApplied.WithLabelValues(kernel.KindReturn.String(), aggregate.Status().String()).Inc()
	return nil
}

// applyTransition routes APPROVED and REJECTED through the methods that
// record reviewer attribution; every other target goes through TransitionTo
// directly.
func (h *TransitionReturnCommandHandler) applyTransition(aggregate *returns.Return, cmd TransitionReturnCommand) error {
	switch cmd.Target() {
	case returns.Approved:
		return aggregate.Approve(cmd.ActorInfo().Actor())
	case returns.Rejected:
		return aggregate.Reject(cmd.ActorInfo().Actor(), cmd.RejectionReason())
	default:
		return aggregate.TransitionTo(cmd.Target())
	}
}
