package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/outbox"
	"orderflow/internal/core/domain/model/task"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/backoff"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/metrics"
)

// terminalAlert is the payload published to the alert topic when a task
// exhausts its retry budget.
type terminalAlert struct {
	TaskType  string `json:"task_type"`
	EntityID  string `json:"entity_id"`
	Attempts  int    `json:"attempts"`
	LastError string `json:"last_error"`
}

// Executor runs one attempt of a claimed task instance. All writes go
// through the unit of work the caller claimed the instance in, so the
// outcome commits atomically with the claim.
type Executor struct {
	registry *Registry
	logger   *slog.Logger
	now      func() time.Time
}

// NewExecutor creates an executor over the handler registry.
func NewExecutor(registry *Registry, logger *slog.Logger) (*Executor, error) {
	if registry == nil {
		return nil, errs.NewValueIsRequiredError("registry")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}
	return &Executor{
		registry: registry,
		logger:   logger.With("component", "task_executor"),
		now:      time.Now,
	}, nil
}

// ExecuteAttempt runs a single attempt. A handler failure is recorded on the
// instance (retry schedule or terminal outcome) and does not return an error;
// only infrastructure failures (repository access) do, so the caller can
// abort the batch.
func (e *Executor) ExecuteAttempt(ctx context.Context, uow ports.UnitOfWork, instance *task.Instance) error {
	if err := instance.Start(); err != nil {
		return fmt.Errorf("failed to start task %s: %w", instance.ID(), err)
	}

	log := e.logger.With(
		"task_id", instance.ID().String(),
		"task_type", instance.Type().String(),
		"entity_id", instance.EntityID().String(),
		"attempt", instance.Attempts(),
	)

	// A marker means a previous attempt already performed the side effect
	// but died before its outcome committed. Absorb the replay.
	marker, err := uow.MarkerRepository().Get(ctx, instance.Type(), instance.EntityID())
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}
	if marker != nil {
		log.InfoContext(ctx, "Side effect already performed, completing task",
			"reference", marker.Reference())
		return e.complete(ctx, uow, instance, metrics.OutcomeSkipped)
	}

	handler, ok := e.registry.Get(instance.Type())
	if !ok {
		return fmt.Errorf("no handler registered for task type %s", instance.Type())
	}

	required, err := handler.StillRequired(ctx, uow, instance)
	if err != nil {
		return e.recordFailure(ctx, uow, instance, err, log)
	}
	if !required {
		log.InfoContext(ctx, "Entity left the triggering state, completing task without side effect")
		return e.complete(ctx, uow, instance, metrics.OutcomeSkipped)
	}

	reference, err := handler.Execute(ctx, uow, instance)
	if err != nil {
		return e.recordFailure(ctx, uow, instance, err, log)
	}

	newMarker, err := task.NewMarker(instance.Type(), instance.EntityID(), reference)
	if err != nil {
		return err
	}
	if err := uow.MarkerRepository().Add(ctx, newMarker); err != nil && !errors.Is(err, errs.ErrAlreadyExists) {
		return err
	}

	log.InfoContext(ctx, "Task completed", "reference", reference)
	return e.complete(ctx, uow, instance, metrics.OutcomeSuccess)
}

func (e *Executor) complete(ctx context.Context, uow ports.UnitOfWork, instance *task.Instance, outcome string) error {
	if err := instance.MarkSuccess(); err != nil {
		return err
	}
	if err := uow.TaskRepository().Update(ctx, instance); err != nil {
		return err
	}
	metrics.TaskAttempts.WithLabelValues(instance.Type().String(), outcome).Inc()
	return nil
}

// recordFailure schedules a retry while the attempt budget lasts, then
// marks the instance terminal and raises the operator alert if the task
// type demands one.
func (e *Executor) recordFailure(ctx context.Context, uow ports.UnitOfWork, instance *task.Instance, cause error, log *slog.Logger) error {
	policy := instance.Type().Policy()

	if !instance.AttemptsExhausted() {
		strategy := backoff.ExponentialWithJitter{Base: policy.BaseDelay, Cap: policy.CapDelay}
		runAt := e.now().UTC().Add(strategy.Delay(instance.Attempts()))

		if err := instance.ScheduleRetry(cause, runAt); err != nil {
			return err
		}
		if err := uow.TaskRepository().Update(ctx, instance); err != nil {
			return err
		}

		metrics.TaskAttempts.WithLabelValues(instance.Type().String(), metrics.OutcomeRetry).Inc()
		log.WarnContext(ctx, "Task attempt failed, retry scheduled",
			"error", cause, "next_run_at", runAt)
		return nil
	}

	if err := instance.MarkFailedTerminal(cause); err != nil {
		return err
	}
	if err := uow.TaskRepository().Update(ctx, instance); err != nil {
		return err
	}

	if policy.AlertOnTerminal {
		if err := e.enqueueAlert(ctx, uow, instance); err != nil {
			return err
		}
	}

	metrics.TaskAttempts.WithLabelValues(instance.Type().String(), metrics.OutcomeTerminal).Inc()
	log.ErrorContext(ctx, "Task failed terminally, retries exhausted",
		"error", cause, "attempts", instance.Attempts())
	return nil
}

func (e *Executor) enqueueAlert(ctx context.Context, uow ports.UnitOfWork, instance *task.Instance) error {
	payload, err := json.Marshal(terminalAlert{
		TaskType:  instance.Type().String(),
		EntityID:  instance.EntityID().String(),
		Attempts:  instance.Attempts(),
		LastError: instance.LastError(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode terminal alert: %w", err)
	}

	event, err := outbox.NewEvent(outbox.TopicAlerts, instance.EntityID().String(), payload)
	if err != nil {
		return err
	}
	return uow.OutboxRepository().Add(ctx, event)
}
