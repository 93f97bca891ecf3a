package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/task"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// messageReader is the slice of *kafka.Reader the consumer needs.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// TriggerConsumer turns trigger messages into task instances. Each message
// opens its own transaction; a duplicate delivery hits the unique
// (task type, entity) constraint and is committed away as already scheduled.
type TriggerConsumer struct {
	reader     messageReader
	uowFactory ports.UnitOfWorkFactory
	logger     *slog.Logger
	wg         sync.WaitGroup
}

// NewTriggerConsumer creates a consumer over the task topic reader.
func NewTriggerConsumer(
	reader *kafka.Reader,
	uowFactory ports.UnitOfWorkFactory,
	logger *slog.Logger,
) (*TriggerConsumer, error) {
	if reader == nil {
		return nil, errs.NewValueIsRequiredError("reader")
	}
	if uowFactory == nil {
		return nil, errs.NewValueIsRequiredError("uowFactory")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	return &TriggerConsumer{
		reader:     reader,
		uowFactory: uowFactory,
		logger:     logger.With("component", "trigger_consumer"),
	}, nil
}

// Start launches the consume loop in a goroutine. The loop runs until the
// context is cancelled or the reader is closed.
func (c *TriggerConsumer) Start(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.logger.InfoContext(ctx, "Trigger consumer started")

		for {
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, io.EOF) || errors.Is(err, kafka.ErrGroupClosed) {
					c.logger.InfoContext(ctx, "Trigger consumer shutting down")
					return
				}
				c.logger.ErrorContext(ctx, "Failed to fetch trigger message", "error", err)
				time.Sleep(time.Second)
				continue
			}

			if err := c.processMessage(ctx, msg); err != nil {
				// Leave the offset uncommitted so the message is redelivered.
				c.logger.ErrorContext(ctx, "Failed to process trigger message",
					"error", err, "offset", msg.Offset)
				continue
			}

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.ErrorContext(ctx, "Failed to commit offset", "error", err)
			}
		}
	}()
}

// Stop closes the reader and waits for the consume loop to drain.
func (c *TriggerConsumer) Stop() {
	if err := c.reader.Close(); err != nil {
		c.logger.Error("Failed to close trigger reader", "error", err)
	}
	c.wg.Wait()
}

func (c *TriggerConsumer) processMessage(ctx context.Context, msg kafka.Message) error {
	trigger, err := task.DecodeTriggerMessage(msg.Value)
	if err != nil {
		// A payload that never decodes never will; drop it instead of
		// blocking the partition.
		c.logger.WarnContext(ctx, "Dropping malformed trigger message",
			"error", err, "offset", msg.Offset)
		return nil
	}

	instance, err := buildInstance(trigger)
	if err != nil {
		c.logger.WarnContext(ctx, "Dropping invalid trigger message",
			"error", err, "task_type", trigger.TaskType)
		return nil
	}

	uow := c.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback(ctx)

	if err := uow.TaskRepository().Add(ctx, instance); err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			c.logger.DebugContext(ctx, "Task already scheduled",
				"task_type", trigger.TaskType, "entity_id", trigger.EntityID)
			return nil
		}
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	c.logger.InfoContext(ctx, "Task scheduled",
		"task_type", trigger.TaskType, "entity_id", trigger.EntityID)
	return nil
}

func buildInstance(trigger task.TriggerMessage) (*task.Instance, error) {
	taskType := task.Type(trigger.TaskType)
	if err := taskType.Validate(); err != nil {
		return nil, err
	}

	entityID, err := kernel.UUIDFromString(trigger.EntityID)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("entity_id", err)
	}

	transitionID, err := kernel.UUIDFromString(trigger.TransitionID)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("transition_id", err)
	}

	return task.NewInstance(taskType, entityID, transitionID)
}
