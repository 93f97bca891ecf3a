package task

import (
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// Status is the lifecycle state of a task instance.
//
//	PENDING ──> RUNNING ──┬──> SUCCESS
//	   ^                  ├──> RETRY_SCHEDULED ──> RUNNING (on redelivery)
//	   │                  └──> FAILED_TERMINAL
//	   └── (initial)
//
// SUCCESS and FAILED_TERMINAL are immutable once reached.
type Status string

const (
	StatusPending        Status = "PENDING"
	StatusRunning        Status = "RUNNING"
	StatusSuccess        Status = "SUCCESS"
	StatusRetryScheduled Status = "RETRY_SCHEDULED"
	StatusFailedTerminal Status = "FAILED_TERMINAL"
)

// IsTerminal reports whether the status permits no further mutation.
func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailedTerminal
}

// Instance is one schedulable unit of retryable background work tied to an
// entity. Instances are claimed by workers through a store-level lease;
// lifecycle methods enforce the status graph above.
type Instance struct {
	id                  kernel.UUID
	taskType            Type
	entityID            kernel.UUID
	causingTransitionID kernel.UUID
	attempts            int
	nextRunAt           time.Time
	status              Status
	lastError           string
	createdAt           time.Time
	updatedAt           time.Time

	isConstructed bool
}

// NewInstance creates a PENDING instance eligible to run immediately.
// causingTransitionID links back to the audit record whose transition
// triggered the task.
func NewInstance(taskType Type, entityID kernel.UUID, causingTransitionID kernel.UUID) (*Instance, error) {
	if err := taskType.Validate(); err != nil {
		return nil, err
	}
	if err := entityID.Validate(); err != nil {
		return nil, err
	}
	if err := causingTransitionID.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Instance{
		id:                  kernel.NewUUID(),
		taskType:            taskType,
		entityID:            entityID,
		causingTransitionID: causingTransitionID,
		status:              StatusPending,
		nextRunAt:           now,
		createdAt:           now,
		updatedAt:           now,
		isConstructed:       true,
	}, nil
}

// RestoreInstance reconstructs an instance from persistence.
func RestoreInstance(
	id kernel.UUID,
	taskType Type,
	entityID kernel.UUID,
	causingTransitionID kernel.UUID,
	attempts int,
	nextRunAt time.Time,
	status Status,
	lastError string,
	createdAt time.Time,
	updatedAt time.Time,
) (*Instance, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := taskType.Validate(); err != nil {
		return nil, err
	}
	if err := entityID.Validate(); err != nil {
		return nil, err
	}

	return &Instance{
		id:                  id,
		taskType:            taskType,
		entityID:            entityID,
		causingTransitionID: causingTransitionID,
		attempts:            attempts,
		nextRunAt:           nextRunAt,
		status:              status,
		lastError:           lastError,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
		isConstructed:       true,
	}, nil
}

// Validate ensures the instance was built through a constructor.
func (i *Instance) Validate() error {
	if i == nil || !i.isConstructed {
		return errs.NewValueIsRequiredError("task instance must be created via NewInstance or RestoreInstance")
	}
	return nil
}

// ID returns the instance identifier.
func (i *Instance) ID() kernel.UUID { return i.id }

// Type returns the task type.
func (i *Instance) Type() Type { return i.taskType }

// EntityID returns the identifier of the entity the task operates on.
func (i *Instance) EntityID() kernel.UUID { return i.entityID }

// CausingTransitionID returns the id of the audit record whose transition created the task.
func (i *Instance) CausingTransitionID() kernel.UUID { return i.causingTransitionID }

// Attempts returns how many attempts have started.
func (i *Instance) Attempts() int { return i.attempts }

// NextRunAt returns when the instance becomes eligible for claiming.
func (i *Instance) NextRunAt() time.Time { return i.nextRunAt }

// Status returns the instance lifecycle state.
func (i *Instance) Status() Status { return i.status }

// LastError returns the message of the most recent failed attempt.
func (i *Instance) LastError() string { return i.lastError }

// CreatedAt returns the creation timestamp.
func (i *Instance) CreatedAt() time.Time { return i.createdAt }

// UpdatedAt returns the timestamp of the last mutation.
func (i *Instance) UpdatedAt() time.Time { return i.updatedAt }

// Start marks the instance RUNNING and counts the attempt. Only PENDING and
// RETRY_SCHEDULED instances can start.
func (i *Instance) Start() error {
	if i.status != StatusPending && i.status != StatusRetryScheduled {
		return errs.NewValueIsInvalidErrorWithCause("task status",
			fmt.Errorf("cannot start a %s task", i.status))
	}

	i.status = StatusRunning
	i.attempts++
	i.touch()
	return nil
}

// MarkSuccess finishes the instance. Terminal: no further mutation is accepted.
func (i *Instance) MarkSuccess() error {
	if i.status != StatusRunning {
		return errs.NewValueIsInvalidErrorWithCause("task status",
			fmt.Errorf("cannot complete a %s task", i.status))
	}

	i.status = StatusSuccess
	i.touch()
	return nil
}

// ScheduleRetry records a recoverable failure and makes the instance eligible
// again at runAt. The redelivery time lives on the row, not in any worker, so
// a worker crash between attempts cannot lose the retry.
func (i *Instance) ScheduleRetry(cause error, runAt time.Time) error {
	if i.status != StatusRunning {
		return errs.NewValueIsInvalidErrorWithCause("task status",
			fmt.Errorf("cannot schedule retry for a %s task", i.status))
	}

	i.status = StatusRetryScheduled
	i.lastError = cause.Error()
	i.nextRunAt = runAt
	i.touch()
	return nil
}

// MarkFailedTerminal finishes the instance after retries are exhausted.
func (i *Instance) MarkFailedTerminal(cause error) error {
	if i.status != StatusRunning {
		return errs.NewValueIsInvalidErrorWithCause("task status",
			fmt.Errorf("cannot fail a %s task", i.status))
	}

	i.status = StatusFailedTerminal
	i.lastError = cause.Error()
	i.touch()
	return nil
}

// AttemptsExhausted reports whether the started attempts reached the type's limit.
func (i *Instance) AttemptsExhausted() bool {
	return i.attempts >= i.taskType.Policy().MaxAttempts
}

func (i *Instance) touch() {
	i.updatedAt = time.Now().UTC()
}
