package tasks

import (
	"context"
	"fmt"

	"orderflow/internal/core/domain/model/task"
	"orderflow/internal/core/ports"
)

// Handler performs the side effect for one task type.
type Handler interface {
	// TaskType identifies which task instances this handler serves.
	TaskType() task.Type

	// StillRequired reports whether the side effect is still wanted:
	// the target entity exists and remains in the state that triggered
	// the task. A stale task is marked done without running the effect.
	StillRequired(ctx context.Context, uow ports.UnitOfWork, instance *task.Instance) (bool, error)

	// Execute performs the side effect and returns the reference stored
	// in the idempotency marker (object key, transaction id).
	Execute(ctx context.Context, uow ports.UnitOfWork, instance *task.Instance) (string, error)
}

// Registry maps task types to their handlers.
type Registry struct {
	handlers map[task.Type]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[task.Type]Handler)}
}

// Register adds a handler. Registering two handlers for one type is a
// wiring mistake and fails.
func (r *Registry) Register(handler Handler) error {
	taskType := handler.TaskType()
	if err := taskType.Validate(); err != nil {
		return err
	}
	if _, exists := r.handlers[taskType]; exists {
		return fmt.Errorf("handler for task type %s already registered", taskType)
	}
	r.handlers[taskType] = handler
	return nil
}

// Get returns the handler for the task type.
func (r *Registry) Get(taskType task.Type) (Handler, bool) {
	handler, ok := r.handlers[taskType]
	return handler, ok
}
