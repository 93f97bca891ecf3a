package kernel

import "orderflow/internal/pkg/errs"

// EntityKind tags the two workflows sharing the transition engine.
// Audit records, outbox events and API routes dispatch on this tag instead
// of inspecting the aggregate type at runtime.
type EntityKind string

const (
	// KindOrder identifies the order workflow.
	KindOrder EntityKind = "ORDER"

	// KindReturn identifies the return workflow.
	KindReturn EntityKind = "RETURN"
)

// Validate checks that the kind is one of the two known workflows.
func (k EntityKind) Validate() error {
	switch k {
	case KindOrder, KindReturn:
		return nil
	default:
		return errs.NewValueIsInvalidError("entity kind")
	}
}

func (k EntityKind) String() string {
	return string(k)
}

// ActorType distinguishes who performed a transition.
type ActorType string

const (
	// ActorUser marks transitions requested by a human caller.
	ActorUser ActorType = "USER"

	// ActorSystem marks transitions performed by the engine itself.
	ActorSystem ActorType = "SYSTEM"
)

// Validate checks that the actor type is a known value.
func (a ActorType) Validate() error {
	switch a {
	case ActorUser, ActorSystem:
		return nil
	default:
		return errs.NewValueIsInvalidError("actor type")
	}
}

func (a ActorType) String() string {
	return string(a)
}

// TriggerSource records which channel caused a transition.
type TriggerSource string

const (
	// TriggerAPI marks transitions arriving through the HTTP API.
	TriggerAPI TriggerSource = "API"

	// TriggerBackgroundJob marks transitions performed by background workers.
	TriggerBackgroundJob TriggerSource = "BACKGROUND_JOB"

	// TriggerWebhook marks transitions driven by external callbacks.
	TriggerWebhook TriggerSource = "WEBHOOK"
)

// Validate checks that the trigger source is a known value.
func (t TriggerSource) Validate() error {
	switch t {
	case TriggerAPI, TriggerBackgroundJob, TriggerWebhook:
		return nil
	default:
		return errs.NewValueIsInvalidError("trigger source")
	}
}

func (t TriggerSource) String() string {
	return string(t)
}
