package commands

import (
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// ActorInfo identifies who requested an operation and through which channel.
// Every command carries one; it becomes the attribution on the audit record
// the command appends.
type ActorInfo struct {
	actor         string
	actorType     kernel.ActorType
	trigger       kernel.TriggerSource
	originAddress string
}

// NewActorInfo validates and builds actor attribution for a command.
// originAddress may be empty for system-originated operations.
func NewActorInfo(actor string, actorType kernel.ActorType, trigger kernel.TriggerSource, originAddress string) (ActorInfo, error) {
	if actor == "" {
		return ActorInfo{}, errs.NewValueIsRequiredError("actor")
	}
	if err := actorType.Validate(); err != nil {
		return ActorInfo{}, err
	}
	if err := trigger.Validate(); err != nil {
		return ActorInfo{}, err
	}

	return ActorInfo{
		actor:         actor,
		actorType:     actorType,
		trigger:       trigger,
		originAddress: originAddress,
	}, nil
}

// SystemActor builds attribution for operations the engine performs on its
// own behalf, such as background task side effects.
func SystemActor(actor string) ActorInfo {
	return ActorInfo{
		actor:         actor,
		actorType:     kernel.ActorSystem,
		trigger:       kernel.TriggerBackgroundJob,
		originAddress: "",
	}
}

// Actor returns the requesting identity.
func (a ActorInfo) Actor() string { return a.actor }

// ActorType returns whether a user or the system requested the operation.
func (a ActorInfo) ActorType() kernel.ActorType { return a.actorType }

// Trigger returns the channel the request arrived through.
func (a ActorInfo) Trigger() kernel.TriggerSource { return a.trigger }

// OriginAddress returns the caller's network address when known.
func (a ActorInfo) OriginAddress() string { return a.originAddress }
