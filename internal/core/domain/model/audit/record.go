// Package audit contains the immutable audit record describing one realized
// state change. Records are created by the transition coordinator in the same
// atomic unit as the state update and are never modified afterwards; the
// ledger port exposes append and query only.
package audit

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// Record is one entry of the append-only audit ledger.
//
// PreviousState is nil exactly once per entity: for the creation record that
// documents the entity entering its initial state.
type Record struct {
	id            kernel.UUID
	entityKind    kernel.EntityKind
	entityID      kernel.UUID
	previousState *string
	newState      string
	actor         string
	actorType     kernel.ActorType
	trigger       kernel.TriggerSource
	metadata      map[string]string
	originAddress string
	createdAt     time.Time

	isConstructed bool
}

// NewRecord creates an audit record timestamped now. The metadata map is
// copied so the record stays immutable even if the caller keeps the map.
func NewRecord(
	entityKind kernel.EntityKind,
	entityID kernel.UUID,
	previousState *string,
	newState string,
	actor string,
	actorType kernel.ActorType,
	trigger kernel.TriggerSource,
	metadata map[string]string,
	originAddress string,
) (*Record, error) {
	if err := entityKind.Validate(); err != nil {
		return nil, err
	}
	if err := entityID.Validate(); err != nil {
		return nil, err
	}
	if newState == "" {
		return nil, errs.NewValueIsRequiredError("new state")
	}
	if actor == "" {
		return nil, errs.NewValueIsRequiredError("actor")
	}
	if err := actorType.Validate(); err != nil {
		return nil, err
	}
	if err := trigger.Validate(); err != nil {
		return nil, err
	}

	var prev *string
	if previousState != nil {
		p := *previousState
		prev = &p
	}

	return &Record{
		id:            kernel.NewUUID(),
		entityKind:    entityKind,
		entityID:      entityID,
		previousState: prev,
		newState:      newState,
		actor:         actor,
		actorType:     actorType,
		trigger:       trigger,
		metadata:      copyMetadata(metadata),
		originAddress: originAddress,
		createdAt:     time.Now().UTC(),
		isConstructed: true,
	}, nil
}

// RestoreRecord reconstructs a record from persistence with its stored id and timestamp.
func RestoreRecord(
	id kernel.UUID,
	entityKind kernel.EntityKind,
	entityID kernel.UUID,
	previousState *string,
	newState string,
	actor string,
	actorType kernel.ActorType,
	trigger kernel.TriggerSource,
	metadata map[string]string,
	originAddress string,
	createdAt time.Time,
) (*Record, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := entityKind.Validate(); err != nil {
		return nil, err
	}
	if err := entityID.Validate(); err != nil {
		return nil, err
	}

	return &Record{
		id:            id,
		entityKind:    entityKind,
		entityID:      entityID,
		previousState: previousState,
		newState:      newState,
		actor:         actor,
		actorType:     actorType,
		trigger:       trigger,
		metadata:      copyMetadata(metadata),
		originAddress: originAddress,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

func copyMetadata(metadata map[string]string) map[string]string {
	if len(metadata) == 0 {
		return nil
	}
	cp := make(map[string]string, len(metadata))
	for k, v := range metadata {
		cp[k] = v
	}
	return cp
}

// Validate ensures the record was built through a constructor.
func (r *Record) Validate() error {
	if r == nil || !r.isConstructed {
		return errs.NewValueIsRequiredError("audit record must be created via NewRecord or RestoreRecord")
	}
	return nil
}

// ID returns the record's globally unique identifier.
func (r *Record) ID() kernel.UUID {
	return r.id
}

// EntityKind returns the workflow the record belongs to.
func (r *Record) EntityKind() kernel.EntityKind {
	return r.entityKind
}

// EntityID returns the identifier of the transitioned entity.
func (r *Record) EntityID() kernel.UUID {
	return r.entityID
}

// PreviousState returns the state before the transition, nil for the creation record.
func (r *Record) PreviousState() *string {
	if r.previousState == nil {
		return nil
	}
	p := *r.previousState
	return &p
}

// NewState returns the state after the transition.
func (r *Record) NewState() string {
	return r.newState
}

// Actor returns the identity that requested the transition.
func (r *Record) Actor() string {
	return r.actor
}

// ActorType returns whether the actor was a user or the system.
func (r *Record) ActorType() kernel.ActorType {
	return r.actorType
}

// Trigger returns the channel that caused the transition.
func (r *Record) Trigger() kernel.TriggerSource {
	return r.trigger
}

// Metadata returns a copy of the free-form context attached to the transition.
func (r *Record) Metadata() map[string]string {
	return copyMetadata(r.metadata)
}

// OriginAddress returns the caller's network address, empty for system transitions.
func (r *Record) OriginAddress() string {
	return r.originAddress
}

// CreatedAt returns the record timestamp; it orders an entity's history.
func (r *Record) CreatedAt() time.Time {
	return r.createdAt
}
