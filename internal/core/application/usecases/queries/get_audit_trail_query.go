package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrGetAuditTrailQueryIsNotConstructed = errors.New(
	"GetAuditTrailQuery must be created via NewGetAuditTrailQuery constructor",
)

// GetAuditTrailQuery retrieves the transition history of one entity, oldest
// first, optionally filtered by actor and time range.
type GetAuditTrailQuery struct {
	kind     kernel.EntityKind
	entityID kernel.UUID
	actor    string
	from     time.Time
	to       time.Time

	guard guard.ConstructorGuard
}

// NewGetAuditTrailQuery creates an audit trail query. actor, from and to are
// optional; zero values disable the corresponding filter.
func NewGetAuditTrailQuery(
	kind kernel.EntityKind,
	entityID kernel.UUID,
	actor string,
	from time.Time,
	to time.Time,
) (GetAuditTrailQuery, error) {
	if err := kind.Validate(); err != nil {
		return GetAuditTrailQuery{}, err
	}
	if err := entityID.Validate(); err != nil {
		return GetAuditTrailQuery{}, err
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return GetAuditTrailQuery{}, errs.NewValueIsInvalidError("time range")
	}

	return GetAuditTrailQuery{
		kind:     kind,
		entityID: entityID,
		actor:    actor,
		from:     from,
		to:       to,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetAuditTrailQuery) Validate() error {
	return q.guard.Validate(ErrGetAuditTrailQueryIsNotConstructed)
}

// Kind returns the entity kind.
func (q GetAuditTrailQuery) Kind() kernel.EntityKind { return q.kind }

// EntityID returns the entity whose trail is requested.
func (q GetAuditTrailQuery) EntityID() kernel.UUID { return q.entityID }

// Actor returns the actor filter, empty for all actors.
func (q GetAuditTrailQuery) Actor() string { return q.actor }

// From returns the inclusive lower bound of the time filter.
func (q GetAuditTrailQuery) From() time.Time { return q.from }

// To returns the inclusive upper bound of the time filter.
func (q GetAuditTrailQuery) To() time.Time { return q.to }

// AuditEntry is one row of an entity's transition history. PreviousState is
// nil for the creation record.
type AuditEntry struct {
	ID            kernel.UUID
	PreviousState *string
	NewState      string
	Actor         string
	ActorType     string
	Trigger       string
	Metadata      map[string]string
	OriginAddress string
	CreatedAt     time.Time
}
