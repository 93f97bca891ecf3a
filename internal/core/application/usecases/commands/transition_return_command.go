package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/returns"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrTransitionReturnCommandIsNotConstructed = errors.New(
	"TransitionReturnCommand must be created via NewTransitionReturnCommand constructor",
)

// TransitionReturnCommand represents a request to move a return to a target
// state. Moving to REJECTED requires a rejection reason; APPROVED and
// REJECTED record the reviewing actor on the aggregate.
type TransitionReturnCommand struct { //nolint:recvcheck //using for validation
	returnID        kernel.UUID
	target          returns.Status
	rejectionReason string
	actorInfo       ActorInfo
	metadata        map[string]string

	guard guard.ConstructorGuard
}

// NewTransitionReturnCommand creates a command to transition a return.
func NewTransitionReturnCommand(
	returnID kernel.UUID,
	target returns.Status,
	rejectionReason string,
	actorInfo ActorInfo,
	metadata map[string]string,
) (TransitionReturnCommand, error) {
	if err := returnID.Validate(); err != nil {
		return TransitionReturnCommand{}, err
	}
	if err := target.Validate(); err != nil {
		return TransitionReturnCommand{}, err
	}
	if target == returns.Rejected && rejectionReason == "" {
		return TransitionReturnCommand{}, errs.NewValueIsRequiredError("rejection reason")
	}

	return TransitionReturnCommand{
		returnID:        returnID,
		target:          target,
		rejectionReason: rejectionReason,
		actorInfo:       actorInfo,
		metadata:        metadata,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionReturnCommand) Validate() error {
	return c.guard.Validate(ErrTransitionReturnCommandIsNotConstructed)
}

// ReturnID returns the return to transition.
func (c TransitionReturnCommand) ReturnID() kernel.UUID { return c.returnID }

// Target returns the requested state.
func (c TransitionReturnCommand) Target() returns.Status { return c.target }

// RejectionReason returns the reason recorded when rejecting.
func (c TransitionReturnCommand) RejectionReason() string { return c.rejectionReason }

// ActorInfo returns who requested the transition.
func (c TransitionReturnCommand) ActorInfo() ActorInfo { return c.actorInfo }

// Metadata returns free-form context recorded on the audit record.
func (c TransitionReturnCommand) Metadata() map[string]string { return c.metadata }
