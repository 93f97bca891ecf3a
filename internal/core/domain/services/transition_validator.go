package services

import (
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/returns"
	"orderflow/internal/pkg/errs"
)

// TransitionValidator answers state-machine questions for any workflow kind
// without loading an entity. The per-kind transition tables live with their
// aggregates; this service is the single entry point for callers that only
// hold a kind and a pair of state names, such as the HTTP layer answering
// "what can this entity do next" or pre-flight checks before a transition.
//
// Validation here never replaces enforcement inside the aggregates: an
// entity's TransitionTo is the authority during a real state change.
type TransitionValidator struct{}

// NewTransitionValidator creates a new TransitionValidator instance.
func NewTransitionValidator() TransitionValidator {
	return TransitionValidator{}
}

// IsAllowed reports whether the workflow for kind permits moving from
// current to target. Unknown states are never allowed; it returns an error
// only for an unknown kind.
func (v TransitionValidator) IsAllowed(kind kernel.EntityKind, current string, target string) (bool, error) {
	switch kind {
	case kernel.KindOrder:
		from, err := order.StatusFromString(current)
		if err != nil {
			return false, nil
		}
		to, err := order.StatusFromString(target)
		if err != nil {
			return false, nil
		}
		return from.CanTransitionTo(to), nil
	case kernel.KindReturn:
		from, err := returns.StatusFromString(current)
		if err != nil {
			return false, nil
		}
		to, err := returns.StatusFromString(target)
		if err != nil {
			return false, nil
		}
		return from.CanTransitionTo(to), nil
	default:
		return false, errs.NewValueIsInvalidError("entity kind")
	}
}

// AllowedNext returns the states reachable from current in one step for the
// workflow of kind. Terminal and unknown states yield an empty slice.
func (v TransitionValidator) AllowedNext(kind kernel.EntityKind, current string) ([]string, error) {
	switch kind {
	case kernel.KindOrder:
		status, err := order.StatusFromString(current)
		if err != nil {
			return nil, err
		}
		return statusNames(status.AllowedNext()), nil
	case kernel.KindReturn:
		status, err := returns.StatusFromString(current)
		if err != nil {
			return nil, err
		}
		return returnStatusNames(status.AllowedNext()), nil
	default:
		return nil, errs.NewValueIsInvalidError("entity kind")
	}
}

// IsTerminal reports whether current is a terminal state for the workflow of kind.
func (v TransitionValidator) IsTerminal(kind kernel.EntityKind, current string) (bool, error) {
	switch kind {
	case kernel.KindOrder:
		status, err := order.StatusFromString(current)
		if err != nil {
			return false, err
		}
		return status.IsTerminal(), nil
	case kernel.KindReturn:
		status, err := returns.StatusFromString(current)
		if err != nil {
			return false, err
		}
		return status.IsTerminal(), nil
	default:
		return false, errs.NewValueIsInvalidError("entity kind")
	}
}

func statusNames(statuses []order.Status) []string {
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, s.String())
	}
	return names
}

func returnStatusNames(statuses []returns.Status) []string {
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, s.String())
	}
	return names
}
