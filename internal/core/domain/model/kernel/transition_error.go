package kernel

import "fmt"

// InvalidTransitionError is returned when a requested state change is not an
// edge of the entity kind's transition graph. It carries everything a caller
// needs to self-correct: the current state, the rejected target, and the full
// set of states reachable from the current one.
//
// This error represents a caller mistake and is never retried.
type InvalidTransitionError struct {
	Kind      EntityKind
	Current   string
	Requested string
	Allowed   []string
}

// NewInvalidTransitionError builds the error for a rejected transition.
// The allowed slice is copied so later table mutations cannot leak in.
func NewInvalidTransitionError(kind EntityKind, current, requested string, allowed []string) *InvalidTransitionError {
	cp := make([]string, len(allowed))
	copy(cp, allowed)
	return &InvalidTransitionError{
		Kind:      kind,
		Current:   current,
		Requested: requested,
		Allowed:   cp,
	}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition %s from %s to %s", e.Kind, e.Current, e.Requested)
}
