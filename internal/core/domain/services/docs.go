// Package services provides domain services that operate across workflow
// kinds. TransitionValidator exposes the order and return state machines to
// callers that hold only state names, keeping the transition tables
// themselves inside the aggregates.
package services
