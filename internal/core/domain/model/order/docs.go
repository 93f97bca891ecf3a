// Package order contains the order aggregate and its lifecycle state machine.
// The transition table is the single source of truth for which state changes
// are legal; the aggregate enforces it on every transition and carries the
// optimistic lock version that serializes concurrent writers.
package order
