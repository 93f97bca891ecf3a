// Package kernel contains shared value objects used across the domain model:
// entity identifiers, the entity-kind tag that dispatches between the order
// and return workflows, actor and trigger classifications for audit records,
// and monetary amounts.
package kernel
