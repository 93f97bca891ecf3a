// Package task models retryable background work triggered by state
// transitions: the task instance lifecycle, per-type retry policies, and the
// idempotency markers that keep side effects exactly-once under retries.
package task
