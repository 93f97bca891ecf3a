// Package tasks is the background side-effect subsystem: a worker Pool that
// claims due task instances, an Executor that runs a single attempt through
// the registered Handler, and the handlers themselves (invoice generation,
// refund processing).
//
// Every attempt runs inside the claiming transaction. The idempotency marker
// and the instance's outcome commit together with the claim, so a crash
// between the external side effect and the commit is absorbed on the next
// attempt by the marker check.
package tasks
