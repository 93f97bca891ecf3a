// Package jobs contains the scheduled background jobs.
//
// The outbox relay is the bridge between the transactional outbox and
// Kafka: transitions commit their trigger and alert events into the
// outbox table, and the relay drains pending rows to the broker. The
// JobManager gives the composition root one handle to start and stop
// every scheduled job.
//
// Usage:
//
//	manager := jobs.NewJobManager(relayJob)
//	if err := manager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer manager.StopAll()
package jobs
