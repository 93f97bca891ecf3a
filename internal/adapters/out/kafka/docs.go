// Package kafka contains the messaging adapters.
//
// The Publisher delivers outbox events to their topics and is driven by the
// outbox relay job. The TriggerConsumer reads trigger messages from the task
// topic and schedules task instances for the background executor. Keeping
// scheduling on the consumer side means the transition transaction only ever
// writes the outbox row, and a redelivered message is absorbed by the
// one-instance-per-entity constraint.
package kafka
