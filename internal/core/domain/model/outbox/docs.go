// Package outbox models the transactional outbox: durable event rows written
// atomically with state changes and relayed to the message broker afterwards.
package outbox
