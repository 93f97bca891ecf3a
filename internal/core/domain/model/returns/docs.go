// Package returns contains the return-request aggregate and its lifecycle
// state machine, the second of the two workflows sharing the transition engine.
package returns
