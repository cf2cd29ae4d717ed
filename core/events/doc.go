// Package events defines the rotation events emitted on the event bus.
//
// Available event types:
//   - AttemptEvent: outcome of one fill-and-validate attempt
//   - SolveEvent: final outcome of a solve request
package events
