package events

import "github.com/kilianp07/rotation/core/model"

// Attempt outcomes.
const (
	OutcomeStuck    = "stuck"
	OutcomeInvalid  = "invalid"
	OutcomeAccepted = "accepted"
)

// AttemptEvent is published after each solver attempt.
type AttemptEvent struct {
	SolveID string
	Policy  model.PolicyName
	Attempt int
	Outcome string
	// Period is the period that could not be filled when Outcome is stuck,
	// -1 otherwise.
	Period int
	// Violations counts validator findings when Outcome is invalid.
	Violations int
}
