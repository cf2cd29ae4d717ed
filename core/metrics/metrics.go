package metrics

import (
	"time"

	"github.com/kilianp07/rotation/core/model"
)

// SolveResult is the outcome of one solve.
type SolveResult struct {
	SolveID  string
	Policy   model.PolicyName
	Solved   bool
	Attempts int
	Duration time.Duration
	// Spread and StdDev describe total minutes; both are zero when the
	// solve failed.
	Spread int
	StdDev float64
	Time   time.Time
}

// MetricsSink records solve outcomes.
type MetricsSink interface {
	RecordSolve(res SolveResult) error
}

// AttemptResult is the outcome of a single fill-and-validate attempt.
type AttemptResult struct {
	SolveID    string
	Policy     model.PolicyName
	Attempt    int
	Outcome    string
	Period     int
	Violations int
	Time       time.Time
}

// AttemptRecorder records attempt outcomes.
type AttemptRecorder interface {
	RecordAttempt(res AttemptResult) error
}

// PlayerMinutes is a player's share of an accepted rotation.
type PlayerMinutes struct {
	SolveID  string
	Policy   model.PolicyName
	Player   string
	Position model.Position
	Total    int
	Half1    int
	Half2    int
	Time     time.Time
}

// PlayerMinutesRecorder records the minutes of accepted rotations.
type PlayerMinutesRecorder interface {
	RecordPlayerMinutes(mins []PlayerMinutes) error
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) RecordSolve(SolveResult) error             { return nil }
func (NopSink) RecordAttempt(AttemptResult) error         { return nil }
func (NopSink) RecordPlayerMinutes([]PlayerMinutes) error { return nil }
