package events

import (
	"time"

	"github.com/kilianp07/rotation/core/model"
)

// PlayerShare is one player's minutes in an accepted rotation.
type PlayerShare struct {
	Name     string
	Position model.Position
	Total    int
	Half1    int
	Half2    int
}

// SolveEvent is published once a solve request completes.
type SolveEvent struct {
	SolveID  string
	Policy   model.PolicyName
	Attempts int
	Solved   bool
	Duration time.Duration
	// Spread and StdDev describe total minutes across the roster; zero when
	// the solve failed.
	Spread  int
	StdDev  float64
	Players []PlayerShare
	Time    time.Time
}
