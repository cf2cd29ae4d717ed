package mqtt

import (
	"context"
	"time"

	"github.com/kilianp07/rotation/core/rotation"
)

// Publisher broadcasts accepted rotations to courtside displays and
// scorekeeping tools over MQTT.
type Publisher interface {
	// PublishRotation sends the full rotation and one message per period.
	PublishRotation(ctx context.Context, msg RotationMessage) error

	// Disconnect closes the connection to the broker.
	Disconnect()
}

// Lineup is the payload published for one period.
type Lineup struct {
	SolveID string   `json:"solve_id"`
	Period  int      `json:"period"`
	Label   string   `json:"label"`
	Players []string `json:"players"`
	In      []string `json:"in,omitempty"`
	Out     []string `json:"out,omitempty"`
}

// RotationMessage is the retained payload describing a whole game.
type RotationMessage struct {
	SolveID   string         `json:"solve_id"`
	Policy    string         `json:"policy"`
	Periods   []Lineup       `json:"periods"`
	Minutes   map[string]int `json:"minutes"`
	Timestamp int64          `json:"timestamp"`
}

// NewRotationMessage flattens sol into the wire format. Periods are
// numbered from 1 as shown on the bench sheet.
func NewRotationMessage(solveID string, sol *rotation.Solution, at time.Time) RotationMessage {
	subs := sol.Substitutions()
	periods := make([]Lineup, sol.Periods())
	for p := range periods {
		l := Lineup{
			SolveID: solveID,
			Period:  p + 1,
			Label:   sol.Constraints.PeriodLabel(p),
			Players: sol.Lineup(p),
		}
		if p > 0 {
			l.In, l.Out = subs[p-1].In, subs[p-1].Out
		}
		periods[p] = l
	}
	return RotationMessage{
		SolveID:   solveID,
		Policy:    string(sol.Policy),
		Periods:   periods,
		Minutes:   sol.Minutes(),
		Timestamp: at.UnixMilli(),
	}
}
