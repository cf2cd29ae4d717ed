package model

import (
	"fmt"
	"strings"
)

// Position is the court position a player is listed at.
type Position string

const (
	Guard   Position = "G"
	Forward Position = "F"
)

// Positions lists every supported position.
var Positions = []Position{Guard, Forward}

// ParsePosition accepts the short ("G", "F") or long ("guard", "forward")
// spelling, case-insensitively.
func ParsePosition(s string) (Position, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "g", "guard":
		return Guard, nil
	case "f", "forward":
		return Forward, nil
	default:
		return "", fmt.Errorf("unknown position %q", s)
	}
}

// Valid reports whether p is one of the supported positions.
func (p Position) Valid() bool { return p == Guard || p == Forward }

// UnmarshalText accepts every spelling ParsePosition does, so rosters in
// JSON, YAML or the environment may use either form.
func (p *Position) UnmarshalText(b []byte) error {
	v, err := ParsePosition(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	switch p {
	case Guard:
		return "Guard"
	case Forward:
		return "Forward"
	default:
		return "unknown"
	}
}

// Player is one roster entry. Role flags are merged with the name sets held
// by Constraints; either source marks the player.
type Player struct {
	Name     string   `json:"name"`
	Position Position `json:"position"`
	// TargetMinutes is the equity hint of the target-minutes policy.
	TargetMinutes int `json:"target_minutes"`
	// Prioritize is the equity hint of the balanced-equal policy.
	Prioritize    bool `json:"prioritize"`
	Starter       bool `json:"starter"`
	Closer        bool `json:"closer"`
	Inexperienced bool `json:"inexperienced"`
}

// Roster is the ordered list of players. The order defines grid rows.
type Roster []Player

// Index returns the position of the named player or -1.
func (r Roster) Index(name string) int {
	for i, p := range r {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Names returns the player names in roster order.
func (r Roster) Names() []string {
	out := make([]string, len(r))
	for i, p := range r {
		out[i] = p.Name
	}
	return out
}

// Clone returns a copy that shares nothing with r.
func (r Roster) Clone() Roster {
	if r == nil {
		return nil
	}
	out := make(Roster, len(r))
	copy(out, r)
	return out
}
