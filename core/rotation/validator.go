package rotation

import (
	"fmt"

	"github.com/kilianp07/rotation/core/model"
)

// ViolationKind names the check a grid failed.
type ViolationKind string

const (
	ViolationLineupSize     ViolationKind = "lineup_size"
	ViolationTotalMinutes   ViolationKind = "total_minutes"
	ViolationHalfMinutes    ViolationKind = "half_minutes"
	ViolationHalfImbalance  ViolationKind = "half_imbalance"
	ViolationConsecutiveRun ViolationKind = "consecutive_run"
	ViolationSpread         ViolationKind = "spread"
)

// Violation is one failed check. Player is empty and Period is -1 when the
// check does not concern a single player or period.
type Violation struct {
	Kind   ViolationKind `json:"kind"`
	Player string        `json:"player,omitempty"`
	Period int           `json:"period"`
	Value  int           `json:"value"`
	Limit  int           `json:"limit"`
}

func (v Violation) String() string {
	switch {
	case v.Player != "":
		return fmt.Sprintf("%s: %s is %d (limit %d)", v.Player, v.Kind, v.Value, v.Limit)
	case v.Period >= 0:
		return fmt.Sprintf("period %d: %s is %d (want %d)", v.Period, v.Kind, v.Value, v.Limit)
	default:
		return fmt.Sprintf("%s is %d (limit %d)", v.Kind, v.Value, v.Limit)
	}
}

// Validate checks a completed grid. The lineup size of every period is
// always checked, whatever the policy.
func Validate(g *Grid, r model.Roster, teamSize int, p Policy) []Violation {
	var out []Violation
	for period := 0; period < g.Periods(); period++ {
		if n := g.CountInPeriod(period); n != teamSize {
			out = append(out, Violation{Kind: ViolationLineupSize, Period: period, Value: n, Limit: teamSize})
		}
	}
	for i, pl := range r {
		out = append(out, p.playerViolations(pl.Name, g.TotalMinutes(i), g.HalfMinutes(i, 1), g.HalfMinutes(i, 2), g.MaxConsecutiveRun(i))...)
	}
	if p.MaxSpread != Unlimited {
		if s := g.Spread(); s > p.MaxSpread {
			out = append(out, Violation{Kind: ViolationSpread, Period: -1, Value: s, Limit: p.MaxSpread})
		}
	}
	return out
}

// Valid reports whether g passes every check of p.
func Valid(g *Grid, r model.Roster, teamSize int, p Policy) bool {
	return len(Validate(g, r, teamSize, p)) == 0
}

func (p Policy) playerViolations(name string, total, half1, half2, run int) []Violation {
	var out []Violation
	add := func(kind ViolationKind, value, limit int) {
		out = append(out, Violation{Kind: kind, Player: name, Period: -1, Value: value, Limit: limit})
	}
	if total < p.MinTotal {
		add(ViolationTotalMinutes, total, p.MinTotal)
	}
	if half1 < p.MinHalf {
		add(ViolationHalfMinutes, half1, p.MinHalf)
	}
	if half2 < p.MinHalf {
		add(ViolationHalfMinutes, half2, p.MinHalf)
	}
	if p.MaxHalfImbalance != Unlimited {
		if d := abs(half1 - half2); d > p.MaxHalfImbalance {
			add(ViolationHalfImbalance, d, p.MaxHalfImbalance)
		}
	}
	if p.MaxRun != Unlimited && run > p.MaxRun {
		add(ViolationConsecutiveRun, run, p.MaxRun)
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
