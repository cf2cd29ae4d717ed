package rotation

import "github.com/kilianp07/rotation/core/model"

// Grid records, for every player and period, whether the player is on
// court. It belongs to a single attempt.
type Grid struct {
	positions     []model.Position
	periods       int
	periodMinutes int
	cells         []bool
}

// NewGrid returns an empty grid for the roster.
func NewGrid(r model.Roster, periods, periodMinutes int) *Grid {
	pos := make([]model.Position, len(r))
	for i, p := range r {
		pos[i] = p.Position
	}
	return &Grid{
		positions:     pos,
		periods:       periods,
		periodMinutes: periodMinutes,
		cells:         make([]bool, len(r)*periods),
	}
}

// Players is the number of grid rows.
func (g *Grid) Players() int { return len(g.positions) }

// Periods is the number of grid columns.
func (g *Grid) Periods() int { return g.periods }

// PeriodMinutes is the duration of one period.
func (g *Grid) PeriodMinutes() int { return g.periodMinutes }

// Occupied reports whether player is on court during period.
func (g *Grid) Occupied(player, period int) bool {
	return g.cells[player*g.periods+period]
}

// Set marks player on or off court for period.
func (g *Grid) Set(player, period int, on bool) {
	g.cells[player*g.periods+period] = on
}

// CountInPeriod returns how many players are on court during period.
func (g *Grid) CountInPeriod(period int) int {
	n := 0
	for p := range g.positions {
		if g.Occupied(p, period) {
			n++
		}
	}
	return n
}

// CountByPosition returns how many players listed at pos are on court
// during period.
func (g *Grid) CountByPosition(period int, pos model.Position) int {
	n := 0
	for p, ppos := range g.positions {
		if ppos == pos && g.Occupied(p, period) {
			n++
		}
	}
	return n
}

// OnCourt returns the player indexes on court during period in roster order.
func (g *Grid) OnCourt(period int) []int {
	var out []int
	for p := range g.positions {
		if g.Occupied(p, period) {
			out = append(out, p)
		}
	}
	return out
}

// TotalMinutes returns the minutes played by player over the game.
func (g *Grid) TotalMinutes(player int) int {
	return g.minutesBetween(player, 0, g.periods)
}

// HalfMinutes returns the minutes played by player in half 1 or 2.
func (g *Grid) HalfMinutes(player, half int) int {
	mid := g.periods / 2
	if half == 1 {
		return g.minutesBetween(player, 0, mid)
	}
	return g.minutesBetween(player, mid, g.periods)
}

func (g *Grid) minutesBetween(player, from, to int) int {
	n := 0
	for period := from; period < to; period++ {
		if g.Occupied(player, period) {
			n++
		}
	}
	return n * g.periodMinutes
}

// MaxConsecutiveRun returns the longest uninterrupted stretch on court for
// player, in minutes.
func (g *Grid) MaxConsecutiveRun(player int) int {
	longest, current := 0, 0
	for period := 0; period < g.periods; period++ {
		if !g.Occupied(player, period) {
			current = 0
			continue
		}
		current++
		if current > longest {
			longest = current
		}
	}
	return longest * g.periodMinutes
}

// Spread returns the gap in total minutes between the most and the least
// used player.
func (g *Grid) Spread() int {
	if len(g.positions) == 0 {
		return 0
	}
	lo, hi := g.TotalMinutes(0), g.TotalMinutes(0)
	for p := 1; p < len(g.positions); p++ {
		m := g.TotalMinutes(p)
		if m < lo {
			lo = m
		}
		if m > hi {
			hi = m
		}
	}
	return hi - lo
}

// Clone returns an independent copy of g.
func (g *Grid) Clone() *Grid {
	cp := *g
	cp.positions = append([]model.Position(nil), g.positions...)
	cp.cells = append([]bool(nil), g.cells...)
	return &cp
}

// Rows returns the grid as one slice of periods per player.
func (g *Grid) Rows() [][]bool {
	rows := make([][]bool, len(g.positions))
	for p := range rows {
		rows[p] = append([]bool(nil), g.cells[p*g.periods:(p+1)*g.periods]...)
	}
	return rows
}
