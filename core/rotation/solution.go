package rotation

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/rotation/core/model"
)

// PlayerMetrics summarises one player's game.
type PlayerMetrics struct {
	Name     string         `json:"name"`
	Position model.Position `json:"position"`
	OnCourt  []bool         `json:"on_court"`
	Total    int            `json:"total"`
	Half1    int            `json:"half1"`
	Half2    int            `json:"half2"`
	MaxRun   int            `json:"max_run"`
	// Valid is true when the player passes every per-player check of the
	// policy the solution was produced with.
	Valid bool `json:"valid"`
}

// Summary describes the distribution of total minutes across the roster.
type Summary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Spread int     `json:"spread"`
}

// Solution is an accepted rotation. It is never modified after Solve
// returns it.
type Solution struct {
	Policy       model.PolicyName  `json:"policy"`
	Constraints  model.Constraints `json:"constraints"`
	Players      []PlayerMetrics   `json:"players"`
	Summary      Summary           `json:"summary"`
	Attempts     int               `json:"attempts"`
	UnknownNames []string          `json:"unknown_names,omitempty"`

	grid *Grid
}

func newSolution(g *Grid, r model.Roster, c model.Constraints, p Policy, attempts int, unknown []string) *Solution {
	grid := g.Clone()
	rows := grid.Rows()
	players := make([]PlayerMetrics, len(r))
	for i, pl := range r {
		m := PlayerMetrics{
			Name:     pl.Name,
			Position: pl.Position,
			OnCourt:  rows[i],
			Total:    grid.TotalMinutes(i),
			Half1:    grid.HalfMinutes(i, 1),
			Half2:    grid.HalfMinutes(i, 2),
			MaxRun:   grid.MaxConsecutiveRun(i),
		}
		m.Valid = len(p.playerViolations(m.Name, m.Total, m.Half1, m.Half2, m.MaxRun)) == 0
		players[i] = m
	}
	return &Solution{
		Policy:       p.Name,
		Constraints:  c,
		Players:      players,
		Summary:      summarize(players),
		Attempts:     attempts,
		UnknownNames: unknown,
		grid:         grid,
	}
}

func summarize(players []PlayerMetrics) Summary {
	if len(players) == 0 {
		return Summary{}
	}
	totals := make([]float64, len(players))
	for i, p := range players {
		totals[i] = float64(p.Total)
	}
	mean, std := stat.PopMeanStdDev(totals, nil)
	lo, hi := int(floats.Min(totals)), int(floats.Max(totals))
	return Summary{Mean: mean, StdDev: std, Min: lo, Max: hi, Spread: hi - lo}
}

// Grid returns a copy of the accepted grid. A solution decoded from JSON
// rebuilds it from the per-player rows.
func (s *Solution) Grid() *Grid {
	if s.grid != nil {
		return s.grid.Clone()
	}
	r := make(model.Roster, len(s.Players))
	for i, p := range s.Players {
		r[i] = model.Player{Name: p.Name, Position: p.Position}
	}
	g := NewGrid(r, s.Constraints.PeriodCount, s.Constraints.PeriodMinutes)
	for i, p := range s.Players {
		for period, on := range p.OnCourt {
			if period < g.Periods() {
				g.Set(i, period, on)
			}
		}
	}
	return g
}

// Periods is the number of periods in the game.
func (s *Solution) Periods() int { return s.Constraints.PeriodCount }

// Lineup returns the names on court during period in roster order.
func (s *Solution) Lineup(period int) []string {
	var out []string
	for _, p := range s.Players {
		if period < len(p.OnCourt) && p.OnCourt[period] {
			out = append(out, p.Name)
		}
	}
	return out
}

// PeriodCounts returns the number of players on court for each period.
func (s *Solution) PeriodCounts() []int {
	out := make([]int, s.Periods())
	for period := range out {
		out[period] = len(s.Lineup(period))
	}
	return out
}

// Minutes returns the total minutes keyed by player name.
func (s *Solution) Minutes() map[string]int {
	out := make(map[string]int, len(s.Players))
	for _, p := range s.Players {
		out[p.Name] = p.Total
	}
	return out
}

// Substitution lists the changes made when period starts.
type Substitution struct {
	Period int      `json:"period"`
	In     []string `json:"in"`
	Out    []string `json:"out"`
}

// Substitutions returns the changes at every period boundary, from the
// second period on. In and Out are in roster order; a boundary without
// changes has both empty.
func (s *Solution) Substitutions() []Substitution {
	var out []Substitution
	for period := 1; period < s.Periods(); period++ {
		sub := Substitution{Period: period}
		for _, p := range s.Players {
			before := period-1 < len(p.OnCourt) && p.OnCourt[period-1]
			now := period < len(p.OnCourt) && p.OnCourt[period]
			switch {
			case now && !before:
				sub.In = append(sub.In, p.Name)
			case before && !now:
				sub.Out = append(sub.Out, p.Name)
			}
		}
		out = append(out, sub)
	}
	return out
}
