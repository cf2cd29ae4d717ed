package rotation

import (
	"cmp"
	"slices"

	"github.com/kilianp07/rotation/core/model"
)

const (
	// quotaThreshold is the lineup size from which position quotas apply.
	quotaThreshold = 3
	// quotaMinimum is the number of players per position a lineup aims for.
	quotaMinimum = 2
)

// quotaOrder is the order in which short positions restrict the pool.
var quotaOrder = []model.Position{model.Forward, model.Guard}

type candidate struct {
	player int
	equity int
	half   int
	played int
	jitter float64
}

func compareCandidates(x, y candidate) int {
	if c := cmp.Compare(x.equity, y.equity); c != 0 {
		return c
	}
	if c := cmp.Compare(x.half, y.half); c != 0 {
		return c
	}
	if c := cmp.Compare(x.played, y.played); c != 0 {
		return c
	}
	return cmp.Compare(x.jitter, y.jitter)
}

// rankCandidates returns the players off court during period, best first.
func (a *attempt) rankCandidates(period int) []int {
	var pool []int
	for p := range a.roster {
		if !a.grid.Occupied(p, period) {
			pool = append(pool, p)
		}
	}
	pool = a.applyQuota(period, pool)

	half := a.constraints.Half(period)
	minutes := a.grid.PeriodMinutes()
	cands := make([]candidate, len(pool))
	for i, p := range pool {
		c := candidate{
			player: p,
			equity: a.policy.Equity.Key(a.roster[p], a.grid.TotalMinutes(p), minutes),
			half:   a.grid.HalfMinutes(p, half),
			jitter: a.rng.Float64(),
		}
		if period > 0 && a.grid.Occupied(p, period-1) {
			c.played = 1
		}
		cands[i] = c
	}
	slices.SortFunc(cands, compareCandidates)

	out := make([]int, len(cands))
	for i, c := range cands {
		out[i] = c.player
	}
	return out
}

// applyQuota narrows pool to a short position once the lineup is three
// deep. Positions the roster can never staff twice are skipped, and the
// pool is left untouched when no candidate of the short position is left,
// so a skewed roster never blocks the fill.
func (a *attempt) applyQuota(period int, pool []int) []int {
	if a.grid.CountInPeriod(period) < quotaThreshold {
		return pool
	}
	for _, pos := range quotaOrder {
		if a.positionTotals[pos] < quotaMinimum || a.grid.CountByPosition(period, pos) >= quotaMinimum {
			continue
		}
		var restricted []int
		for _, p := range pool {
			if a.roster[p].Position == pos {
				restricted = append(restricted, p)
			}
		}
		if len(restricted) > 0 {
			return restricted
		}
	}
	return pool
}
