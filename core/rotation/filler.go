package rotation

import (
	"fmt"
	"math/rand/v2"

	"github.com/kilianp07/rotation/core/model"
)

// stuckError aborts an attempt when no candidate can take a slot.
type stuckError struct {
	period int
}

func (e *stuckError) Error() string {
	return fmt.Sprintf("period %d: no eligible player", e.period)
}

// attempt is the state of one fill-and-validate cycle.
type attempt struct {
	roster      model.Roster
	roles       model.Roles
	constraints model.Constraints
	policy      Policy
	rng         *rand.Rand
	grid        *Grid

	inexperiencedTotal int
	positionTotals     map[model.Position]int
}

func newAttempt(r model.Roster, roles model.Roles, c model.Constraints, p Policy, rng *rand.Rand) *attempt {
	totals := make(map[model.Position]int, len(model.Positions))
	for _, pl := range r {
		totals[pl.Position]++
	}
	return &attempt{
		roster:             r,
		roles:              roles,
		constraints:        c,
		policy:             p,
		rng:                rng,
		grid:               NewGrid(r, c.PeriodCount, c.PeriodMinutes),
		inexperiencedTotal: roles.InexperiencedCount(),
		positionTotals:     totals,
	}
}

// seed puts starters on court in the first period and closers in the last.
func (a *attempt) seed() {
	last := a.constraints.PeriodCount - 1
	for p := range a.roster {
		if a.roles.Starter[p] {
			a.grid.Set(p, 0, true)
		}
		if a.roles.Closer[p] {
			a.grid.Set(p, last, true)
		}
	}
}

// fill completes every period in policy order.
func (a *attempt) fill() error {
	for _, period := range a.policy.FillOrder(a.constraints.PeriodCount) {
		if err := a.fillPeriod(period); err != nil {
			return err
		}
	}
	return nil
}

func (a *attempt) fillPeriod(period int) error {
	for a.grid.CountInPeriod(period) < a.constraints.TeamSize {
		var eligible []int
		for _, p := range a.rankCandidates(period) {
			a.grid.Set(p, period, true)
			ok := a.inexperienceOK(period)
			a.grid.Set(p, period, false)
			if ok {
				eligible = append(eligible, p)
			}
		}
		if len(eligible) == 0 {
			return &stuckError{period: period}
		}
		a.grid.Set(a.choose(period, eligible), period, true)
	}
	return nil
}

// choose picks the first eligible player that keeps the spread within the
// policy preference, falling back to the best ranked one.
func (a *attempt) choose(period int, eligible []int) int {
	if a.policy.SpreadPreference == Unlimited {
		return eligible[0]
	}
	for _, p := range eligible {
		a.grid.Set(p, period, true)
		spread := a.grid.Spread()
		a.grid.Set(p, period, false)
		if spread <= a.policy.SpreadPreference {
			return p
		}
	}
	return eligible[0]
}

func (a *attempt) inexperienceOK(period int) bool {
	n := 0
	for _, p := range a.grid.OnCourt(period) {
		if a.roles.Inexperienced[p] {
			n++
		}
	}
	return a.policy.InexperienceOK(n, a.inexperiencedTotal, a.constraints.TeamSize)
}
