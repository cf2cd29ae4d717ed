package rotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/rotation/core/model"
)

// cyclicGrid puts players on court in a round-robin: period k fields the
// players at indexes 5k..5k+4 modulo the roster size. For nine players this
// is valid under both built-in policies.
func cyclicGrid(r model.Roster) *Grid {
	g := NewGrid(r, 8, 5)
	for period := 0; period < 8; period++ {
		for j := 0; j < 5; j++ {
			g.Set((period*5+j)%len(r), period, true)
		}
	}
	return g
}

func TestGridMetrics(t *testing.T) {
	team := model.DefaultTeam()
	g := NewGrid(team.Players, 8, 5)
	for _, period := range []int{0, 1, 2, 5, 6} {
		g.Set(0, period, true)
	}
	g.Set(5, 3, true)

	assert.True(t, g.Occupied(0, 1))
	assert.False(t, g.Occupied(0, 3))
	assert.Equal(t, 25, g.TotalMinutes(0))
	assert.Equal(t, 15, g.HalfMinutes(0, 1))
	assert.Equal(t, 10, g.HalfMinutes(0, 2))
	assert.Equal(t, 15, g.MaxConsecutiveRun(0))
	assert.Equal(t, 0, g.MaxConsecutiveRun(1))
	assert.Equal(t, 25, g.Spread())
	assert.Equal(t, []int{5}, g.OnCourt(3))

	g.Set(0, 1, false)
	assert.Equal(t, 20, g.TotalMinutes(0))
	assert.Equal(t, 10, g.MaxConsecutiveRun(0))
}

func TestGridCounts(t *testing.T) {
	team := model.DefaultTeam()
	g := cyclicGrid(team.Players)
	for period := 0; period < g.Periods(); period++ {
		assert.Equal(t, 5, g.CountInPeriod(period))
		assert.Equal(t, 5, g.CountByPosition(period, model.Guard)+g.CountByPosition(period, model.Forward))
	}
	// period 0 fields players 0..4, all guards
	assert.Equal(t, 5, g.CountByPosition(0, model.Guard))
	assert.Equal(t, 0, g.CountByPosition(0, model.Forward))
}

func TestGridMinutesConsistency(t *testing.T) {
	team := model.DefaultTeam()
	g := cyclicGrid(team.Players)
	for p := range team.Players {
		on := 0
		for period := 0; period < g.Periods(); period++ {
			if g.Occupied(p, period) {
				on++
			}
		}
		assert.Equal(t, on*5, g.TotalMinutes(p))
		assert.Equal(t, g.TotalMinutes(p), g.HalfMinutes(p, 1)+g.HalfMinutes(p, 2))
	}
}

func TestGridCloneIsIndependent(t *testing.T) {
	team := model.DefaultTeam()
	g := NewGrid(team.Players, 8, 5)
	g.Set(2, 4, true)
	cp := g.Clone()
	cp.Set(2, 4, false)
	cp.Set(3, 0, true)
	assert.True(t, g.Occupied(2, 4))
	assert.False(t, g.Occupied(3, 0))

	rows := g.Rows()
	rows[2][4] = false
	assert.True(t, g.Occupied(2, 4), "rows must be copies")
}

func TestSolutionSubstitutions(t *testing.T) {
	team := model.DefaultTeam()
	sol := newSolution(cyclicGrid(team.Players), team.Players, team.Constraints, TargetMinutesPolicy(), 1, nil)

	subs := sol.Substitutions()
	require.Len(t, subs, 7)
	assert.Equal(t, 1, subs[0].Period)
	assert.Equal(t, []string{"Grayson", "Leighton", "Andrew", "Nolan"}, subs[0].In)
	assert.Equal(t, []string{"Ethan", "Owen", "Jayden", "Easton"}, subs[0].Out)
	for _, s := range subs {
		assert.Len(t, s.In, len(s.Out), "period %d", s.Period)
	}
}

func TestSolutionSubstitutionsShortRows(t *testing.T) {
	sol := &Solution{
		Constraints: model.Constraints{PeriodCount: 3},
		Players: []PlayerMetrics{
			{Name: "Ana", OnCourt: []bool{true}},
			{Name: "Bea", OnCourt: []bool{false, true, true}},
		},
	}
	subs := sol.Substitutions()
	require.Len(t, subs, 2)
	assert.Equal(t, []string{"Bea"}, subs[0].In)
	assert.Equal(t, []string{"Ana"}, subs[0].Out)
	assert.Empty(t, subs[1].In)
	assert.Empty(t, subs[1].Out)
}
