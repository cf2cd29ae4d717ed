package scenarios

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/rotation/core/model"
)

func TestScenario(t *testing.T) {
	files, err := filepath.Glob("*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for _, f := range files {
		sc, err := Load(f)
		require.NoError(t, err, f)
		t.Run(sc.Name, func(t *testing.T) {
			rep := RunScenario(t, sc)
			switch sc.Expected.Outcome {
			case OutcomeSolved:
				assert.Equal(t, len(sc.Seeds), rep.Published)
				assert.GreaterOrEqual(t, rep.SolvesRecorded, 1.0)
			case OutcomeUnsatisfiable:
				assert.Zero(t, rep.Published)
				assert.GreaterOrEqual(t, rep.SolvesRecorded, 1.0)
			case OutcomeInvalidConfig:
				assert.Zero(t, rep.Published)
				assert.Zero(t, rep.SolvesRecorded)
			}
		})
	}
}

func TestScenarioTeam(t *testing.T) {
	sc := &Scenario{Policy: "balanced_equal", Roles: RolesDef{Closers: []string{"Josh"}, AttemptBound: 7}}
	team := sc.Team()
	assert.Len(t, team.Players, 9)
	assert.Equal(t, model.PolicyBalancedEqual, team.Constraints.Policy)
	assert.Equal(t, []string{"Josh"}, team.Constraints.Closers)
	assert.Equal(t, model.DefaultTeam().Constraints.Starters, team.Constraints.Starters)
	assert.Equal(t, 7, team.Constraints.AttemptBound)

	sc = &Scenario{Players: []PlayerDef{{Name: "Ana", Position: "guard", TargetMinutes: 15, Starter: true}}}
	team = sc.Team()
	require.Len(t, team.Players, 1)
	assert.Equal(t, model.Guard, team.Players[0].Position)
	assert.True(t, team.Players[0].Starter)
	assert.Nil(t, team.Constraints.Starters)
}

func TestPlayerDefKeepsUnknownPosition(t *testing.T) {
	p := PlayerDef{Name: "Ana", Position: "center"}.ToModel()
	assert.Equal(t, model.Position("center"), p.Position)
	assert.False(t, p.Position.Valid())
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load("no-file.yaml")
	assert.Error(t, err)

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(":"), 0o600))
	_, err = Load(bad)
	assert.Error(t, err)

	outcome := filepath.Join(dir, "outcome.yaml")
	require.NoError(t, os.WriteFile(outcome, []byte("name: x\nexpected:\n  outcome: maybe\n"), 0o600))
	_, err = Load(outcome)
	assert.ErrorContains(t, err, "unknown outcome")
}

func TestLoadDefaultsSeed(t *testing.T) {
	sc, err := Load("short_roster.yaml")
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, sc.Seeds)
	assert.Len(t, sc.Players, 4)
}
