package scenarios

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/rotation/core/model"
)

// Outcome is the expected result of every seed in a scenario.
type Outcome string

const (
	OutcomeSolved        Outcome = "solved"
	OutcomeUnsatisfiable Outcome = "unsatisfiable"
	OutcomeInvalidConfig Outcome = "invalid_config"
)

type PlayerDef struct {
	Name          string `yaml:"name"`
	Position      string `yaml:"position"`
	TargetMinutes int    `yaml:"target_minutes"`
	Prioritize    bool   `yaml:"prioritize,omitempty"`
	Starter       bool   `yaml:"starter,omitempty"`
	Closer        bool   `yaml:"closer,omitempty"`
	Inexperienced bool   `yaml:"inexperienced,omitempty"`
}

// ToModel converts the definition. Unparseable positions are kept as is so
// that the solver reports them as a configuration error.
func (p PlayerDef) ToModel() model.Player {
	pos, err := model.ParsePosition(p.Position)
	if err != nil {
		pos = model.Position(p.Position)
	}
	return model.Player{
		Name:          p.Name,
		Position:      pos,
		TargetMinutes: p.TargetMinutes,
		Prioritize:    p.Prioritize,
		Starter:       p.Starter,
		Closer:        p.Closer,
		Inexperienced: p.Inexperienced,
	}
}

// RolesDef overrides the role sets of the team. A nil list keeps the
// default one.
type RolesDef struct {
	Starters      []string `yaml:"starters"`
	Closers       []string `yaml:"closers"`
	Inexperienced []string `yaml:"inexperienced"`
	AttemptBound  int      `yaml:"attempt_bound"`
}

type Expected struct {
	Outcome      Outcome  `yaml:"outcome"`
	UnknownNames []string `yaml:"unknown_names,omitempty"`
}

type Scenario struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Policy      string      `yaml:"policy"`
	Seeds       []uint64    `yaml:"seeds"`
	Players     []PlayerDef `yaml:"players,omitempty"`
	Roles       RolesDef    `yaml:"roles"`
	Expected    Expected    `yaml:"expected"`
}

// Team builds the team under test. Without players the default roster and
// role sets are used.
func (s *Scenario) Team() model.Team {
	team := model.DefaultTeam()
	if len(s.Players) > 0 {
		team.Players = make(model.Roster, len(s.Players))
		for i, p := range s.Players {
			team.Players[i] = p.ToModel()
		}
		team.Constraints.Starters = nil
		team.Constraints.Closers = nil
		team.Constraints.Inexperienced = nil
	}
	if s.Roles.Starters != nil {
		team.Constraints.Starters = s.Roles.Starters
	}
	if s.Roles.Closers != nil {
		team.Constraints.Closers = s.Roles.Closers
	}
	if s.Roles.Inexperienced != nil {
		team.Constraints.Inexperienced = s.Roles.Inexperienced
	}
	if s.Roles.AttemptBound != 0 {
		team.Constraints.AttemptBound = s.Roles.AttemptBound
	}
	team.Constraints.Policy = model.PolicyName(s.Policy)
	return team
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	switch sc.Expected.Outcome {
	case OutcomeSolved, OutcomeUnsatisfiable, OutcomeInvalidConfig:
	default:
		return nil, fmt.Errorf("scenario %s: unknown outcome %q", sc.Name, sc.Expected.Outcome)
	}
	if len(sc.Seeds) == 0 {
		sc.Seeds = []uint64{1}
	}
	return &sc, nil
}
