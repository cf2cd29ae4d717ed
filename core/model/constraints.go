package model

import "fmt"

// PolicyName selects the validation policy used by the solver.
type PolicyName string

const (
	// PolicyTargetMinutes measures equity against per-player targets.
	PolicyTargetMinutes PolicyName = "target_minutes"
	// PolicyBalancedEqual measures equity as the spread across the roster.
	PolicyBalancedEqual PolicyName = "balanced_equal"
)

// Valid reports whether n names a supported policy.
func (n PolicyName) Valid() bool {
	return n == PolicyTargetMinutes || n == PolicyBalancedEqual
}

const (
	DefaultAttemptBound  = 50
	DefaultPeriodCount   = 8
	DefaultPeriodMinutes = 5
	DefaultTeamSize      = 5
)

// Constraints configures one solve.
type Constraints struct {
	Policy        PolicyName `json:"policy"`
	Starters      []string   `json:"starters"`
	Closers       []string   `json:"closers"`
	Inexperienced []string   `json:"inexperienced"`
	AttemptBound  int        `json:"attempt_bound"`
	PeriodCount   int        `json:"period_count"`
	PeriodMinutes int        `json:"period_minutes"`
	TeamSize      int        `json:"team_size"`
}

// SetDefaults applies the standard game format.
func (c *Constraints) SetDefaults() {
	if c.Policy == "" {
		c.Policy = PolicyTargetMinutes
	}
	if c.AttemptBound == 0 {
		c.AttemptBound = DefaultAttemptBound
	}
	if c.PeriodCount == 0 {
		c.PeriodCount = DefaultPeriodCount
	}
	if c.PeriodMinutes == 0 {
		c.PeriodMinutes = DefaultPeriodMinutes
	}
	if c.TeamSize == 0 {
		c.TeamSize = DefaultTeamSize
	}
}

// HalfLength is the number of periods in one half.
func (c Constraints) HalfLength() int { return c.PeriodCount / 2 }

// Half returns 1 or 2 for the half containing period.
func (c Constraints) Half(period int) int {
	if period < c.HalfLength() {
		return 1
	}
	return 2
}

// GameMinutes is the total duration of a game.
func (c Constraints) GameMinutes() int { return c.PeriodCount * c.PeriodMinutes }

// PeriodLabel names a period by the game clock at its start: "Start" for the
// opening period, then "1H 15:00", "1H 10:00" and so on, with the second
// half starting at "2H 20:00" for 5-minute periods.
func (c Constraints) PeriodLabel(period int) string {
	if period == 0 {
		return "Start"
	}
	half := c.Half(period)
	idx := period
	if half == 2 {
		idx -= c.HalfLength()
	}
	remaining := (c.HalfLength() - idx) * c.PeriodMinutes
	return fmt.Sprintf("%dH %d:00", half, remaining)
}

// PeriodLabels returns PeriodLabel for every period.
func (c Constraints) PeriodLabels() []string {
	out := make([]string, c.PeriodCount)
	for i := range out {
		out[i] = c.PeriodLabel(i)
	}
	return out
}

// Validate rejects configurations no solve can start from. Names listed in
// the role sets that are absent from the roster are not an error; see
// ResolveRoles.
//
//gocyclo:ignore
func (c Constraints) Validate(r Roster) error {
	if !c.Policy.Valid() {
		return configErrorf("policy", "unknown policy %q", c.Policy)
	}
	if c.AttemptBound <= 0 {
		return configErrorf("attempt_bound", "must be positive, got %d", c.AttemptBound)
	}
	if c.PeriodCount < 2 || c.PeriodCount%2 != 0 {
		return configErrorf("period_count", "must be a positive even number, got %d", c.PeriodCount)
	}
	if c.PeriodMinutes <= 0 {
		return configErrorf("period_minutes", "must be positive, got %d", c.PeriodMinutes)
	}
	if c.TeamSize <= 0 {
		return configErrorf("team_size", "must be positive, got %d", c.TeamSize)
	}
	if len(r) < c.TeamSize {
		return configErrorf("roster", "%d players cannot field a team of %d", len(r), c.TeamSize)
	}
	seen := make(map[string]struct{}, len(r))
	for i, p := range r {
		if p.Name == "" {
			return configErrorf("roster", "player %d has no name", i)
		}
		if _, dup := seen[p.Name]; dup {
			return configErrorf("roster", "duplicate player %q", p.Name)
		}
		seen[p.Name] = struct{}{}
		if !p.Position.Valid() {
			return configErrorf("roster", "player %q has unknown position %q", p.Name, p.Position)
		}
		if p.TargetMinutes < 0 || p.TargetMinutes > c.GameMinutes() {
			return configErrorf("roster", "player %q target of %d minutes is outside [0,%d]", p.Name, p.TargetMinutes, c.GameMinutes())
		}
	}
	if n := countRole(r, c.Starters, func(p Player) bool { return p.Starter }); n > c.TeamSize {
		return configErrorf("starters", "%d selected, at most %d allowed", n, c.TeamSize)
	}
	if n := countRole(r, c.Closers, func(p Player) bool { return p.Closer }); n > c.TeamSize {
		return configErrorf("closers", "%d selected, at most %d allowed", n, c.TeamSize)
	}
	return nil
}

func countRole(r Roster, names []string, flag func(Player) bool) int {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	for _, p := range r {
		if flag(p) {
			set[p.Name] = struct{}{}
		}
	}
	return len(set)
}

// Roles holds the resolved role flags, indexed like the roster.
type Roles struct {
	Starter       []bool
	Closer        []bool
	Inexperienced []bool
}

// InexperiencedCount returns how many players carry the inexperienced role.
func (r Roles) InexperiencedCount() int {
	n := 0
	for _, v := range r.Inexperienced {
		if v {
			n++
		}
	}
	return n
}

// ResolveRoles merges the player flags with the name sets. Names that match
// no player are returned, deduplicated, in the order they were first listed.
func (c Constraints) ResolveRoles(r Roster) (Roles, []string) {
	roles := Roles{
		Starter:       make([]bool, len(r)),
		Closer:        make([]bool, len(r)),
		Inexperienced: make([]bool, len(r)),
	}
	for i, p := range r {
		roles.Starter[i] = p.Starter
		roles.Closer[i] = p.Closer
		roles.Inexperienced[i] = p.Inexperienced
	}
	var unknown []string
	seen := map[string]struct{}{}
	mark := func(names []string, dst []bool) {
		for _, n := range names {
			if idx := r.Index(n); idx >= 0 {
				dst[idx] = true
				continue
			}
			if _, ok := seen[n]; !ok {
				seen[n] = struct{}{}
				unknown = append(unknown, n)
			}
		}
	}
	mark(c.Starters, roles.Starter)
	mark(c.Closers, roles.Closer)
	mark(c.Inexperienced, roles.Inexperienced)
	return roles, unknown
}
