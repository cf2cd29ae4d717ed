package model

// Team bundles the roster with the constraints of one game.
type Team struct {
	Players     Roster      `json:"players"`
	Constraints Constraints `json:"constraints"`
}

// DefaultTeam returns the nine-player roster used when nothing else is
// configured: five guards, four forwards, five starters, five closers and
// three inexperienced players, everyone targeting 20 minutes.
func DefaultTeam() Team {
	players := Roster{
		{Name: "Josh", Position: Guard, TargetMinutes: 20},
		{Name: "Ethan", Position: Guard, TargetMinutes: 20},
		{Name: "Owen", Position: Guard, TargetMinutes: 20},
		{Name: "Jayden", Position: Guard, TargetMinutes: 20},
		{Name: "Easton", Position: Guard, TargetMinutes: 20},
		{Name: "Grayson", Position: Forward, TargetMinutes: 20},
		{Name: "Leighton", Position: Forward, TargetMinutes: 20},
		{Name: "Andrew", Position: Forward, TargetMinutes: 20},
		{Name: "Nolan", Position: Forward, TargetMinutes: 20},
	}
	c := Constraints{
		Starters:      []string{"Josh", "Ethan", "Owen", "Grayson", "Leighton"},
		Closers:       []string{"Ethan", "Owen", "Andrew", "Grayson", "Leighton"},
		Inexperienced: []string{"Jayden", "Easton", "Nolan"},
	}
	c.SetDefaults()
	return Team{Players: players, Constraints: c}
}
