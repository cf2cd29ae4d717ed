// Package export renders solved rotations for coaches and other tools:
// CSV for spreadsheets, JSON and YAML for machines, a terminal table and
// an HTML chart of minutes per half.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/rotation/core/rotation"
)

// Format names an output format.
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatHTML  Format = "html"
)

// Formats lists every supported format.
var Formats = []Format{FormatTable, FormatCSV, FormatJSON, FormatYAML, FormatHTML}

// ParseFormat accepts a format name case-insensitively; "yml" is an alias.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "yml" {
		return FormatYAML, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// Write renders sol to w in format f.
func Write(w io.Writer, f Format, sol *rotation.Solution) error {
	switch f {
	case FormatTable:
		return WriteTable(w, sol)
	case FormatCSV:
		return WriteCSV(w, sol)
	case FormatJSON:
		return WriteJSON(w, sol)
	case FormatYAML:
		return WriteYAML(w, sol)
	case FormatHTML:
		return WriteHTML(w, sol)
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

// Period is one column of the rotation.
type Period struct {
	Number  int      `json:"number" yaml:"number"`
	Label   string   `json:"label" yaml:"label"`
	Players []string `json:"players" yaml:"players"`
	In      []string `json:"in,omitempty" yaml:"in,omitempty"`
	Out     []string `json:"out,omitempty" yaml:"out,omitempty"`
}

// PlayerRow is the playing time of one player.
type PlayerRow struct {
	Name     string `json:"name" yaml:"name"`
	Position string `json:"position" yaml:"position"`
	Total    int    `json:"total" yaml:"total"`
	Half1    int    `json:"half1" yaml:"half1"`
	Half2    int    `json:"half2" yaml:"half2"`
	MaxRun   int    `json:"max_consecutive" yaml:"max_consecutive"`
	Valid    bool   `json:"valid" yaml:"valid"`
}

// Report is the serialisable view of a solution.
type Report struct {
	Policy       string      `json:"policy" yaml:"policy"`
	Attempts     int         `json:"attempts" yaml:"attempts"`
	MeanMinutes  float64     `json:"mean_minutes" yaml:"mean_minutes"`
	StdDev       float64     `json:"std_dev" yaml:"std_dev"`
	Spread       int         `json:"spread" yaml:"spread"`
	Periods      []Period    `json:"periods" yaml:"periods"`
	Players      []PlayerRow `json:"players" yaml:"players"`
	UnknownNames []string    `json:"unknown_names,omitempty" yaml:"unknown_names,omitempty"`
}

// NewReport flattens sol. Period numbers start at 1.
func NewReport(sol *rotation.Solution) Report {
	subs := sol.Substitutions()
	r := Report{
		Policy:       string(sol.Policy),
		Attempts:     sol.Attempts,
		MeanMinutes:  sol.Summary.Mean,
		StdDev:       sol.Summary.StdDev,
		Spread:       sol.Summary.Spread,
		UnknownNames: sol.UnknownNames,
	}
	for p := 0; p < sol.Periods(); p++ {
		period := Period{Number: p + 1, Label: sol.Constraints.PeriodLabel(p), Players: sol.Lineup(p)}
		if p > 0 {
			period.In, period.Out = subs[p-1].In, subs[p-1].Out
		}
		r.Periods = append(r.Periods, period)
	}
	for _, pm := range sol.Players {
		r.Players = append(r.Players, PlayerRow{
			Name:     pm.Name,
			Position: string(pm.Position),
			Total:    pm.Total,
			Half1:    pm.Half1,
			Half2:    pm.Half2,
			MaxRun:   pm.MaxRun,
			Valid:    pm.Valid,
		})
	}
	return r
}

// WriteJSON writes the report of sol to w as indented JSON.
func WriteJSON(w io.Writer, sol *rotation.Solution) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewReport(sol))
}

// WriteYAML writes the report of sol to w as YAML.
func WriteYAML(w io.Writer, sol *rotation.Solution) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewReport(sol)); err != nil {
		return err
	}
	return enc.Close()
}
