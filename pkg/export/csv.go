package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/kilianp07/rotation/core/rotation"
)

// WriteCSV writes the three-section bench sheet: the rotation grid with
// per-period counts, the substitution report and the playing time
// validation.
func WriteCSV(w io.Writer, sol *rotation.Solution) error {
	cw := csv.NewWriter(w)
	labels := sol.Constraints.PeriodLabels()

	rows := [][]string{{"ROTATION GRID"}, append(append([]string{"Player"}, labels...), "Total")}
	for _, p := range sol.Players {
		row := []string{p.Name}
		for _, on := range p.OnCourt {
			row = append(row, mark(on, "X"))
		}
		rows = append(rows, append(row, fmt.Sprintf("%d min", p.Total)))
	}
	perPeriod := []string{"Per Period"}
	for _, n := range sol.PeriodCounts() {
		perPeriod = append(perPeriod, strconv.Itoa(n))
	}
	rows = append(rows, append(perPeriod, ""), []string{})

	rows = append(rows, []string{"SUBSTITUTION REPORT"}, []string{"Time", "Player In", "Player Out"})
	for _, sub := range sol.Substitutions() {
		label := labels[sub.Period]
		if len(sub.In) == 0 {
			rows = append(rows, []string{label, "No substitutions", ""})
			continue
		}
		for i, in := range sub.In {
			out := ""
			if i < len(sub.Out) {
				out = sub.Out[i]
			}
			rows = append(rows, []string{label, in, out})
		}
	}
	rows = append(rows, []string{})

	rows = append(rows, []string{"PLAYING TIME VALIDATION"},
		[]string{"Player", "Total", "1st Half", "2nd Half", "Max Consecutive", "Valid"})
	for _, p := range sol.Players {
		rows = append(rows, []string{
			p.Name,
			strconv.Itoa(p.Total),
			strconv.Itoa(p.Half1),
			strconv.Itoa(p.Half2),
			strconv.Itoa(p.MaxRun),
			mark(p.Valid, "YES", "NO"),
		})
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// mark returns yes when b holds, otherwise the optional no value.
func mark(b bool, yes string, no ...string) string {
	if b {
		return yes
	}
	if len(no) > 0 {
		return no[0]
	}
	return ""
}
