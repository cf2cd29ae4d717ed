package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/kilianp07/rotation/core/rotation"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	cellStyle  = lipgloss.NewStyle().Padding(0, 1)
	nameStyle  = cellStyle.Foreground(lipgloss.Color("#FFFFFF"))
	badStyle   = cellStyle.Foreground(lipgloss.Color("#FF6B6B"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// WriteTable renders the rotation grid, per-player minutes and the
// substitution list for a terminal.
func WriteTable(w io.Writer, sol *rotation.Solution) error {
	labels := sol.Constraints.PeriodLabels()
	headers := append(append([]string{"Player"}, labels...), "Total", "1H", "2H", "Run", "Valid")
	validCol := len(headers) - 1

	rows := make([][]string, 0, len(sol.Players)+1)
	for _, p := range sol.Players {
		row := []string{p.Name}
		for _, on := range p.OnCourt {
			row = append(row, mark(on, "●"))
		}
		row = append(row,
			strconv.Itoa(p.Total),
			strconv.Itoa(p.Half1),
			strconv.Itoa(p.Half2),
			strconv.Itoa(p.MaxRun),
			mark(p.Valid, "yes", "NO"),
		)
		rows = append(rows, row)
	}
	counts := []string{"On court"}
	for _, n := range sol.PeriodCounts() {
		counts = append(counts, strconv.Itoa(n))
	}
	rows = append(rows, append(counts, "", "", "", "", ""))

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case col == 0:
				return nameStyle
			case col == validCol && row >= 0 && row < len(rows) && rows[row][col] == "NO":
				return badStyle
			default:
				return cellStyle
			}
		})

	var b strings.Builder
	fmt.Fprintln(&b, titleStyle.Render(fmt.Sprintf("Rotation (%s, %d attempt(s))", sol.Policy, sol.Attempts)))
	fmt.Fprintln(&b, t.Render())
	fmt.Fprintln(&b, mutedStyle.Render(fmt.Sprintf("mean %.1f min, std dev %.2f, spread %d min",
		sol.Summary.Mean, sol.Summary.StdDev, sol.Summary.Spread)))
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, titleStyle.Render("Substitutions"))
	for _, sub := range sol.Substitutions() {
		if len(sub.In) == 0 {
			fmt.Fprintf(&b, "%-9s No substitutions\n", labels[sub.Period])
			continue
		}
		fmt.Fprintf(&b, "%-9s in: %s  out: %s\n", labels[sub.Period], strings.Join(sub.In, ", "), strings.Join(sub.Out, ", "))
	}
	if len(sol.UnknownNames) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, badStyle.Render("Ignored names not on the roster: "+strings.Join(sol.UnknownNames, ", ")))
	}
	_, err := io.WriteString(w, b.String())
	return err
}
