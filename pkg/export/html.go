package export

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/rotation/core/rotation"
)

// WriteHTML renders a stacked bar chart of first and second half minutes
// per player as a standalone HTML page.
func WriteHTML(w io.Writer, sol *rotation.Solution) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Playing time",
			Subtitle: fmt.Sprintf("%s, spread %d min", sol.Policy, sol.Summary.Spread),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Player"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Minutes"}),
	)

	names := make([]string, len(sol.Players))
	half1 := make([]opts.BarData, len(sol.Players))
	half2 := make([]opts.BarData, len(sol.Players))
	for i, p := range sol.Players {
		names[i] = p.Name
		half1[i] = opts.BarData{Value: p.Half1}
		half2[i] = opts.BarData{Value: p.Half2}
	}
	stack := charts.WithBarChartOpts(opts.BarChart{Stack: "minutes"})
	bar.SetXAxis(names).
		AddSeries("1st half", half1, stack).
		AddSeries("2nd half", half2, stack)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
