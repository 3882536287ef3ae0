package report

import (
	"fmt"
	"io"

	"github.com/automoto/racetrainer/shared/episode"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// WriteHTML renders an interactive reward curve page.
func WriteHTML(w io.Writer, run episode.Run, episodes []episode.Summary) error {
	returns := Returns(episodes)
	avg := MovingAverage(returns, DefaultWindow)

	x := make([]int, len(returns))
	raw := make([]opts.LineData, len(returns))
	smooth := make([]opts.LineData, len(returns))
	for i := range returns {
		x[i] = i + 1
		raw[i] = opts.LineData{Value: returns[i]}
		smooth[i] = opts.LineData{Value: avg[i]}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Training rewards", Width: "100%", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s - %s policy", run.Track, run.Policy),
			Subtitle: fmt.Sprintf("run=%s episodes=%d", run.ID, len(episodes)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Episode", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Return", NameLocation: "middle", NameGap: 40}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
	)
	line.SetXAxis(x).
		AddSeries("return", raw).
		AddSeries(fmt.Sprintf("mean of last %d", DefaultWindow), smooth,
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
		)

	return line.Render(w)
}
