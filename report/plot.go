package report

import (
	"fmt"
	"image/color"

	"github.com/automoto/racetrainer/shared/episode"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// DefaultWindow is the moving-average window used by the charts.
const DefaultWindow = 20

// WritePNG saves a reward curve with its moving average. The image
// format follows the file extension.
func WritePNG(run episode.Run, episodes []episode.Summary, path string) error {
	if len(episodes) == 0 {
		return fmt.Errorf("no episodes to plot")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s - %s policy", run.Track, run.Policy)
	p.X.Label.Text = "Episode"
	p.Y.Label.Text = "Return"

	returns := Returns(episodes)
	avg := MovingAverage(returns, DefaultWindow)
	raw := make(plotter.XYs, len(returns))
	smooth := make(plotter.XYs, len(returns))
	for i := range returns {
		raw[i] = plotter.XY{X: float64(i + 1), Y: returns[i]}
		smooth[i] = plotter.XY{X: float64(i + 1), Y: avg[i]}
	}

	rawLine, err := plotter.NewLine(raw)
	if err != nil {
		return err
	}
	rawLine.Color = color.RGBA{R: 160, G: 160, B: 200, A: 255}
	rawLine.Width = vg.Points(1)
	p.Add(rawLine)
	p.Legend.Add("return", rawLine)

	avgLine, err := plotter.NewLine(smooth)
	if err != nil {
		return err
	}
	avgLine.Color = color.RGBA{R: 200, G: 40, B: 40, A: 255}
	avgLine.Width = vg.Points(2)
	p.Add(avgLine)
	p.Legend.Add(fmt.Sprintf("mean of last %d", DefaultWindow), avgLine)

	if err := p.Save(10*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot %s: %w", path, err)
	}
	return nil
}
