// Package report summarizes stored episodes and charts their returns.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/automoto/racetrainer/shared/episode"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates a run's episodes.
type Summary struct {
	Episodes     int
	MeanReturn   float64
	StdDevReturn float64
	MedianReturn float64
	BestReturn   float64
	WorstReturn  float64

	MeanCheckpoints  float64
	MeanWrong        float64
	MeanWallContacts float64
	TotalLaps        int
	BestLapTime      float64 // 0 when no lap was completed

	EndReasons map[episode.EndReason]int
}

// Returns extracts episode returns in order.
func Returns(episodes []episode.Summary) []float64 {
	out := make([]float64, len(episodes))
	for i, ep := range episodes {
		out[i] = ep.Return
	}
	return out
}

// Summarize computes the aggregate statistics of episodes.
func Summarize(episodes []episode.Summary) Summary {
	s := Summary{
		Episodes:   len(episodes),
		EndReasons: make(map[episode.EndReason]int),
	}
	if len(episodes) == 0 {
		return s
	}

	returns := Returns(episodes)
	s.MeanReturn, s.StdDevReturn = stat.MeanStdDev(returns, nil)
	if len(returns) == 1 {
		s.StdDevReturn = 0
	}

	sorted := append([]float64(nil), returns...)
	sort.Float64s(sorted)
	s.MedianReturn = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	s.WorstReturn = sorted[0]
	s.BestReturn = sorted[len(sorted)-1]

	checkpoints := make([]float64, len(episodes))
	wrong := make([]float64, len(episodes))
	walls := make([]float64, len(episodes))
	for i, ep := range episodes {
		checkpoints[i] = float64(ep.CheckpointsPassed)
		wrong[i] = float64(ep.WrongCheckpoints)
		walls[i] = float64(ep.WallContacts)
		s.TotalLaps += ep.Laps
		s.EndReasons[ep.EndReason]++
		if ep.BestLapTime > 0 && (s.BestLapTime == 0 || ep.BestLapTime < s.BestLapTime) {
			s.BestLapTime = ep.BestLapTime
		}
	}
	s.MeanCheckpoints = stat.Mean(checkpoints, nil)
	s.MeanWrong = stat.Mean(wrong, nil)
	s.MeanWallContacts = stat.Mean(walls, nil)
	return s
}

// MovingAverage smooths values over a trailing window. Early points
// average over what is available.
func MovingAverage(values []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(values))
	for i := range values {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		out[i] = stat.Mean(values[lo:i+1], nil)
	}
	return out
}

// WriteText prints a summary in a fixed, greppable layout.
func WriteText(w io.Writer, run episode.Run, s Summary) error {
	reasons := make([]string, 0, len(s.EndReasons))
	for r := range s.EndReasons {
		reasons = append(reasons, string(r))
	}
	sort.Strings(reasons)

	_, err := fmt.Fprintf(w, "run %s  track=%s policy=%s behavior=%s drivers=%d seed=%d\n",
		run.ID, run.Track, run.Policy, run.Behavior, run.Drivers, run.Seed)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "episodes      %d\n", s.Episodes)
	fmt.Fprintf(w, "return        mean %.2f  sd %.2f  median %.2f  best %.2f  worst %.2f\n",
		s.MeanReturn, s.StdDevReturn, s.MedianReturn, s.BestReturn, s.WorstReturn)
	fmt.Fprintf(w, "checkpoints   mean %.2f  wrong %.2f\n", s.MeanCheckpoints, s.MeanWrong)
	fmt.Fprintf(w, "walls         mean %.2f\n", s.MeanWallContacts)
	if s.BestLapTime > 0 {
		fmt.Fprintf(w, "laps          %d  best %.2fs\n", s.TotalLaps, s.BestLapTime)
	} else {
		fmt.Fprintf(w, "laps          %d\n", s.TotalLaps)
	}
	for _, r := range reasons {
		fmt.Fprintf(w, "ended %-14s %d\n", r, s.EndReasons[episode.EndReason(r)])
	}
	return nil
}
