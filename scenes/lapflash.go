package scenes

import (
	"fmt"

	"github.com/automoto/racetrainer/agent"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// lapFlashSeconds is how long a finished lap stays on screen.
const lapFlashSeconds = 2

// LapFlash fades a banner with the last lap time in and out after each
// completed lap.
type LapFlash struct {
	laps  int
	text  string
	alpha float32
	tween *gween.Tween
}

// Observe starts a new fade when stats show another finished lap. A new
// episode resets the lap count without flashing.
func (f *LapFlash) Observe(stats agent.EpisodeStats) {
	if stats.Laps <= f.laps {
		f.laps = stats.Laps
		return
	}

	f.laps = stats.Laps
	f.text = fmt.Sprintf("LAP %d  %.2fs", stats.Laps, stats.LastLapTime)
	if stats.LastLapTime == stats.BestLapTime {
		f.text += "  best"
	}
	f.alpha = 1
	f.tween = gween.New(1, 0, lapFlashSeconds, ease.InQuad)
}

// Update advances the fade by dt seconds.
func (f *LapFlash) Update(dt float64) {
	if f.tween == nil {
		return
	}
	current, finished := f.tween.Update(float32(dt))
	f.alpha = current
	if finished {
		f.alpha = 0
		f.tween = nil
	}
}

func (f *LapFlash) Visible() bool {
	return f.alpha > 0
}

func (f *LapFlash) Alpha() float32 { return f.alpha }
func (f *LapFlash) Text() string   { return f.text }
