package components

import (
	"github.com/automoto/racetrainer/agent"
	"github.com/yohamta/donburi"
)

// TrackData is the singleton describing the loaded track.
type TrackData struct {
	Name        string
	Checkpoints agent.CheckpointCounter

	// Pixel position of the agent frame's origin and the scale to world units.
	OriginX       float64
	OriginY       float64
	PixelsPerUnit float64

	Width  float64 // pixels
	Height float64
}

var Track = donburi.NewComponentType[TrackData]()

// ToPixels maps track-local x/z onto map pixels. Z grows up the map.
func (t *TrackData) ToPixels(x, z float64) (float64, float64) {
	return t.OriginX + x*t.PixelsPerUnit, t.OriginY - z*t.PixelsPerUnit
}

// ToLocal is the inverse of ToPixels.
func (t *TrackData) ToLocal(px, py float64) (float64, float64) {
	return (px - t.OriginX) / t.PixelsPerUnit, (t.OriginY - py) / t.PixelsPerUnit
}

// InBounds reports whether a pixel position lies on the map.
func (t *TrackData) InBounds(px, py float64) bool {
	return px >= 0 && py >= 0 && px <= t.Width && py <= t.Height
}
