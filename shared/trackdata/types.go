// Package trackdata provides TMX track parsing shared by the headless
// simulation and the drive window. It has no dependencies on ebitengine,
// donburi, or resolv.
package trackdata

// TrackData holds everything the simulation needs from a track file.
// All rectangles are in map pixels.
type TrackData struct {
	Name string

	// Checkpoints in child order. Disabled entries keep their slot in the
	// sequence but carry no checkpoint.
	Checkpoints []Volume
	Guides      []Volume
	Walls       []Volume

	// Origin of the agent's local frame.
	StartX float64
	StartY float64

	MapWidth  int
	MapHeight int
}

// Volume is an axis-aligned trigger or collision rectangle.
type Volume struct {
	X, Y, W, H float64
	Disabled   bool
}

// Center returns the middle of the rectangle.
func (v Volume) Center() (float64, float64) {
	return v.X + v.W/2, v.Y + v.H/2
}

// ActiveCheckpoints counts checkpoints that are not disabled.
func (t *TrackData) ActiveCheckpoints() int {
	n := 0
	for _, cp := range t.Checkpoints {
		if !cp.Disabled {
			n++
		}
	}
	return n
}
