package components

import "github.com/yohamta/donburi"

// SimClock is the simulation clock. It advances by Delta every tick.
type SimClock struct {
	Time  float64
	Delta float64
	Tick  int
}

// Now returns the simulation time in seconds.
func (c *SimClock) Now() float64 {
	return c.Time
}

// Advance moves the clock forward one tick.
func (c *SimClock) Advance() {
	c.Time += c.Delta
	c.Tick++
}

// ClockData holds the clock by pointer so controllers can keep a reference.
type ClockData struct {
	*SimClock
}

var Clock = donburi.NewComponentType[ClockData]()
