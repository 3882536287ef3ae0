package systems

import (
	"log"

	"github.com/automoto/racetrainer/components"
	"github.com/yohamta/donburi/ecs"
)

// UpdateDrivers applies the pending action vectors for one clock step.
func UpdateDrivers(ecs *ecs.ECS) {
	clock, ok := GetClock(ecs)
	if !ok {
		return
	}

	for e := range components.Driver.Iter(ecs.World) {
		d := components.Driver.Get(e)
		if d.Pending == nil {
			continue
		}
		if err := d.Controller.OnActionReceived(d.Pending, clock.Delta); err != nil {
			d.RejectedActions++
			log.Printf("[driver %d] %v", d.Slot, err)
		}
		d.Pending = nil
	}
}

// GetClock returns the simulation clock singleton.
func GetClock(ecs *ecs.ECS) (*components.SimClock, bool) {
	entry, ok := components.Clock.First(ecs.World)
	if !ok {
		return nil, false
	}
	return components.Clock.Get(entry).SimClock, true
}

// GetTrack returns the loaded track singleton.
func GetTrack(ecs *ecs.ECS) (*components.TrackData, bool) {
	entry, ok := components.Track.First(ecs.World)
	if !ok {
		return nil, false
	}
	return components.Track.Get(entry), true
}
