package systems

import (
	"github.com/automoto/racetrainer/components"
	"github.com/automoto/racetrainer/tags"
	"github.com/yohamta/donburi/ecs"
)

// UpdateObjects moves each driver's collider to its pose. Track volumes
// never move and are left alone.
func UpdateObjects(ecs *ecs.ECS) {
	track, ok := GetTrack(ecs)
	if !ok {
		return
	}

	for e := range tags.Driver.Iter(ecs.World) {
		pose := components.Driver.Get(e).Controller.Pose()
		obj := components.Object.Get(e)

		px, py := track.ToPixels(pose.Position.X, pose.Position.Z)
		obj.X = px - obj.W/2
		obj.Y = py - obj.H/2
		obj.Update()
	}
}
