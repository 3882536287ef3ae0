package factory

import (
	"github.com/automoto/racetrainer/archetypes"
	"github.com/automoto/racetrainer/components"
	"github.com/automoto/racetrainer/tags"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

func CreateWall(ecs *ecs.ECS, x, y, w, h float64) *donburi.Entry {
	wall := archetypes.Wall.Spawn(ecs)

	obj := resolv.NewObject(x, y, w, h, tags.ResolvWall)
	obj.SetShape(resolv.NewRectangle(0, 0, w, h))
	addToSpace(ecs, wall, obj)

	return wall
}

// CreateGuide creates an inside-track guide trigger volume
func CreateGuide(ecs *ecs.ECS, x, y, w, h float64) *donburi.Entry {
	guide := archetypes.Guide.Spawn(ecs)

	obj := resolv.NewObject(x, y, w, h, tags.ResolvGuide)
	obj.SetShape(resolv.NewRectangle(0, 0, w, h))
	addToSpace(ecs, guide, obj)

	return guide
}

// CreateCheckpoint creates a checkpoint trigger volume. Its index stays
// unassigned until the track registry is initialized. A disabled
// checkpoint keeps the tag and collider but has no Checkpoint component.
func CreateCheckpoint(ecs *ecs.ECS, track *components.TrackData, x, y, w, h float64, disabled bool) *donburi.Entry {
	var checkpoint *donburi.Entry
	if disabled {
		checkpoint = archetypes.DisabledCheckpoint.Spawn(ecs)
	} else {
		checkpoint = archetypes.Checkpoint.Spawn(ecs)
	}

	obj := resolv.NewObject(x, y, w, h, tags.ResolvCheckpoint)
	obj.SetShape(resolv.NewRectangle(0, 0, w, h))
	addToSpace(ecs, checkpoint, obj)

	if !disabled {
		cx, cz := track.ToLocal(x+w/2, y+h/2)
		components.Checkpoint.SetValue(checkpoint, components.CheckpointData{
			CenterX: cx,
			CenterZ: cz,
		})
	}

	return checkpoint
}
