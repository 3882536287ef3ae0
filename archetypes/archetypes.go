package archetypes

import (
	"github.com/automoto/racetrainer/components"
	cfg "github.com/automoto/racetrainer/config"
	"github.com/automoto/racetrainer/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

var (
	Driver = newArchetype(
		tags.Driver,
		components.Driver,
		components.Object,
		components.Contacts,
		components.Episode,
	)
	Checkpoint = newArchetype(
		tags.Checkpoint,
		components.Checkpoint,
		components.Object,
	)
	// DisabledCheckpoint sits in the checkpoint sequence without a
	// Checkpoint component, so the registry skips it.
	DisabledCheckpoint = newArchetype(
		tags.Checkpoint,
		components.Object,
	)
	Guide = newArchetype(
		tags.Guide,
		components.Object,
	)
	Wall = newArchetype(
		tags.Wall,
		components.Object,
	)
	Space = newArchetype(
		components.Space,
	)
	Track = newArchetype(
		components.Track,
	)
	Clock = newArchetype(
		components.Clock,
	)
	EpisodeLog = newArchetype(
		components.EpisodeLog,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

func (a *archetype) Spawn(ecs *ecs.ECS, cs ...donburi.IComponentType) *donburi.Entry {
	e := ecs.World.Entry(ecs.Create(
		cfg.Default,
		append(a.components, cs...)...,
	))
	return e
}
