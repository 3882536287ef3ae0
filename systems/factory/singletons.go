package factory

import (
	"github.com/automoto/racetrainer/archetypes"
	"github.com/automoto/racetrainer/components"
	"github.com/google/uuid"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// CreateClock creates the simulation clock stepping dt seconds per tick.
func CreateClock(ecs *ecs.ECS, dt float64) (*donburi.Entry, *components.SimClock) {
	entry := archetypes.Clock.Spawn(ecs)
	clock := &components.SimClock{Delta: dt}
	components.Clock.SetValue(entry, components.ClockData{SimClock: clock})
	return entry, clock
}

// CreateEpisodeLog creates the finished-episode collector for a run.
func CreateEpisodeLog(ecs *ecs.ECS, runID uuid.UUID, maxSteps int) *donburi.Entry {
	entry := archetypes.EpisodeLog.Spawn(ecs)
	components.EpisodeLog.SetValue(entry, components.EpisodeLogData{
		RunID:    runID,
		MaxSteps: maxSteps,
	})
	return entry
}
