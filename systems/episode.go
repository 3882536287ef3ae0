package systems

import (
	"log"
	"time"

	"github.com/automoto/racetrainer/agent"
	"github.com/automoto/racetrainer/components"
	"github.com/automoto/racetrainer/shared/episode"
	"github.com/google/uuid"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// UpdateEpisodes counts steps and restarts drivers whose episode ended.
func UpdateEpisodes(ecs *ecs.ECS, endOnOutOfBounds bool) {
	logEntry, ok := components.EpisodeLog.First(ecs.World)
	if !ok {
		return
	}
	episodes := components.EpisodeLog.Get(logEntry)
	track, _ := GetTrack(ecs)

	for e := range components.Episode.Iter(ecs.World) {
		ep := components.Episode.Get(e)
		ep.Steps++

		reason, done := endReason(e, ep, episodes.MaxSteps, track, endOnOutOfBounds)
		if !done {
			continue
		}
		EndEpisode(e, episodes, reason)
	}
}

func endReason(e *donburi.Entry, ep *components.EpisodeData, maxSteps int, track *components.TrackData, endOnOutOfBounds bool) (episode.EndReason, bool) {
	if maxSteps > 0 && ep.Steps >= maxSteps {
		return episode.EndMaxSteps, true
	}
	inference := components.Driver.Get(e).Controller.Config().Behavior == agent.BehaviorInferenceOnly
	if endOnOutOfBounds && track != nil && !inference {
		obj := components.Object.Get(e)
		if !track.InBounds(obj.X+obj.W/2, obj.Y+obj.H/2) {
			return episode.EndOutOfBounds, true
		}
	}
	return "", false
}

// EndEpisode records the driver's finished episode and begins the next.
func EndEpisode(e *donburi.Entry, episodes *components.EpisodeLogData, reason episode.EndReason) {
	d := components.Driver.Get(e)
	ep := components.Episode.Get(e)
	c := d.Controller
	stats := c.Stats()

	summary := episode.Summary{
		ID:                ep.ID,
		RunID:             episodes.RunID,
		Number:            ep.Number,
		Driver:            d.Slot,
		Steps:             ep.Steps,
		Return:            c.CumulativeReward(),
		CheckpointsPassed: stats.CheckpointsPassed,
		WrongCheckpoints:  stats.WrongCheckpoints,
		GuideEntries:      stats.GuideEntries,
		WallContacts:      stats.WallContacts,
		WallTicks:         stats.WallTicks,
		Laps:              stats.Laps,
		BestLapTime:       stats.BestLapTime,
		EndReason:         reason,
		FinishedAt:        time.Now(),
	}
	episodes.Finished = append(episodes.Finished, summary)
	log.Printf("[episode] driver %d episode %d ended (%s) after %d steps, return %.2f",
		d.Slot, ep.Number, reason, ep.Steps, summary.Return)

	c.OnEpisodeBegin()
	components.Contacts.Get(e).Reset()
	ep.ID = uuid.New()
	ep.Number++
	ep.Steps = 0
}

// UpdateClock advances the simulation clock one tick.
func UpdateClock(ecs *ecs.ECS) {
	if clock, ok := GetClock(ecs); ok {
		clock.Advance()
	}
}
