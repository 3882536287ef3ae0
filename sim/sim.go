// Package sim runs drivers on a track: policies choose actions, controllers
// integrate motion, and the contact pipeline feeds rewards back.
package sim

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/automoto/racetrainer/agent"
	"github.com/automoto/racetrainer/components"
	"github.com/automoto/racetrainer/shared/episode"
	"github.com/automoto/racetrainer/shared/netcomponents"
	"github.com/automoto/racetrainer/shared/trackdata"
	"github.com/automoto/racetrainer/systems"
	"github.com/automoto/racetrainer/systems/factory"
	"github.com/automoto/racetrainer/track"
	"github.com/google/uuid"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// Sim is one track with its drivers. It is not safe for concurrent use.
type Sim struct {
	ecs      *ecs.ECS
	registry *track.Registry
	clock    *components.SimClock
	drivers  []*donburi.Entry
	run      episode.Run
	opts     Options
}

// New builds the world for a track and spawns opts.Drivers drivers.
func New(data *trackdata.TrackData, opts Options) (*Sim, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	policyName := opts.Policy
	if opts.Agent.Behavior == agent.BehaviorHeuristicOnly {
		policyName = PolicyHeuristic
	}

	s := &Sim{
		ecs:  ecs.NewECS(donburi.NewWorld()),
		opts: opts,
		run: episode.Run{
			ID:        uuid.New(),
			Track:     data.Name,
			Policy:    policyName,
			Behavior:  opts.Agent.Behavior.String(),
			Drivers:   opts.Drivers,
			Seed:      opts.Seed,
			StartedAt: time.Now(),
		},
	}

	_, registry, err := factory.CreateTrack(s.ecs, data, opts.PixelsPerUnit, opts.CellSize)
	if err != nil {
		return nil, fmt.Errorf("build track %s: %w", data.Name, err)
	}
	s.registry = registry

	_, s.clock = factory.CreateClock(s.ecs, 1/float64(opts.TickRate))
	factory.CreateEpisodeLog(s.ecs, s.run.ID, opts.MaxSteps)

	size := factory.ColliderPixels(opts.ColliderSize, opts.PixelsPerUnit)
	for slot := 0; slot < opts.Drivers; slot++ {
		seed := opts.Seed + int64(slot)*7919
		policy, err := NewPolicy(policyName, rand.New(rand.NewSource(seed+1)), opts.Keys)
		if err != nil {
			return nil, err
		}
		controller := agent.New(opts.Agent, registry, s.clock, rand.New(rand.NewSource(seed)))
		s.drivers = append(s.drivers, factory.CreateDriver(s.ecs, slot, controller, policy, size))
	}

	s.ecs.AddSystem(systems.UpdatePolicies)
	s.ecs.AddSystem(systems.UpdateDrivers)
	s.ecs.AddSystem(systems.UpdateObjects)
	// Place colliders at their spawn pose before the first contact check.
	systems.UpdateObjects(s.ecs)
	s.ecs.AddSystem(systems.UpdateContacts)
	s.ecs.AddSystem(func(e *ecs.ECS) {
		systems.UpdateEpisodes(e, opts.EndOnOutOfBounds)
	})
	s.ecs.AddSystem(systems.UpdateClock)

	log.Printf("[sim] track %s: %d checkpoints, %d drivers, policy %s, behavior %s",
		data.Name, registry.TotalCheckpoints(), opts.Drivers, policyName, s.run.Behavior)
	return s, nil
}

// Step advances the simulation one tick and returns the episodes that
// finished during it.
func (s *Sim) Step() []episode.Summary {
	s.ecs.Update()
	return s.episodeLog().Drain()
}

// Run steps until n episodes have finished in total, or ctx is done. Each
// batch of finished episodes is handed to sink. On cancellation the running
// episodes are ended with EndShutdown and flushed before ctx.Err is
// returned. Sink never sees more than n summaries.
func (s *Sim) Run(ctx context.Context, n int, sink func([]episode.Summary) error) error {
	if n <= 0 {
		return nil
	}

	full := false
	limited := LimitSink(n, sink, func() { full = true })
	for !full {
		select {
		case <-ctx.Done():
			if err := limited(s.Finish()); err != nil {
				return fmt.Errorf("episode sink: %w", err)
			}
			return ctx.Err()
		default:
		}

		if err := limited(s.Step()); err != nil {
			return fmt.Errorf("episode sink: %w", err)
		}
	}
	return nil
}

// LimitSink forwards at most n summaries in total to sink and calls full
// once the n-th has gone through. Later batches are dropped.
func LimitSink(n int, sink func([]episode.Summary) error, full func()) func([]episode.Summary) error {
	sent := 0
	return func(done []episode.Summary) error {
		if len(done) == 0 || sent >= n {
			return nil
		}
		if sent+len(done) > n {
			done = done[:n-sent]
		}
		sent += len(done)

		if sink != nil {
			if err := sink(done); err != nil {
				return err
			}
		}
		if sent >= n && full != nil {
			full()
		}
		return nil
	}
}

// Finish ends every running episode that has taken at least one step.
func (s *Sim) Finish() []episode.Summary {
	episodes := s.episodeLog()
	for _, e := range s.drivers {
		if components.Episode.Get(e).Steps == 0 {
			continue
		}
		systems.EndEpisode(e, episodes, episode.EndShutdown)
	}
	return episodes.Drain()
}

func (s *Sim) episodeLog() *components.EpisodeLogData {
	entry, _ := components.EpisodeLog.First(s.ecs.World)
	return components.EpisodeLog.Get(entry)
}

// RunInfo describes this session.
func (s *Sim) RunInfo() episode.Run { return s.run }

func (s *Sim) ECS() *ecs.ECS               { return s.ecs }
func (s *Sim) Registry() *track.Registry   { return s.registry }
func (s *Sim) Clock() *components.SimClock { return s.clock }

// Controllers returns the drivers' controllers in slot order.
func (s *Sim) Controllers() []*agent.Controller {
	out := make([]*agent.Controller, len(s.drivers))
	for i, e := range s.drivers {
		out[i] = components.Driver.Get(e).Controller
	}
	return out
}

// SetPolicy replaces the action source of the driver in slot.
func (s *Sim) SetPolicy(slot int, p agent.Policy) {
	if slot < 0 || slot >= len(s.drivers) {
		return
	}
	components.Driver.Get(s.drivers[slot]).Policy = p
}

// Views returns the spectator snapshot of the current tick.
func (s *Sim) Views() ([]netcomponents.NetDriverData, netcomponents.NetSessionData) {
	t, _ := systems.GetTrack(s.ecs)
	views := make([]netcomponents.NetDriverData, len(s.drivers))
	for i, e := range s.drivers {
		d := components.Driver.Get(e)
		obj := components.Object.Get(e)
		c := d.Controller
		views[i] = netcomponents.NetDriverData{
			Slot:           d.Slot,
			X:              obj.X + obj.W/2,
			Y:              obj.Y + obj.H/2,
			Yaw:            c.Pose().Yaw,
			Speed:          c.State().CurrentSpeed,
			NextCheckpoint: c.State().NextTargetCheckpointIndex,
			Return:         c.CumulativeReward(),
			Episode:        components.Episode.Get(e).Number,
		}
	}

	session := netcomponents.NetSessionData{
		Tick:             s.clock.Tick,
		Time:             s.clock.Time,
		TotalCheckpoints: s.registry.TotalCheckpoints(),
	}
	if t != nil {
		session.Track = t.Name
	}
	for _, e := range s.drivers {
		session.FinishedEpisodes += components.Episode.Get(e).Number - 1
	}
	return views, session
}
