package sim

import (
	"fmt"
	"math/rand"

	"github.com/automoto/racetrainer/agent"
	cfg "github.com/automoto/racetrainer/config"
	"gonum.org/v1/gonum/spatial/r3"
)

// Options configures a simulation.
type Options struct {
	Drivers  int
	Seed     int64
	Policy   string
	Keys     agent.KeyState // read by the heuristic policy
	TickRate int
	MaxSteps int

	EndOnOutOfBounds bool
	PixelsPerUnit    float64
	CellSize         int
	ColliderSize     float64 // track units

	Agent agent.Config
}

// OptionsFromConfig builds options from the global config.
func OptionsFromConfig() (Options, error) {
	behavior, err := agent.ParseBehaviorType(cfg.Episode.Behavior)
	if err != nil {
		return Options{}, err
	}

	return Options{
		Drivers:          cfg.Sim.Drivers,
		Seed:             cfg.Sim.Seed,
		Policy:           cfg.Sim.Policy,
		TickRate:         cfg.Sim.TickRate,
		MaxSteps:         cfg.Episode.MaxSteps,
		EndOnOutOfBounds: cfg.Episode.EndOnOutOfBounds,
		PixelsPerUnit:    cfg.Track.PixelsPerUnit,
		CellSize:         cfg.Track.CellSize,
		ColliderSize:     cfg.Driver.ColliderSize,
		Agent: agent.Config{
			Motion: agent.MotionParams{
				TurnSpeed:    cfg.Driver.TurnSpeed,
				Acceleration: cfg.Driver.Acceleration,
				MaxSpeed:     cfg.Driver.MaxSpeed,
			},
			Rewards: agent.Rewards{
				CheckpointBase:   cfg.Reward.CheckpointBase,
				SpeedBonusScale:  cfg.Reward.SpeedBonusScale,
				SpeedBonusWindow: cfg.Reward.SpeedBonusWindow,
				WrongCheckpoint:  cfg.Reward.WrongCheckpoint,
				Guide:            cfg.Reward.Guide,
				WallHit:          cfg.Reward.WallHit,
				WallStay:         cfg.Reward.WallStay,
			},
			Spawn: agent.SpawnArea{
				Min: r3.Vec{X: cfg.Episode.SpawnMinX, Y: cfg.Episode.SpawnY, Z: cfg.Episode.SpawnMinZ},
				Max: r3.Vec{X: cfg.Episode.SpawnMaxX, Y: cfg.Episode.SpawnY, Z: cfg.Episode.SpawnMaxZ},
				Yaw: cfg.Episode.SpawnYaw,
			},
			Behavior:   behavior,
			LogRewards: cfg.Debug.LogRewards,
		},
	}, nil
}

func (o Options) validate() error {
	if o.Drivers < 1 {
		return fmt.Errorf("need at least one driver, got %d", o.Drivers)
	}
	if o.TickRate < 1 {
		return fmt.Errorf("tick rate must be positive, got %d", o.TickRate)
	}
	if o.PixelsPerUnit <= 0 {
		return fmt.Errorf("pixels per unit must be positive, got %v", o.PixelsPerUnit)
	}
	if o.ColliderSize <= 0 {
		return fmt.Errorf("collider size must be positive, got %v", o.ColliderSize)
	}
	if o.CellSize < 1 {
		return fmt.Errorf("cell size must be positive, got %d", o.CellSize)
	}
	return nil
}

// Policy names accepted by NewPolicy.
const (
	PolicyRandom    = "random"
	PolicySeek      = "seek"
	PolicyConstant  = "constant"
	PolicyHeuristic = "heuristic"
)

// NewPolicy builds a policy by name.
func NewPolicy(name string, rng *rand.Rand, keys agent.KeyState) (agent.Policy, error) {
	switch name {
	case PolicyRandom:
		return agent.NewRandomPolicy(rng), nil
	case PolicySeek:
		return agent.SeekPolicy{Deadband: 5}, nil
	case PolicyConstant:
		return agent.ConstantPolicy{Actions: agent.DiscreteActions{agent.ThrottleAccelerate, agent.SteerStraight}}, nil
	case PolicyHeuristic:
		if keys == nil {
			keys = agent.KeySet{}
		}
		return &agent.HeuristicPolicy{Keys: keys}, nil
	}
	return nil, fmt.Errorf("unknown policy %q", name)
}
