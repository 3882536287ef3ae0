// Package agent implements the driver agent: discrete action decoding,
// kinematic motion, and the checkpoint-order reward state machine.
package agent

import (
	"fmt"
	"log"
	"math/rand"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// BehaviorType selects how the host drives the agent.
type BehaviorType int

const (
	BehaviorDefault BehaviorType = iota
	BehaviorHeuristicOnly
	BehaviorInferenceOnly
)

var behaviorNames = map[BehaviorType]string{
	BehaviorDefault:       "default",
	BehaviorHeuristicOnly: "heuristic",
	BehaviorInferenceOnly: "inference",
}

func (b BehaviorType) String() string {
	if name, ok := behaviorNames[b]; ok {
		return name
	}
	return "unknown"
}

// ParseBehaviorType accepts the names printed by String.
func ParseBehaviorType(s string) (BehaviorType, error) {
	for b, name := range behaviorNames {
		if strings.EqualFold(s, name) {
			return b, nil
		}
	}
	return BehaviorDefault, fmt.Errorf("unknown behavior type %q", s)
}

// CheckpointCounter reports how many checkpoints make up a lap.
type CheckpointCounter interface {
	TotalCheckpoints() int
}

// Clock returns the current simulation time in seconds.
type Clock interface {
	Now() float64
}

// SpawnArea bounds the randomized start position of a training episode.
type SpawnArea struct {
	Min r3.Vec
	Max r3.Vec
	Yaw float64
}

// Config is the per-driver tuning.
type Config struct {
	Motion     MotionParams
	Rewards    Rewards
	Spawn      SpawnArea
	Behavior   BehaviorType
	LogRewards bool
}

// DefaultConfig returns the stock driver tuning.
func DefaultConfig() Config {
	return Config{
		Motion: MotionParams{
			TurnSpeed:    100,
			Acceleration: 5,
			MaxSpeed:     10,
		},
		Rewards: DefaultRewards(),
		Spawn: SpawnArea{
			Min: r3.Vec{X: -3.5, Y: 1, Z: -1.5},
			Max: r3.Vec{X: 3.5, Y: 1, Z: 3.0},
			Yaw: 180,
		},
	}
}

// EpisodeState is the reward state machine's memory for one episode.
type EpisodeState struct {
	NextTargetCheckpointIndex int
	LastCheckpointTime        float64 // simulation time of the previous in-order crossing
	CurrentSpeed              float64
}

// EpisodeStats counts what happened during the current episode.
type EpisodeStats struct {
	CheckpointsPassed int
	WrongCheckpoints  int
	GuideEntries      int
	WallContacts      int
	WallTicks         int
	Laps              int
	LapStart          float64
	LastLapTime       float64
	BestLapTime       float64 // 0 until a lap completes
}

// Controller is one driver agent. It is not safe for concurrent use; the
// simulation calls it from a single tick goroutine.
type Controller struct {
	cfg         Config
	checkpoints CheckpointCounter
	clock       Clock
	rng         *rand.Rand

	state EpisodeState
	pose  Pose
	stats EpisodeStats

	stepReward       float64
	cumulativeReward float64
}

// New creates a controller bound to a shared checkpoint counter.
func New(cfg Config, checkpoints CheckpointCounter, clock Clock, rng *rand.Rand) *Controller {
	return &Controller{
		cfg:         cfg,
		checkpoints: checkpoints,
		clock:       clock,
		rng:         rng,
		pose:        Pose{Position: cfg.Spawn.Min, Yaw: cfg.Spawn.Yaw},
	}
}

// OnEpisodeBegin resets the agent for a new episode. Inference-only agents
// keep their pose and checkpoint progress.
func (c *Controller) OnEpisodeBegin() {
	c.stepReward = 0
	c.cumulativeReward = 0
	c.stats = EpisodeStats{LapStart: c.clock.Now()}

	if c.cfg.Behavior == BehaviorInferenceOnly {
		return
	}

	c.state.LastCheckpointTime = c.clock.Now()
	c.pose = Pose{
		Position: r3.Vec{
			X: c.randRange(c.cfg.Spawn.Min.X, c.cfg.Spawn.Max.X),
			Y: c.cfg.Spawn.Min.Y,
			Z: c.randRange(c.cfg.Spawn.Min.Z, c.cfg.Spawn.Max.Z),
		},
		Yaw: c.cfg.Spawn.Yaw,
	}
	c.state.NextTargetCheckpointIndex = 0
	c.state.CurrentSpeed = 0
}

// OnActionReceived decodes one action vector and integrates dt seconds of
// motion. Invalid vectors are rejected and leave the agent untouched.
func (c *Controller) OnActionReceived(actions DiscreteActions, dt float64) error {
	in, err := actions.Decode()
	if err != nil {
		return err
	}

	next := Integrate(in, dt, MotionState{Pose: c.pose, Speed: c.state.CurrentSpeed}, c.cfg.Motion)
	c.pose = next.Pose
	c.state.CurrentSpeed = next.Speed
	return nil
}

// Heuristic maps held keys onto an action vector.
func (c *Controller) Heuristic(keys KeyState) DiscreteActions {
	return Heuristic(keys)
}

// OnCheckpointEntered applies the checkpoint-order reward and returns it.
func (c *Controller) OnCheckpointEntered(index int) float64 {
	if index != c.state.NextTargetCheckpointIndex {
		c.stats.WrongCheckpoints++
		c.AddReward(c.cfg.Rewards.WrongCheckpoint)
		c.logf("wrong checkpoint %d passed, expected %d", index, c.state.NextTargetCheckpointIndex)
		return c.cfg.Rewards.WrongCheckpoint
	}

	now := c.clock.Now()
	elapsed := now - c.state.LastCheckpointTime
	reward := c.cfg.Rewards.Checkpoint(elapsed)
	c.AddReward(reward)
	c.logf("correct checkpoint %d passed, reward %.2f", index, reward)

	c.state.LastCheckpointTime = now
	c.stats.CheckpointsPassed++
	c.advance(now)
	return reward
}

func (c *Controller) advance(now float64) {
	next := c.state.NextTargetCheckpointIndex + 1
	if total := c.checkpoints.TotalCheckpoints(); total > 0 {
		next %= total
	}
	c.state.NextTargetCheckpointIndex = next
	if next != 0 {
		return
	}

	// Wrapped: lap complete. Episodes keep running.
	lap := now - c.stats.LapStart
	c.stats.Laps++
	c.stats.LastLapTime = lap
	c.stats.LapStart = now
	if c.stats.BestLapTime == 0 || lap < c.stats.BestLapTime {
		c.stats.BestLapTime = lap
	}
}

// OnGuideEntered rewards entering an inside-track guide.
func (c *Controller) OnGuideEntered() float64 {
	c.stats.GuideEntries++
	c.AddReward(c.cfg.Rewards.Guide)
	return c.cfg.Rewards.Guide
}

// OnWallContactBegin penalizes the first tick of a wall contact.
func (c *Controller) OnWallContactBegin() float64 {
	c.stats.WallContacts++
	c.AddReward(c.cfg.Rewards.WallHit)
	return c.cfg.Rewards.WallHit
}

// OnWallContactSustained penalizes every further tick spent touching a wall.
func (c *Controller) OnWallContactSustained() float64 {
	c.stats.WallTicks++
	c.AddReward(c.cfg.Rewards.WallStay)
	return c.cfg.Rewards.WallStay
}

// AddReward accumulates r into both the step and the episode totals.
func (c *Controller) AddReward(r float64) {
	c.stepReward += r
	c.cumulativeReward += r
}

// TakeStepReward returns the reward collected since the last call and clears it.
func (c *Controller) TakeStepReward() float64 {
	r := c.stepReward
	c.stepReward = 0
	return r
}

func (c *Controller) CumulativeReward() float64 { return c.cumulativeReward }
func (c *Controller) State() EpisodeState       { return c.state }
func (c *Controller) Stats() EpisodeStats       { return c.stats }
func (c *Controller) Pose() Pose                { return c.pose }
func (c *Controller) Config() Config            { return c.cfg }

// SetPose places the agent, for hosts that position inference-only agents themselves.
func (c *Controller) SetPose(p Pose) {
	c.pose = p
}

func (c *Controller) randRange(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + c.rng.Float64()*(hi-lo)
}

func (c *Controller) logf(format string, args ...any) {
	if !c.cfg.LogRewards {
		return
	}
	log.Printf("[driver] "+format, args...)
}
