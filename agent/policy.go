package agent

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// Observation is what a policy sees each tick.
type Observation struct {
	NextTargetCheckpointIndex int
	Speed                     float64
	Pose                      Pose
	// ToTarget is the heading-relative angle in degrees to the next
	// checkpoint's center, positive to the right. Zero when unknown.
	ToTarget float64
	Distance float64
}

// Observe builds an observation, given where the next checkpoint sits.
func (c *Controller) Observe(target r3.Vec, targetKnown bool) Observation {
	obs := Observation{
		NextTargetCheckpointIndex: c.state.NextTargetCheckpointIndex,
		Speed:                     c.state.CurrentSpeed,
		Pose:                      c.pose,
	}
	if !targetKnown {
		return obs
	}

	d := r3.Sub(target, c.pose.Position)
	d.Y = 0
	obs.Distance = r3.Norm(d)
	if obs.Distance == 0 {
		return obs
	}
	bearing := math.Atan2(d.X, d.Z) * 180 / math.Pi
	obs.ToTarget = wrapAngle(bearing - c.pose.Yaw)
	return obs
}

// Policy picks the next action vector.
type Policy interface {
	Decide(obs Observation) DiscreteActions
}

// RandomPolicy samples both channels uniformly.
type RandomPolicy struct {
	rng *rand.Rand
}

func NewRandomPolicy(rng *rand.Rand) *RandomPolicy {
	return &RandomPolicy{rng: rng}
}

func (p *RandomPolicy) Decide(Observation) DiscreteActions {
	return DiscreteActions{p.rng.Intn(2), p.rng.Intn(3)}
}

// HeuristicPolicy reads a key state, for manual driving.
type HeuristicPolicy struct {
	Keys KeyState
}

func (p *HeuristicPolicy) Decide(Observation) DiscreteActions {
	return Heuristic(p.Keys)
}

// ConstantPolicy repeats the same action vector.
type ConstantPolicy struct {
	Actions DiscreteActions
}

func (p ConstantPolicy) Decide(Observation) DiscreteActions {
	return append(DiscreteActions(nil), p.Actions...)
}

// SeekPolicy accelerates and steers toward the next checkpoint. It is a
// scripted baseline, not a learned policy.
type SeekPolicy struct {
	Deadband float64 // degrees within which it drives straight
}

func (p SeekPolicy) Decide(obs Observation) DiscreteActions {
	steer := SteerStraight
	switch {
	case obs.ToTarget > p.Deadband:
		steer = SteerRight
	case obs.ToTarget < -p.Deadband:
		steer = SteerLeft
	}
	return DiscreteActions{ThrottleAccelerate, steer}
}

func wrapAngle(deg float64) float64 {
	deg = math.Mod(deg+180, 360)
	if deg < 0 {
		deg += 360
	}
	return deg - 180
}
