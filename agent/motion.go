package agent

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Pose is the agent's position in track-local units and its heading in
// degrees around the vertical axis. Yaw 0 faces +Z.
type Pose struct {
	Position r3.Vec
	Yaw      float64
}

// Forward returns the unit vector the pose is facing.
func (p Pose) Forward() r3.Vec {
	rad := p.Yaw * math.Pi / 180
	return r3.Vec{X: math.Sin(rad), Y: 0, Z: math.Cos(rad)}
}

// MotionParams holds the kinematic tuning of a driver.
type MotionParams struct {
	TurnSpeed    float64 // degrees per second
	Acceleration float64 // units per second squared
	MaxSpeed     float64 // units per second
}

// MotionState is everything Integrate reads and writes.
type MotionState struct {
	Pose  Pose
	Speed float64
}

// Integrate advances the motion state by one step of dt seconds.
//
// Coasting decays speed with lerp(speed, 0, dt). That is frame-rate
// dependent; it is kept as-is so trained policies see the same dynamics.
func Integrate(in MotionInput, dt float64, s MotionState, p MotionParams) MotionState {
	if in.Turn != 0 {
		s.Pose.Yaw = normalizeYaw(s.Pose.Yaw + in.Turn*p.TurnSpeed*dt)
	}

	if in.Forward > 0 {
		s.Speed = Clamp(s.Speed+p.Acceleration*dt, 0, p.MaxSpeed)
	} else {
		s.Speed = Lerp(s.Speed, 0, dt)
	}

	s.Pose.Position = r3.Add(s.Pose.Position, r3.Scale(s.Speed*dt, s.Pose.Forward()))
	return s
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp interpolates from a to b with t clamped to [0, 1].
func Lerp(a, b, t float64) float64 {
	t = Clamp(t, 0, 1)
	return a + (b-a)*t
}

func normalizeYaw(yaw float64) float64 {
	yaw = math.Mod(yaw, 360)
	if yaw < 0 {
		yaw += 360
	}
	return yaw
}
