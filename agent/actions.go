package agent

import (
	"errors"
	"fmt"
)

// ErrInvalidAction is returned when a discrete action vector cannot be decoded.
var ErrInvalidAction = errors.New("invalid discrete action")

// Discrete action channels.
const (
	ChannelThrottle = 0
	ChannelSteer    = 1
	ChannelCount    = 2
)

// Throttle channel values.
const (
	ThrottleCoast      = 0
	ThrottleAccelerate = 1
)

// Steer channel values.
const (
	SteerStraight = 0
	SteerRight    = 1
	SteerLeft     = 2
)

// DiscreteActions is the per-tick action vector: throttle then steer.
type DiscreteActions []int

// MotionInput is the decoded form of DiscreteActions consumed by Integrate.
type MotionInput struct {
	Forward float64 // 0 coast, 1 accelerate
	Turn    float64 // -1 left, 0 straight, 1 right
}

// Decode maps the two discrete channels onto forward and turn amounts.
// Anything outside the enumerated values is rejected.
func (a DiscreteActions) Decode() (MotionInput, error) {
	if len(a) != ChannelCount {
		return MotionInput{}, fmt.Errorf("%w: want %d channels, got %d", ErrInvalidAction, ChannelCount, len(a))
	}

	var in MotionInput
	switch a[ChannelThrottle] {
	case ThrottleCoast:
		in.Forward = 0
	case ThrottleAccelerate:
		in.Forward = 1
	default:
		return MotionInput{}, fmt.Errorf("%w: throttle %d", ErrInvalidAction, a[ChannelThrottle])
	}

	switch a[ChannelSteer] {
	case SteerStraight:
		in.Turn = 0
	case SteerRight:
		in.Turn = 1
	case SteerLeft:
		in.Turn = -1
	default:
		return MotionInput{}, fmt.Errorf("%w: steer %d", ErrInvalidAction, a[ChannelSteer])
	}

	return in, nil
}

// Key identifies a control key read by the heuristic.
type Key int

const (
	KeyAccelerate Key = iota // Space
	KeySteerLeft             // A
	KeySteerRight            // D
)

// KeyState reports whether a control key is currently held down.
type KeyState interface {
	IsPressed(k Key) bool
}

// Heuristic derives the action vector from raw key state for manual control.
// Left wins over right when both are held.
func Heuristic(keys KeyState) DiscreteActions {
	actions := make(DiscreteActions, ChannelCount)

	if keys.IsPressed(KeyAccelerate) {
		actions[ChannelThrottle] = ThrottleAccelerate
	}

	switch {
	case keys.IsPressed(KeySteerLeft):
		actions[ChannelSteer] = SteerLeft
	case keys.IsPressed(KeySteerRight):
		actions[ChannelSteer] = SteerRight
	default:
		actions[ChannelSteer] = SteerStraight
	}

	return actions
}

// KeySet is a KeyState backed by a fixed set of held keys.
type KeySet map[Key]bool

func (k KeySet) IsPressed(key Key) bool {
	return k[key]
}
