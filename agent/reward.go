package agent

import "math"

// Rewards is the shaping table applied by the controller.
type Rewards struct {
	CheckpointBase   float64 // paid for every in-order checkpoint
	SpeedBonusScale  float64 // bonus per second of slack left in the window
	SpeedBonusWindow float64 // seconds after which the bonus reaches zero
	WrongCheckpoint  float64
	Guide            float64 // paid on every guide entry, uncapped
	WallHit          float64 // contact onset
	WallStay         float64 // each tick of sustained contact
}

// DefaultRewards returns the stock shaping table.
func DefaultRewards() Rewards {
	return Rewards{
		CheckpointBase:   10,
		SpeedBonusScale:  10,
		SpeedBonusWindow: 3,
		WrongCheckpoint:  -10,
		Guide:            100,
		WallHit:          -10,
		WallStay:         -1,
	}
}

// Checkpoint returns the reward for reaching the expected checkpoint
// elapsed seconds after the previous one.
func (r Rewards) Checkpoint(elapsed float64) float64 {
	return r.CheckpointBase + math.Max(r.SpeedBonusScale*(r.SpeedBonusWindow-elapsed), 0)
}
