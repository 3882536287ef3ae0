package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

var testParams = MotionParams{TurnSpeed: 100, Acceleration: 5, MaxSpeed: 10}

func TestIntegrate(t *testing.T) {
	t.Parallel()

	t.Run("turn rotates heading by turn speed", func(t *testing.T) {
		t.Parallel()
		s := Integrate(MotionInput{Turn: 1}, 0.5, MotionState{}, testParams)
		assert.InDelta(t, 50, s.Pose.Yaw, 1e-9)

		s = Integrate(MotionInput{Turn: -1}, 0.5, MotionState{}, testParams)
		assert.InDelta(t, 310, s.Pose.Yaw, 1e-9)
	})

	t.Run("acceleration clamps to max speed", func(t *testing.T) {
		t.Parallel()
		s := MotionState{Speed: 9}
		s = Integrate(MotionInput{Forward: 1}, 1, s, testParams)
		assert.Equal(t, 10.0, s.Speed)
	})

	t.Run("coasting lerps toward rest", func(t *testing.T) {
		t.Parallel()
		s := Integrate(MotionInput{}, 0.25, MotionState{Speed: 8}, testParams)
		assert.InDelta(t, 6, s.Speed, 1e-9)

		s = Integrate(MotionInput{}, 2, MotionState{Speed: 8}, testParams)
		assert.Equal(t, 0.0, s.Speed)
	})

	t.Run("translates with the updated speed", func(t *testing.T) {
		t.Parallel()
		s := MotionState{Pose: Pose{Yaw: 90}, Speed: 2}
		s = Integrate(MotionInput{Forward: 1}, 0.1, s, testParams)
		assert.InDelta(t, 2.5, s.Speed, 1e-9)
		assert.InDelta(t, 0.25, s.Pose.Position.X, 1e-9)
		assert.InDelta(t, 0, s.Pose.Position.Z, 1e-9)
	})
}

func TestPoseForward(t *testing.T) {
	t.Parallel()
	f := Pose{Yaw: 0}.Forward()
	assert.InDelta(t, 1, f.Z, 1e-9)
	f = Pose{Yaw: 180}.Forward()
	assert.InDelta(t, -1, f.Z, 1e-9)
	assert.InDelta(t, 1, r3.Norm(Pose{Yaw: 33}.Forward()), 1e-9)
}

func TestLerp(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 5.0, Lerp(0, 10, 0.5))
	assert.Equal(t, 10.0, Lerp(0, 10, 3))
	assert.Equal(t, 0.0, Lerp(0, 10, -1))
}
