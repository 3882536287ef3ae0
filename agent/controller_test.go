package agent

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t float64 }

func (c *fakeClock) Now() float64 { return c.t }

type fixedCount int

func (n fixedCount) TotalCheckpoints() int { return int(n) }

func newTestController(total int, clock *fakeClock) *Controller {
	c := New(DefaultConfig(), fixedCount(total), clock, rand.New(rand.NewSource(7)))
	c.OnEpisodeBegin()
	return c
}

func TestOnEpisodeBegin(t *testing.T) {
	t.Parallel()

	t.Run("randomizes position within spawn bounds", func(t *testing.T) {
		t.Parallel()
		clock := &fakeClock{t: 12}
		c := New(DefaultConfig(), fixedCount(4), clock, rand.New(rand.NewSource(1)))

		for i := 0; i < 200; i++ {
			c.OnEpisodeBegin()
			p := c.Pose()
			assert.GreaterOrEqual(t, p.Position.X, -3.5)
			assert.LessOrEqual(t, p.Position.X, 3.5)
			assert.GreaterOrEqual(t, p.Position.Z, -1.5)
			assert.LessOrEqual(t, p.Position.Z, 3.0)
			assert.Equal(t, 1.0, p.Position.Y)
			assert.Equal(t, 180.0, p.Yaw)
		}
	})

	t.Run("resets target, speed and timer", func(t *testing.T) {
		t.Parallel()
		clock := &fakeClock{}
		c := newTestController(4, clock)

		require.NoError(t, c.OnActionReceived(DiscreteActions{1, 0}, 0.5))
		clock.t = 1
		c.OnCheckpointEntered(0)
		require.Equal(t, 1, c.State().NextTargetCheckpointIndex)
		require.Greater(t, c.State().CurrentSpeed, 0.0)

		clock.t = 5
		c.OnEpisodeBegin()
		assert.Equal(t, EpisodeState{NextTargetCheckpointIndex: 0, LastCheckpointTime: 5, CurrentSpeed: 0}, c.State())
		assert.Zero(t, c.CumulativeReward())
	})

	t.Run("inference only keeps state", func(t *testing.T) {
		t.Parallel()
		clock := &fakeClock{}
		cfg := DefaultConfig()
		cfg.Behavior = BehaviorInferenceOnly
		c := New(cfg, fixedCount(4), clock, rand.New(rand.NewSource(1)))

		placed := Pose{Yaw: 42}
		placed.Position.X = 100
		c.SetPose(placed)
		require.NoError(t, c.OnActionReceived(DiscreteActions{1, 0}, 0.1))
		clock.t = 1
		c.OnCheckpointEntered(0)
		before := c.State()
		pose := c.Pose()

		clock.t = 9
		c.OnEpisodeBegin()
		assert.Equal(t, before, c.State())
		assert.Equal(t, pose, c.Pose())
		assert.Zero(t, c.CumulativeReward())
	})
}

func TestOnCheckpointEntered(t *testing.T) {
	t.Parallel()

	t.Run("in order checkpoint pays base plus speed bonus", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			elapsed float64
			want    float64
		}{
			{elapsed: 0, want: 40},
			{elapsed: 1, want: 30},
			{elapsed: 2.5, want: 15},
			{elapsed: 3, want: 10},
			{elapsed: 7, want: 10},
		}
		for _, tt := range tests {
			clock := &fakeClock{t: 100}
			c := newTestController(4, clock)
			clock.t += tt.elapsed
			assert.InDelta(t, tt.want, c.OnCheckpointEntered(0), 1e-9, "elapsed %v", tt.elapsed)
			assert.Equal(t, 1, c.State().NextTargetCheckpointIndex)
			assert.Equal(t, clock.t, c.State().LastCheckpointTime)
		}
	})

	t.Run("wrong checkpoint is a flat penalty", func(t *testing.T) {
		t.Parallel()
		clock := &fakeClock{}
		c := newTestController(4, clock)
		clock.t = 2

		assert.Equal(t, -10.0, c.OnCheckpointEntered(2))
		assert.Equal(t, 0, c.State().NextTargetCheckpointIndex)
		assert.Equal(t, 0.0, c.State().LastCheckpointTime)
		assert.Equal(t, 1, c.Stats().WrongCheckpoints)
	})

	t.Run("target wraps after the last checkpoint", func(t *testing.T) {
		t.Parallel()
		clock := &fakeClock{}
		c := newTestController(3, clock)

		for i := 0; i < 3; i++ {
			clock.t += 4
			c.OnCheckpointEntered(i)
		}
		assert.Equal(t, 0, c.State().NextTargetCheckpointIndex)
		assert.Equal(t, 1, c.Stats().Laps)
		assert.Equal(t, 12.0, c.Stats().BestLapTime)
		assert.Equal(t, 12.0, c.Stats().LastLapTime)

		clock.t += 1
		assert.Equal(t, 30.0, c.OnCheckpointEntered(0))
		assert.Equal(t, 1, c.State().NextTargetCheckpointIndex)
	})

	t.Run("four checkpoint scenario", func(t *testing.T) {
		t.Parallel()
		clock := &fakeClock{}
		c := newTestController(4, clock)

		clock.t = 1.0
		assert.InDelta(t, 30.0, c.OnCheckpointEntered(0), 1e-9)
		assert.Equal(t, 1, c.State().NextTargetCheckpointIndex)

		clock.t = 1.5
		assert.Equal(t, -10.0, c.OnCheckpointEntered(3))
		assert.Equal(t, 1, c.State().NextTargetCheckpointIndex)
		assert.InDelta(t, 20.0, c.CumulativeReward(), 1e-9)
	})
}

func TestGuideAndWallRewards(t *testing.T) {
	t.Parallel()
	clock := &fakeClock{}
	c := newTestController(4, clock)

	for i := 0; i < 3; i++ {
		assert.Equal(t, 100.0, c.OnGuideEntered())
	}
	assert.Equal(t, -10.0, c.OnWallContactBegin())
	assert.Equal(t, -1.0, c.OnWallContactSustained())
	assert.Equal(t, -1.0, c.OnWallContactSustained())

	assert.Equal(t, 288.0, c.CumulativeReward())
	assert.Equal(t, 288.0, c.TakeStepReward())
	assert.Zero(t, c.TakeStepReward())
	assert.Equal(t, 288.0, c.CumulativeReward())

	stats := c.Stats()
	assert.Equal(t, 3, stats.GuideEntries)
	assert.Equal(t, 1, stats.WallContacts)
	assert.Equal(t, 2, stats.WallTicks)
}

func TestHandleContact(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		phase   ContactPhase
		contact Contact
		want    float64
	}{
		{name: "checkpoint enter", phase: PhaseEnter, contact: CheckpointContact(0), want: 40},
		{name: "checkpoint stay ignored", phase: PhaseStay, contact: CheckpointContact(0), want: 0},
		{name: "wrong checkpoint", phase: PhaseEnter, contact: CheckpointContact(2), want: -10},
		{name: "guide enter", phase: PhaseEnter, contact: Contact{Kind: ContactGuide}, want: 100},
		{name: "guide stay ignored", phase: PhaseStay, contact: Contact{Kind: ContactGuide}, want: 0},
		{name: "wall onset", phase: PhaseEnter, contact: Contact{Kind: ContactWall}, want: -10},
		{name: "wall sustained", phase: PhaseStay, contact: Contact{Kind: ContactWall}, want: -1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newTestController(4, &fakeClock{})
			assert.Equal(t, tt.want, c.HandleContact(tt.phase, tt.contact))
		})
	}
}

func TestOnActionReceived(t *testing.T) {
	t.Parallel()

	t.Run("rejects invalid vectors without moving", func(t *testing.T) {
		t.Parallel()
		c := newTestController(4, &fakeClock{})
		pose, state := c.Pose(), c.State()

		for _, actions := range []DiscreteActions{{1}, {2, 0}, {1, 3}, {-1, 0}, {0, 0, 0}} {
			err := c.OnActionReceived(actions, 0.1)
			assert.ErrorIs(t, err, ErrInvalidAction, "%v", actions)
		}
		assert.Equal(t, pose, c.Pose())
		assert.Equal(t, state, c.State())
	})

	t.Run("heuristic keys feed the same action path", func(t *testing.T) {
		t.Parallel()
		c := newTestController(4, &fakeClock{})
		start := c.Pose()

		actions := c.Heuristic(KeySet{KeyAccelerate: true, KeySteerLeft: true})
		assert.Equal(t, DiscreteActions{ThrottleAccelerate, SteerLeft}, actions)
		require.NoError(t, c.OnActionReceived(actions, 0.1))
		assert.InDelta(t, start.Yaw-10, c.Pose().Yaw, 1e-9)
		assert.InDelta(t, 0.5, c.State().CurrentSpeed, 1e-9)
	})

	t.Run("accelerate moves along heading", func(t *testing.T) {
		t.Parallel()
		c := newTestController(4, &fakeClock{})
		start := c.Pose().Position

		require.NoError(t, c.OnActionReceived(DiscreteActions{ThrottleAccelerate, SteerStraight}, 1))
		assert.Equal(t, 5.0, c.State().CurrentSpeed)
		// Yaw 180 faces -Z.
		assert.InDelta(t, start.Z-5, c.Pose().Position.Z, 1e-9)
		assert.InDelta(t, start.X, c.Pose().Position.X, 1e-9)
	})
}

func TestParseBehaviorType(t *testing.T) {
	t.Parallel()
	for _, b := range []BehaviorType{BehaviorDefault, BehaviorHeuristicOnly, BehaviorInferenceOnly} {
		got, err := ParseBehaviorType(b.String())
		require.NoError(t, err)
		assert.Equal(t, b, got)
	}
	_, err := ParseBehaviorType("ppo")
	assert.Error(t, err)
}
