package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/automoto/racetrainer/agent"
	"github.com/automoto/racetrainer/shared/episode"
	"github.com/automoto/racetrainer/shared/trackdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// corridor is a 320x320 map with its origin in the middle. A driver at
// the origin facing yaw 180 drives straight down across three bars.
func corridor(checkpoints ...trackdata.Volume) *trackdata.TrackData {
	if len(checkpoints) == 0 {
		checkpoints = []trackdata.Volume{bar(200), bar(240), bar(280)}
	}
	return &trackdata.TrackData{
		Name:        "corridor",
		Checkpoints: checkpoints,
		StartX:      160,
		StartY:      160,
		MapWidth:    320,
		MapHeight:   320,
	}
}

func bar(y float64) trackdata.Volume {
	return trackdata.Volume{X: 0, Y: y, W: 320, H: 8}
}

func testOptions(policy string) Options {
	cfg := agent.DefaultConfig()
	cfg.Spawn = agent.SpawnArea{Min: r3.Vec{Y: 1}, Max: r3.Vec{Y: 1}, Yaw: 180}
	return Options{
		Drivers:          1,
		Seed:             1,
		Policy:           policy,
		TickRate:         50,
		EndOnOutOfBounds: true,
		PixelsPerUnit:    16,
		CellSize:         16,
		ColliderSize:     1,
		Agent:            cfg,
	}
}

func runOne(t *testing.T, s *Sim) episode.Summary {
	t.Helper()
	var got []episode.Summary
	err := s.Run(context.Background(), 1, func(batch []episode.Summary) error {
		got = append(got, batch...)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	return got[0]
}

func TestSimDrivesCheckpointsInOrder(t *testing.T) {
	t.Parallel()

	s, err := New(corridor(), testOptions(PolicyConstant))
	require.NoError(t, err)
	assert.Equal(t, 3, s.Registry().TotalCheckpoints())

	got := runOne(t, s)
	assert.Equal(t, episode.EndOutOfBounds, got.EndReason)
	assert.Equal(t, 3, got.CheckpointsPassed)
	assert.Equal(t, 0, got.WrongCheckpoints)
	assert.Equal(t, 1, got.Laps)
	assert.Greater(t, got.BestLapTime, 0.0)
	assert.Greater(t, got.Return, 30.0)
	assert.Equal(t, 1, got.Number)
	assert.Equal(t, s.RunInfo().ID, got.RunID)

	// The next episode starts over from checkpoint 0.
	assert.Equal(t, 0, s.Controllers()[0].State().NextTargetCheckpointIndex)
}

func TestSimWrongOrder(t *testing.T) {
	t.Parallel()

	s, err := New(corridor(bar(280), bar(240), bar(200)), testOptions(PolicyConstant))
	require.NoError(t, err)

	got := runOne(t, s)
	assert.Equal(t, 2, got.WrongCheckpoints)
	assert.Equal(t, 1, got.CheckpointsPassed)
	assert.Equal(t, 0, got.Laps)
}

func TestSimDisabledCheckpoint(t *testing.T) {
	t.Parallel()

	disabled := bar(240)
	disabled.Disabled = true
	s, err := New(corridor(bar(200), disabled, bar(280)), testOptions(PolicyConstant))
	require.NoError(t, err)
	assert.Equal(t, 3, s.Registry().TotalCheckpoints())

	got := runOne(t, s)
	assert.Equal(t, 1, got.CheckpointsPassed)
	assert.Equal(t, 1, got.WrongCheckpoints)
}

func TestSimWallAndGuide(t *testing.T) {
	t.Parallel()

	data := corridor()
	// Both cover the spawn point, so a parked driver sits inside them.
	data.Walls = []trackdata.Volume{{X: 140, Y: 140, W: 40, H: 40}}
	data.Guides = []trackdata.Volume{{X: 150, Y: 150, W: 20, H: 20}}

	opts := testOptions(PolicyConstant)
	opts.MaxSteps = 5
	s, err := New(data, opts)
	require.NoError(t, err)
	s.SetPolicy(0, agent.ConstantPolicy{Actions: agent.DiscreteActions{agent.ThrottleCoast, agent.SteerStraight}})

	got := runOne(t, s)
	assert.Equal(t, episode.EndMaxSteps, got.EndReason)
	assert.Equal(t, 5, got.Steps)
	assert.Equal(t, 1, got.WallContacts)
	assert.Equal(t, 4, got.WallTicks)
	assert.Equal(t, 1, got.GuideEntries)
	assert.InDelta(t, 100-10-4, got.Return, 1e-9)
}

func TestSimMaxSteps(t *testing.T) {
	t.Parallel()

	opts := testOptions(PolicyRandom)
	opts.MaxSteps = 10
	opts.Drivers = 2
	opts.EndOnOutOfBounds = false
	s, err := New(corridor(), opts)
	require.NoError(t, err)

	var got []episode.Summary
	err = s.Run(context.Background(), 4, func(batch []episode.Summary) error {
		got = append(got, batch...)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 4)
	for _, sum := range got {
		assert.Equal(t, 10, sum.Steps)
		assert.Equal(t, episode.EndMaxSteps, sum.EndReason)
	}
	assert.Equal(t, []int{1, 1, 2, 2}, []int{got[0].Number, got[1].Number, got[2].Number, got[3].Number})
	assert.ElementsMatch(t, []int{0, 1}, []int{got[0].Driver, got[1].Driver})
}

func TestSimFinish(t *testing.T) {
	t.Parallel()

	opts := testOptions(PolicyRandom)
	opts.EndOnOutOfBounds = false
	s, err := New(corridor(), opts)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		assert.Empty(t, s.Step())
	}
	assert.InDelta(t, 0.1, s.Clock().Now(), 1e-9)

	got := s.Finish()
	require.Len(t, got, 1)
	assert.Equal(t, episode.EndShutdown, got[0].EndReason)
	assert.Equal(t, 5, got[0].Steps)

	// Nothing has stepped since.
	assert.Empty(t, s.Finish())
}

func TestSimRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	opts := testOptions(PolicyRandom)
	opts.EndOnOutOfBounds = false
	s, err := New(corridor(), opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Run(ctx, 1, nil), context.Canceled)
}

func TestSimRunFlushesRunningEpisodesOnCancel(t *testing.T) {
	t.Parallel()

	opts := testOptions(PolicyRandom)
	opts.EndOnOutOfBounds = false
	opts.Drivers = 2
	s, err := New(corridor(), opts)
	require.NoError(t, err)
	for i := 0; i < 7; i++ {
		require.Empty(t, s.Step())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var got []episode.Summary
	err = s.Run(ctx, 1, func(batch []episode.Summary) error {
		got = append(got, batch...)
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)

	// Capped at n like any other batch.
	require.Len(t, got, 1)
	assert.Equal(t, episode.EndShutdown, got[0].EndReason)
	assert.Equal(t, 7, got[0].Steps)
}

func TestLimitSink(t *testing.T) {
	t.Parallel()

	batch := func(n int) []episode.Summary { return make([]episode.Summary, n) }

	var got []episode.Summary
	fullCalls := 0
	sink := LimitSink(3, func(b []episode.Summary) error {
		got = append(got, b...)
		return nil
	}, func() { fullCalls++ })

	require.NoError(t, sink(batch(2)))
	assert.Zero(t, fullCalls)
	require.NoError(t, sink(nil))
	require.NoError(t, sink(batch(2)))
	require.NoError(t, sink(batch(4)))
	assert.Len(t, got, 3)
	assert.Equal(t, 1, fullCalls)

	errSink := errors.New("disk full")
	failing := LimitSink(2, func([]episode.Summary) error { return errSink }, nil)
	assert.ErrorIs(t, failing(batch(1)), errSink)
}

func TestSimWallContactEndsWhenDriverLeaves(t *testing.T) {
	t.Parallel()

	data := corridor()
	// Thin strip between the spawn point and the first checkpoint.
	data.Walls = []trackdata.Volume{{X: 0, Y: 176, W: 320, H: 8}}
	s, err := New(data, testOptions(PolicyConstant))
	require.NoError(t, err)

	c := s.Controllers()[0]
	pixelY := func() float64 { return 160 - c.Pose().Position.Z*16 }

	// The collider is 16px tall, so the strip is touched while 168 < y < 192.
	for i := 0; i < 500 && pixelY() < 192; i++ {
		require.Empty(t, s.Step())
	}
	require.GreaterOrEqual(t, pixelY(), 192.0)

	crossed := c.Stats()
	assert.Equal(t, 1, crossed.WallContacts)
	assert.Greater(t, crossed.WallTicks, 0)

	for i := 0; i < 3; i++ {
		s.Step()
	}
	assert.Equal(t, 1, c.Stats().WallContacts)
	assert.Equal(t, crossed.WallTicks, c.Stats().WallTicks)

	// Put the driver back above the strip and let it drive in again.
	c.SetPose(agent.Pose{Position: r3.Vec{Y: 1, Z: (160 - 150) / 16.0}, Yaw: 180})
	s.Step()
	assert.Equal(t, 1, c.Stats().WallContacts)

	for i := 0; i < 500 && c.Stats().WallContacts < 2; i++ {
		s.Step()
	}
	assert.Equal(t, 2, c.Stats().WallContacts)
	assert.Equal(t, crossed.WallTicks, c.Stats().WallTicks)

	s.Step()
	assert.Equal(t, crossed.WallTicks+1, c.Stats().WallTicks)
}

func TestSimViews(t *testing.T) {
	t.Parallel()

	s, err := New(corridor(), testOptions(PolicyConstant))
	require.NoError(t, err)
	s.Step()

	views, session := s.Views()
	require.Len(t, views, 1)
	assert.InDelta(t, 160, views[0].X, 1e-9)
	assert.Greater(t, views[0].Y, 160.0)
	assert.Equal(t, 180.0, views[0].Yaw)
	assert.Equal(t, "corridor", session.Track)
	assert.Equal(t, 1, session.Tick)
	assert.Equal(t, 3, session.TotalCheckpoints)
}

func TestNewValidates(t *testing.T) {
	t.Parallel()

	opts := testOptions(PolicyRandom)
	opts.Drivers = 0
	_, err := New(corridor(), opts)
	assert.Error(t, err)

	opts = testOptions("teleport")
	_, err = New(corridor(), opts)
	assert.Error(t, err)

	opts = testOptions(PolicyRandom)
	opts.Agent.Behavior = agent.BehaviorHeuristicOnly
	s, err := New(corridor(), opts)
	require.NoError(t, err)
	assert.Equal(t, PolicyHeuristic, s.RunInfo().Policy)
}
