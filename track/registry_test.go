package track

import (
	"testing"

	"github.com/automoto/racetrainer/components"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"
)

type fakeCheckpoint struct {
	index int
	set   bool
}

func (f *fakeCheckpoint) SetCheckpointIndex(i int) {
	f.index = i
	f.set = true
}

func TestRegistryInitialize(t *testing.T) {
	t.Parallel()

	t.Run("index is the child position", func(t *testing.T) {
		t.Parallel()
		a, b, c := &fakeCheckpoint{}, &fakeCheckpoint{}, &fakeCheckpoint{}
		r := NewRegistry()
		require.NoError(t, r.Initialize([]any{a, b, c}))

		assert.Equal(t, []int{0, 1, 2}, []int{a.index, b.index, c.index})
		assert.Equal(t, 3, r.TotalCheckpoints())
		assert.True(t, r.Initialized())
	})

	t.Run("plain children are skipped but counted", func(t *testing.T) {
		t.Parallel()
		a, c := &fakeCheckpoint{}, &fakeCheckpoint{}
		r := NewRegistry()
		require.NoError(t, r.Initialize([]any{a, "decoration", c}))

		assert.Equal(t, 0, a.index)
		assert.Equal(t, 2, c.index)
		assert.Equal(t, 3, r.TotalCheckpoints())
	})

	t.Run("empty track", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry()
		require.NoError(t, r.Initialize(nil))
		assert.Equal(t, 0, r.TotalCheckpoints())
	})

	t.Run("second initialize is rejected", func(t *testing.T) {
		t.Parallel()
		first := &fakeCheckpoint{}
		r := NewRegistry()
		require.NoError(t, r.Initialize([]any{first}))

		late := &fakeCheckpoint{}
		err := r.Initialize([]any{&fakeCheckpoint{}, late})
		assert.ErrorIs(t, err, ErrAlreadyInitialized)
		assert.False(t, late.set)
		assert.Equal(t, 1, r.TotalCheckpoints())
	})

	t.Run("uninitialized registry reports zero", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry()
		assert.Equal(t, 0, r.TotalCheckpoints())
		assert.False(t, r.Initialized())
	})
}

func TestEntryChildren(t *testing.T) {
	t.Parallel()

	world := donburi.NewWorld()
	first := world.Entry(world.Create(components.Checkpoint))
	plain := world.Entry(world.Create(components.Object))
	last := world.Entry(world.Create(components.Checkpoint))

	r := NewRegistry()
	require.NoError(t, r.Initialize(EntryChildren([]*donburi.Entry{first, plain, last})))

	assert.Equal(t, 3, r.TotalCheckpoints())
	assert.Equal(t, components.CheckpointData{Index: 0, Assigned: true}, *components.Checkpoint.Get(first))
	assert.Equal(t, components.CheckpointData{Index: 2, Assigned: true}, *components.Checkpoint.Get(last))
}
