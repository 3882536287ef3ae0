// Package track holds the checkpoint registry shared by every driver on a track.
package track

import (
	"errors"

	"github.com/automoto/racetrainer/components"
	"github.com/yohamta/donburi"
)

// ErrAlreadyInitialized is returned when a registry is initialized twice.
var ErrAlreadyInitialized = errors.New("checkpoint registry already initialized")

// Indexable is implemented by children that carry a checkpoint.
type Indexable interface {
	SetCheckpointIndex(i int)
}

// Registry numbers a track's checkpoints and reports how many make up a lap.
// It is written once by Initialize and read-only afterwards, so any number
// of drivers may share it.
type Registry struct {
	total       int
	initialized bool
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Initialize gives every checkpoint child its position as index. Children
// without a checkpoint are skipped but still count toward the total.
func (r *Registry) Initialize(children []any) error {
	if r.initialized {
		return ErrAlreadyInitialized
	}

	for i, child := range children {
		if cp, ok := child.(Indexable); ok {
			cp.SetCheckpointIndex(i)
		}
	}

	r.total = len(children)
	r.initialized = true
	return nil
}

func (r *Registry) TotalCheckpoints() int {
	return r.total
}

func (r *Registry) Initialized() bool {
	return r.initialized
}

// checkpointEntry exposes an entity's Checkpoint component as Indexable.
type checkpointEntry struct {
	entry *donburi.Entry
}

func (c checkpointEntry) SetCheckpointIndex(i int) {
	cp := components.Checkpoint.Get(c.entry)
	cp.Index = i
	cp.Assigned = true
}

// EntryChildren adapts ordered track children for Initialize. Entries
// without a Checkpoint component are passed through as-is.
func EntryChildren(entries []*donburi.Entry) []any {
	children := make([]any, len(entries))
	for i, e := range entries {
		if e.HasComponent(components.Checkpoint) {
			children[i] = checkpointEntry{entry: e}
			continue
		}
		children[i] = e
	}
	return children
}
