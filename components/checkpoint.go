package components

import "github.com/yohamta/donburi"

// CheckpointData marks an entity as a numbered checkpoint volume.
// Index is written once by the track registry.
type CheckpointData struct {
	Index    int
	Assigned bool
	CenterX  float64 // track-local units
	CenterZ  float64
}

var Checkpoint = donburi.NewComponentType[CheckpointData]()
