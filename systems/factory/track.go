package factory

import (
	"fmt"
	"math"

	"github.com/automoto/racetrainer/archetypes"
	"github.com/automoto/racetrainer/components"
	"github.com/automoto/racetrainer/shared/trackdata"
	"github.com/automoto/racetrainer/track"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// CreateTrack builds the collision space and every track volume, then
// numbers the checkpoints in file order. The returned registry is the one
// all drivers on this track must share.
func CreateTrack(ecs *ecs.ECS, data *trackdata.TrackData, pixelsPerUnit float64, cellSize int) (*donburi.Entry, *track.Registry, error) {
	if pixelsPerUnit <= 0 {
		return nil, nil, fmt.Errorf("pixels per unit must be positive, got %v", pixelsPerUnit)
	}

	CreateSpace(ecs, data.MapWidth, data.MapHeight, cellSize, cellSize)

	registry := track.NewRegistry()
	trackEntry := archetypes.Track.Spawn(ecs)
	trackData := &components.TrackData{
		Name:          data.Name,
		Checkpoints:   registry,
		OriginX:       data.StartX,
		OriginY:       data.StartY,
		PixelsPerUnit: pixelsPerUnit,
		Width:         float64(data.MapWidth),
		Height:        float64(data.MapHeight),
	}
	components.Track.Set(trackEntry, trackData)

	for _, w := range data.Walls {
		CreateWall(ecs, w.X, w.Y, w.W, w.H)
	}
	for _, g := range data.Guides {
		CreateGuide(ecs, g.X, g.Y, g.W, g.H)
	}

	children := make([]*donburi.Entry, 0, len(data.Checkpoints))
	for _, cp := range data.Checkpoints {
		children = append(children, CreateCheckpoint(ecs, trackData, cp.X, cp.Y, cp.W, cp.H, cp.Disabled))
	}
	if err := registry.Initialize(track.EntryChildren(children)); err != nil {
		return nil, nil, fmt.Errorf("initialize checkpoints: %w", err)
	}

	return trackEntry, registry, nil
}

// ColliderPixels converts a collider size in track units to whole pixels.
func ColliderPixels(size, pixelsPerUnit float64) float64 {
	return math.Max(1, math.Round(size*pixelsPerUnit))
}
