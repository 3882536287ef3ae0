package tags

import "github.com/yohamta/donburi"

var (
	Driver     = donburi.NewTag().SetName("Driver")
	Checkpoint = donburi.NewTag().SetName("Checkpoint")
	Guide      = donburi.NewTag().SetName("Guide")
	Wall       = donburi.NewTag().SetName("Wall")
)

// Resolv tags for trigger and collision volumes. These are the tag strings
// the contact system classifies on.
const (
	ResolvCheckpoint = "Check Point"
	ResolvGuide      = "Inside Track Guide"
	ResolvWall       = "Wall"
	ResolvDriver     = "Driver"
)
