package systems

import (
	"github.com/automoto/racetrainer/components"
	"github.com/yohamta/donburi/ecs"
	"gonum.org/v1/gonum/spatial/r3"
)

// UpdatePolicies asks every driver's policy for this tick's action vector.
func UpdatePolicies(ecs *ecs.ECS) {
	targets := checkpointCenters(ecs)

	for e := range components.Driver.Iter(ecs.World) {
		d := components.Driver.Get(e)
		if d.Policy == nil {
			continue
		}
		c := d.Controller
		target, known := targets[c.State().NextTargetCheckpointIndex]
		d.Pending = d.Policy.Decide(c.Observe(target, known))
	}
}

func checkpointCenters(ecs *ecs.ECS) map[int]r3.Vec {
	centers := make(map[int]r3.Vec)
	for e := range components.Checkpoint.Iter(ecs.World) {
		cp := components.Checkpoint.Get(e)
		if !cp.Assigned {
			continue
		}
		centers[cp.Index] = r3.Vec{X: cp.CenterX, Z: cp.CenterZ}
	}
	return centers
}
