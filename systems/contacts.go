package systems

import (
	"github.com/automoto/racetrainer/agent"
	"github.com/automoto/racetrainer/components"
	"github.com/automoto/racetrainer/tags"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// UpdateContacts finds the volumes each driver overlaps and reports them
// to its controller. A volume touched on the previous tick is a stay,
// otherwise an enter.
func UpdateContacts(ecs *ecs.ECS) {
	for e := range tags.Driver.Iter(ecs.World) {
		d := components.Driver.Get(e)
		obj := components.Object.Get(e)
		contacts := components.Contacts.Get(e)

		touching := overlapping(obj)
		current := make(map[*resolv.Object]bool, len(touching))
		for _, other := range touching {
			current[other] = true

			contact, ok := classify(other)
			if !ok {
				continue
			}
			phase := agent.PhaseEnter
			if contacts.Touching[other] {
				phase = agent.PhaseStay
			}
			d.Controller.HandleContact(phase, contact)
		}
		contacts.Touching = current
	}
}

// overlapping returns the track volumes under obj, in space order and
// without duplicates.
func overlapping(obj *components.ObjectData) []*resolv.Object {
	check := obj.Check(0, 0, tags.ResolvCheckpoint, tags.ResolvGuide, tags.ResolvWall)
	if check == nil {
		return nil
	}

	seen := make(map[*resolv.Object]bool, len(check.Objects))
	out := make([]*resolv.Object, 0, len(check.Objects))
	for _, other := range check.Objects {
		if seen[other] || !obj.Overlaps(other) {
			continue
		}
		seen[other] = true
		out = append(out, other)
	}
	return out
}

// classify turns a resolv object into a contact. Disabled or unnumbered
// checkpoints produce nothing.
func classify(other *resolv.Object) (agent.Contact, bool) {
	switch {
	case other.HasTags(tags.ResolvCheckpoint):
		entry, ok := other.Data.(*donburi.Entry)
		if !ok || !entry.Valid() || !entry.HasComponent(components.Checkpoint) {
			return agent.Contact{}, false
		}
		cp := components.Checkpoint.Get(entry)
		if !cp.Assigned {
			return agent.Contact{}, false
		}
		return agent.CheckpointContact(cp.Index), true
	case other.HasTags(tags.ResolvGuide):
		return agent.Contact{Kind: agent.ContactGuide}, true
	case other.HasTags(tags.ResolvWall):
		return agent.Contact{Kind: agent.ContactWall}, true
	}
	return agent.Contact{}, false
}
