package agent

// ContactKind classifies the volume the agent's collider touched.
type ContactKind int

const (
	ContactCheckpoint ContactKind = iota
	ContactGuide
	ContactWall
)

func (k ContactKind) String() string {
	switch k {
	case ContactCheckpoint:
		return "checkpoint"
	case ContactGuide:
		return "guide"
	case ContactWall:
		return "wall"
	}
	return "unknown"
}

// ContactPhase distinguishes the first overlapping tick from later ones.
type ContactPhase int

const (
	PhaseEnter ContactPhase = iota
	PhaseStay
)

// Contact is a resolved collision target. CheckpointIndex is only
// meaningful for ContactCheckpoint.
type Contact struct {
	Kind            ContactKind
	CheckpointIndex int
}

// CheckpointContact builds a checkpoint contact.
func CheckpointContact(index int) Contact {
	return Contact{Kind: ContactCheckpoint, CheckpointIndex: index}
}

// HandleContact routes a resolved contact to its callback and returns the
// reward it produced. Trigger volumes only react on PhaseEnter.
func (c *Controller) HandleContact(phase ContactPhase, contact Contact) float64 {
	switch contact.Kind {
	case ContactCheckpoint:
		if phase == PhaseEnter {
			return c.OnCheckpointEntered(contact.CheckpointIndex)
		}
	case ContactGuide:
		if phase == PhaseEnter {
			return c.OnGuideEntered()
		}
	case ContactWall:
		if phase == PhaseEnter {
			return c.OnWallContactBegin()
		}
		return c.OnWallContactSustained()
	}
	return 0
}
