// Package episode defines the finished-episode record shared by the
// simulation, the episode store and reports. Pure data only.
package episode

import (
	"time"

	"github.com/google/uuid"
)

// EndReason says why the host terminated an episode.
type EndReason string

const (
	EndMaxSteps    EndReason = "max_steps"
	EndOutOfBounds EndReason = "out_of_bounds"
	EndShutdown    EndReason = "shutdown"
)

// Summary is one finished episode of one driver.
type Summary struct {
	ID                uuid.UUID
	RunID             uuid.UUID
	Number            int // per-driver episode counter, starting at 1
	Driver            int // driver slot
	Steps             int
	Return            float64
	CheckpointsPassed int
	WrongCheckpoints  int
	GuideEntries      int
	WallContacts      int
	WallTicks         int
	Laps              int
	BestLapTime       float64 // seconds, 0 when no lap completed
	EndReason         EndReason
	FinishedAt        time.Time
}

// Run describes one training or driving session.
type Run struct {
	ID        uuid.UUID
	Track     string
	Policy    string
	Behavior  string
	Drivers   int
	Seed      int64
	StartedAt time.Time
}
