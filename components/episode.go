package components

import (
	"github.com/automoto/racetrainer/shared/episode"
	"github.com/google/uuid"
	"github.com/yohamta/donburi"
)

// EpisodeData tracks the running episode of one driver.
type EpisodeData struct {
	ID     uuid.UUID
	Number int
	Steps  int
}

var Episode = donburi.NewComponentType[EpisodeData]()

// EpisodeLogData is a singleton collecting finished episodes until the
// simulation drains them.
type EpisodeLogData struct {
	RunID    uuid.UUID
	MaxSteps int
	Finished []episode.Summary
}

var EpisodeLog = donburi.NewComponentType[EpisodeLogData]()

// Drain returns the finished episodes and empties the log.
func (l *EpisodeLogData) Drain() []episode.Summary {
	out := l.Finished
	l.Finished = nil
	return out
}
