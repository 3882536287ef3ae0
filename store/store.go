// Package store persists training runs and their finished episodes.
package store

import (
	"context"
	"errors"

	"github.com/automoto/racetrainer/shared/episode"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("not found")

// Store keeps runs and episode summaries. Episodes of a run are listed in
// the order they were saved.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run episode.Run) error
	GetRun(ctx context.Context, id uuid.UUID) (episode.Run, error)
	// ListRuns returns every run, most recently started first.
	ListRuns(ctx context.Context) ([]episode.Run, error)
	SaveEpisodes(ctx context.Context, episodes []episode.Summary) error
	ListEpisodes(ctx context.Context, runID uuid.UUID) ([]episode.Summary, error)
	Close() error
}

// Latest returns the most recently started run.
func Latest(ctx context.Context, s Store) (episode.Run, error) {
	runs, err := s.ListRuns(ctx)
	if err != nil {
		return episode.Run{}, err
	}
	if len(runs) == 0 {
		return episode.Run{}, ErrNotFound
	}
	return runs[0], nil
}
