package store

import (
	"context"
	"sort"
	"sync"

	"github.com/automoto/racetrainer/shared/episode"
	"github.com/google/uuid"
)

type MemoryStore struct {
	mu       sync.RWMutex
	runs     map[uuid.UUID]episode.Run
	episodes map[uuid.UUID][]episode.Summary
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs:     make(map[uuid.UUID]episode.Run),
		episodes: make(map[uuid.UUID][]episode.Summary),
	}
}

func (s *MemoryStore) Init(_ context.Context) error {
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run episode.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id uuid.UUID) (episode.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return episode.Run{}, ErrNotFound
	}
	return run, nil
}

func (s *MemoryStore) ListRuns(_ context.Context) ([]episode.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]episode.Run, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	return runs, nil
}

func (s *MemoryStore) SaveEpisodes(_ context.Context, episodes []episode.Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ep := range episodes {
		s.episodes[ep.RunID] = append(s.episodes[ep.RunID], ep)
	}
	return nil
}

func (s *MemoryStore) ListEpisodes(_ context.Context, runID uuid.UUID) ([]episode.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]episode.Summary(nil), s.episodes[runID]...), nil
}

func (s *MemoryStore) Close() error {
	return nil
}
