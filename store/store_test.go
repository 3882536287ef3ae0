package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/automoto/racetrainer/shared/episode"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	return map[string]Store{
		KindMemory: NewMemoryStore(),
		KindSQLite: NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db")),
	}
}

func testRun(track string, started time.Time) episode.Run {
	return episode.Run{
		ID:        uuid.New(),
		Track:     track,
		Policy:    "random",
		Behavior:  "default",
		Drivers:   2,
		Seed:      42,
		StartedAt: started,
	}
}

func testEpisode(runID uuid.UUID, number int, ret float64) episode.Summary {
	return episode.Summary{
		ID:                uuid.New(),
		RunID:             runID,
		Number:            number,
		Driver:            number % 2,
		Steps:             100 * number,
		Return:            ret,
		CheckpointsPassed: 4,
		WrongCheckpoints:  1,
		GuideEntries:      2,
		WallContacts:      3,
		WallTicks:         7,
		Laps:              1,
		BestLapTime:       12.5,
		EndReason:         episode.EndMaxSteps,
		FinishedAt:        time.Date(2026, 3, 1, 12, 0, number, 1500, time.UTC),
	}
}

func TestStores(t *testing.T) {
	for kind, s := range backends(t) {
		t.Run(kind, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Init(ctx))
			t.Cleanup(func() { _ = s.Close() })

			_, err := Latest(ctx, s)
			assert.ErrorIs(t, err, ErrNotFound)

			base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
			older := testRun("oval", base)
			newer := testRun("square", base.Add(100*time.Millisecond))
			require.NoError(t, s.SaveRun(ctx, older))
			require.NoError(t, s.SaveRun(ctx, newer))

			got, err := s.GetRun(ctx, older.ID)
			require.NoError(t, err)
			if diff := cmp.Diff(older, got); diff != "" {
				t.Errorf("run mismatch (-want +got):\n%s", diff)
			}

			_, err = s.GetRun(ctx, uuid.New())
			assert.ErrorIs(t, err, ErrNotFound)

			runs, err := s.ListRuns(ctx)
			require.NoError(t, err)
			require.Len(t, runs, 2)
			assert.Equal(t, newer.ID, runs[0].ID)

			latest, err := Latest(ctx, s)
			require.NoError(t, err)
			assert.Equal(t, newer.ID, latest.ID)

			want := []episode.Summary{
				testEpisode(older.ID, 1, -5),
				testEpisode(older.ID, 2, 40.25),
				testEpisode(older.ID, 3, 12),
			}
			require.NoError(t, s.SaveEpisodes(ctx, want[:2]))
			require.NoError(t, s.SaveEpisodes(ctx, want[2:]))
			require.NoError(t, s.SaveEpisodes(ctx, nil))

			episodes, err := s.ListEpisodes(ctx, older.ID)
			require.NoError(t, err)
			if diff := cmp.Diff(want, episodes); diff != "" {
				t.Errorf("episodes mismatch (-want +got):\n%s", diff)
			}

			episodes, err = s.ListEpisodes(ctx, newer.ID)
			require.NoError(t, err)
			assert.Empty(t, episodes)
		})
	}
}

func TestNewStore(t *testing.T) {
	t.Parallel()

	s, err := NewStore("", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = NewStore(KindSQLite, "x.db")
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)

	_, err = NewStore("postgres", "")
	assert.Error(t, err)
}

func TestSQLiteStoreRequiresInit(t *testing.T) {
	t.Parallel()

	s := NewSQLiteStore("")
	assert.Error(t, s.Init(context.Background()))
	_, err := s.ListRuns(context.Background())
	assert.Error(t, err)
	assert.NoError(t, s.Close())
}

func TestSQLiteStoreReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.db")

	first := NewSQLiteStore(path)
	require.NoError(t, first.Init(ctx))
	run := testRun("oval", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, first.SaveRun(ctx, run))
	require.NoError(t, first.Close())

	// Migrations already applied; reopening must not fail.
	second := NewSQLiteStore(path)
	require.NoError(t, second.Init(ctx))
	defer second.Close()

	got, err := second.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Track, got.Track)
}
