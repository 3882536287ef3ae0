package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/automoto/racetrainer/shared/episode"
	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	// One writer; modernc serializes anyway and this keeps :memory: usable.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := migrateUp(db); err != nil {
		_ = db.Close()
		return err
	}
	if version, _, err := migrateVersion(db); err == nil {
		log.Printf("[store] sqlite %s at schema version %d", s.path, version)
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run episode.Run) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, track, policy, behavior, drivers, seed, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			track = excluded.track,
			policy = excluded.policy,
			behavior = excluded.behavior,
			drivers = excluded.drivers,
			seed = excluded.seed,
			started_at = excluded.started_at
	`, run.ID.String(), run.Track, run.Policy, run.Behavior, run.Drivers, run.Seed, formatTime(run.StartedAt))
	return err
}

func (s *SQLiteStore) GetRun(ctx context.Context, id uuid.UUID) (episode.Run, error) {
	db, err := s.getDB()
	if err != nil {
		return episode.Run{}, err
	}

	row := db.QueryRowContext(ctx, `
		SELECT id, track, policy, behavior, drivers, seed, started_at
		FROM runs WHERE id = ?
	`, id.String())
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return episode.Run{}, ErrNotFound
	}
	return run, err
}

func (s *SQLiteStore) ListRuns(ctx context.Context) ([]episode.Run, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, track, policy, behavior, drivers, seed, started_at
		FROM runs ORDER BY started_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []episode.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) SaveEpisodes(ctx context.Context, episodes []episode.Summary) error {
	if len(episodes) == 0 {
		return nil
	}
	db, err := s.getDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO episodes (
			id, run_id, number, driver, steps, episode_return,
			checkpoints_passed, wrong_checkpoints, guide_entries,
			wall_contacts, wall_ticks, laps, best_lap_time,
			end_reason, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, ep := range episodes {
		if _, err := stmt.ExecContext(ctx,
			ep.ID.String(), ep.RunID.String(), ep.Number, ep.Driver, ep.Steps, ep.Return,
			ep.CheckpointsPassed, ep.WrongCheckpoints, ep.GuideEntries,
			ep.WallContacts, ep.WallTicks, ep.Laps, ep.BestLapTime,
			string(ep.EndReason), formatTime(ep.FinishedAt),
		); err != nil {
			return fmt.Errorf("insert episode %s: %w", ep.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) ListEpisodes(ctx context.Context, runID uuid.UUID) ([]episode.Summary, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, run_id, number, driver, steps, episode_return,
			checkpoints_passed, wrong_checkpoints, guide_entries,
			wall_contacts, wall_ticks, laps, best_lap_time,
			end_reason, finished_at
		FROM episodes WHERE run_id = ? ORDER BY seq
	`, runID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []episode.Summary
	for rows.Next() {
		var (
			ep                 episode.Summary
			id, run, reason, t string
		)
		if err := rows.Scan(
			&id, &run, &ep.Number, &ep.Driver, &ep.Steps, &ep.Return,
			&ep.CheckpointsPassed, &ep.WrongCheckpoints, &ep.GuideEntries,
			&ep.WallContacts, &ep.WallTicks, &ep.Laps, &ep.BestLapTime,
			&reason, &t,
		); err != nil {
			return nil, err
		}
		if ep.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("episode id %q: %w", id, err)
		}
		if ep.RunID, err = uuid.Parse(run); err != nil {
			return nil, fmt.Errorf("run id %q: %w", run, err)
		}
		if ep.FinishedAt, err = parseTime(t); err != nil {
			return nil, err
		}
		ep.EndReason = episode.EndReason(reason)
		out = append(out, ep)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("sqlite store not initialized")
	}
	return s.db, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (episode.Run, error) {
	var (
		run   episode.Run
		id, t string
	)
	if err := row.Scan(&id, &run.Track, &run.Policy, &run.Behavior, &run.Drivers, &run.Seed, &t); err != nil {
		return episode.Run{}, err
	}
	var err error
	if run.ID, err = uuid.Parse(id); err != nil {
		return episode.Run{}, fmt.Errorf("run id %q: %w", id, err)
	}
	if run.StartedAt, err = parseTime(t); err != nil {
		return episode.Run{}, err
	}
	return run, nil
}

// timeLayout is fixed width so text order matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}
