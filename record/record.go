// Package record keeps a history of stress test runs in a SQLite database.
package record

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/moffa90/go-rawnand/stresstest"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY,
	device        TEXT NOT NULL,
	started_at    INTEGER NOT NULL,
	mode          TEXT NOT NULL,
	seed          INTEGER NOT NULL,
	iterations    INTEGER NOT NULL,
	range_offset  INTEGER NOT NULL,
	range_length  INTEGER NOT NULL,
	blocks_tested INTEGER NOT NULL,
	skipped_bad   INTEGER NOT NULL,
	ecc_overflow  INTEGER NOT NULL,
	ecc_failed    INTEGER NOT NULL,
	elapsed_ms    INTEGER NOT NULL,
	status        TEXT NOT NULL,
	error         TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS ecc_buckets (
	run_id TEXT NOT NULL REFERENCES runs(id),
	bits   INTEGER NOT NULL,
	count  INTEGER NOT NULL,
	PRIMARY KEY (run_id, bits)
);
`

// Run statuses.
const (
	StatusPassed = "passed"
	StatusFailed = "failed"
)

// Entry is one recorded run.
type Entry struct {
	ID           string
	Device       string
	StartedAt    time.Time
	Mode         string
	Seed         uint32
	Iterations   int
	Offset       int64
	Length       int64
	BlocksTested int64
	SkippedBad   int64
	Buckets      []uint64
	Overflow     uint64
	Failed       uint64
	Elapsed      time.Duration
	Status       string
	Error        string
}

// Recorder writes run summaries to a SQLite database.
type Recorder struct {
	db *sql.DB
}

// Open opens or creates the database at path. The database is closed
// automatically when the program exits through atexit.
func Open(path string) (*Recorder, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}

	r := &Recorder{db: db}
	atexit.Register(func() { _ = r.Close() })
	return r, nil
}

// Record stores the summary of a finished run. runErr is the error the run
// ended with, nil for a passed run.
func (r *Recorder) Record(device string, s *stresstest.Summary, runErr error) error {
	if r.db == nil {
		return errors.New("history is closed")
	}
	if s == nil {
		return errors.New("summary cannot be nil")
	}

	id, err := xid.FromString(s.RunID)
	if err != nil {
		return fmt.Errorf("run id %q: %w", s.RunID, err)
	}

	status, msg := StatusPassed, ""
	if runErr != nil {
		status, msg = StatusFailed, runErr.Error()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs (id, device, started_at, mode, seed, iterations, range_offset, range_length,
		blocks_tested, skipped_bad, ecc_overflow, ecc_failed, elapsed_ms, status, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.RunID, device, id.Time().Unix(), s.Run.Mode.String(), s.Run.Seed, s.Run.Iterations,
		s.Run.Offset, s.Run.Length, s.BlocksTested, s.SkippedBad,
		int64(s.Histogram.Overflow), int64(s.Histogram.Failed), s.Elapsed.Milliseconds(), status, msg)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, n := range s.Histogram.Buckets {
		if _, err := tx.Exec(`INSERT INTO ecc_buckets (run_id, bits, count) VALUES (?, ?, ?)`,
			s.RunID, i+1, int64(n)); err != nil {
			return fmt.Errorf("insert ecc bucket: %w", err)
		}
	}

	return tx.Commit()
}

// Runs returns up to limit recorded runs, newest first. A limit of zero or
// less returns every run.
func (r *Recorder) Runs(limit int) ([]Entry, error) {
	if r.db == nil {
		return nil, errors.New("history is closed")
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(`SELECT id, device, started_at, mode, seed, iterations, range_offset, range_length,
		blocks_tested, skipped_bad, ecc_overflow, ecc_failed, elapsed_ms, status, error
		FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                  Entry
			started, elapsedMs int64
			overflow, failed   int64
		)
		err := rows.Scan(&e.ID, &e.Device, &started, &e.Mode, &e.Seed, &e.Iterations, &e.Offset,
			&e.Length, &e.BlocksTested, &e.SkippedBad, &overflow, &failed, &elapsedMs,
			&e.Status, &e.Error)
		if err != nil {
			return nil, err
		}
		e.StartedAt = time.Unix(started, 0)
		e.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		e.Overflow = uint64(overflow)
		e.Failed = uint64(failed)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range entries {
		buckets, err := r.buckets(entries[i].ID)
		if err != nil {
			return nil, err
		}
		entries[i].Buckets = buckets
	}
	return entries, nil
}

func (r *Recorder) buckets(runID string) ([]uint64, error) {
	rows, err := r.db.Query(`SELECT count FROM ecc_buckets WHERE run_id = ? ORDER BY bits`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []uint64
	for rows.Next() {
		var n int64
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		buckets = append(buckets, uint64(n))
	}
	return buckets, rows.Err()
}

// Close closes the database. It is safe to call more than once.
func (r *Recorder) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}
